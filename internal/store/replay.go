package store

import (
	"context"
	"fmt"

	"github.com/roach88/minefield/internal/record"
)

// GameState summarizes a stored game without replaying it.
type GameState struct {
	Game    record.Game
	Moves   int
	NoOps   int
	Reveals int
	Flags   int
	Chords  int
	LastSeq int64
}

// GetGameState returns the stored game together with move counts.
// Returns an error wrapping ErrGameNotFound if the game does not exist.
func (s *Store) GetGameState(ctx context.Context, gameID string) (GameState, error) {
	g, err := s.ReadGame(ctx, gameID)
	if err != nil {
		return GameState{}, err
	}

	state := GameState{Game: g, LastSeq: g.Seq}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*), SUM(noop), MAX(seq)
		FROM moves
		WHERE game_id = ?
		GROUP BY kind
		ORDER BY kind COLLATE BINARY ASC
	`, gameID)
	if err != nil {
		return GameState{}, fmt.Errorf("query move counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count, noops int
		var maxSeq int64
		if err := rows.Scan(&kind, &count, &noops, &maxSeq); err != nil {
			return GameState{}, fmt.Errorf("scan move counts: %w", err)
		}
		state.Moves += count
		state.NoOps += noops
		switch record.MoveKind(kind) {
		case record.MoveReveal:
			state.Reveals = count
		case record.MoveFlag:
			state.Flags = count
		case record.MoveChord:
			state.Chords = count
		}
		if maxSeq > state.LastSeq {
			state.LastSeq = maxSeq
		}
	}
	if err := rows.Err(); err != nil {
		return GameState{}, fmt.Errorf("iterate move counts: %w", err)
	}

	return state, nil
}

// GetLastSeq returns the highest seq used by a game, counting its creation.
// Returns 0 for a game with no row.
func (s *Store) GetLastSeq(ctx context.Context, gameID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT seq FROM games WHERE id = ?
			UNION ALL
			SELECT seq FROM moves WHERE game_id = ?
		)
	`, gameID, gameID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}
