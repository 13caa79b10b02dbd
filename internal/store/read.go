package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/minefield/internal/record"
)

const gameColumns = `id, label, num_rows, num_cols, num_mines, seed, seeded, layout, board_hash, status, seq, engine_version, format_version, started_at, finished_at`

// ReadGame returns a single game by ID.
// Returns an error wrapping ErrGameNotFound if no game has the given ID.
func (s *Store) ReadGame(ctx context.Context, id string) (record.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Game{}, fmt.Errorf("read game %s: %w", id, ErrGameNotFound)
	}
	if err != nil {
		return record.Game{}, fmt.Errorf("read game %s: %w", id, err)
	}
	return g, nil
}

// ListGames returns stored games in ID order, optionally filtered by
// status. An empty status returns every game. Engine-issued IDs are
// UUIDv7, so ID order is creation order.
//
// Returns an empty slice (not nil) if no games match.
func (s *Store) ListGames(ctx context.Context, status string) ([]record.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []record.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

// ReadMoves returns every move of a game in clock order.
//
// Returns an empty slice (not nil) if the game has no moves.
func (s *Store) ReadMoves(ctx context.Context, gameID string) ([]record.Move, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, seq, kind, cell_row, cell_col, outcome, noop, revealed, flagged
		FROM moves
		WHERE game_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	moves := []record.Move{}
	for rows.Next() {
		var m record.Move
		var kind string
		if err := rows.Scan(&m.ID, &m.GameID, &m.Seq, &kind, &m.Row, &m.Col, &m.Outcome, &m.NoOp, &m.Revealed, &m.Flagged); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.Kind = record.MoveKind(kind)
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return moves, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(sc scanner) (record.Game, error) {
	var g record.Game
	var seed int64
	var layout string
	var startedAt, finishedAt sql.NullInt64
	err := sc.Scan(
		&g.ID,
		&g.Label,
		&g.Rows,
		&g.Cols,
		&g.Mines,
		&seed,
		&g.Seeded,
		&layout,
		&g.BoardHash,
		&g.Status,
		&g.Seq,
		&g.EngineVersion,
		&g.FormatVersion,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return record.Game{}, err
	}

	g.Seed = seedFromDB(seed)
	g.StartedAt = timeFromDB(startedAt)
	g.FinishedAt = timeFromDB(finishedAt)
	g.Layout, err = unmarshalLayout(layout)
	if err != nil {
		return record.Game{}, err
	}
	return g, nil
}
