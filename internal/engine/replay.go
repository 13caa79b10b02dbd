package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
	"github.com/roach88/minefield/internal/store"
)

// GameStore is the storage surface Resume needs.
// Implemented by *store.Store.
type GameStore interface {
	Recorder
	ReadGame(ctx context.Context, id string) (record.Game, error)
	ReadMoves(ctx context.Context, gameID string) ([]record.Move, error)
}

// ReplayResult is the board state reached by re-executing a move log.
type ReplayResult struct {
	Grid *minefield.Grid

	// Moves is the number of moves re-executed.
	Moves int

	// LastSeq is the highest seq in the game, counting its creation.
	LastSeq int64

	// TraceHash fingerprints the verified move log.
	TraceHash string
}

// Replay re-executes a stored game and verifies every recorded effect.
//
// The board is rebuilt from the stored layout and checked against the
// board hash. Seeded games must also regenerate the same layout from their
// seed. Each move must carry its content-addressed ID, follow the previous
// seq and reproduce the recorded outcome, no-op flag, revealed count and
// flag state. The final state must match the stored status.
//
// The first discrepancy is returned as a REPLAY_MISMATCH error.
func Replay(game record.Game, moves []record.Move) (*ReplayResult, error) {
	grid, err := minefield.NewFromLayout(game.Rows, game.Cols, game.Layout)
	if err != nil {
		return nil, newMismatchError(game.ID, 0, "stored layout is invalid: %v", err)
	}
	if grid.NumMines() != game.Mines {
		return nil, newMismatchError(game.ID, 0, "layout has %d mines, game records %d", grid.NumMines(), game.Mines)
	}

	hash, err := record.BoardHash(game.Rows, game.Cols, grid.Mines())
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", game.ID, err)
	}
	if hash != game.BoardHash {
		return nil, newMismatchError(game.ID, 0, "board hash %s, recorded %s", hash, game.BoardHash)
	}

	if game.Seeded {
		regen, err := minefield.NewSeeded(game.Rows, game.Cols, game.Mines, game.Seed)
		if err != nil {
			return nil, newMismatchError(game.ID, 0, "seed %d does not build a board: %v", game.Seed, err)
		}
		regenHash, err := record.BoardHash(game.Rows, game.Cols, regen.Mines())
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", game.ID, err)
		}
		if regenHash != game.BoardHash {
			return nil, newMismatchError(game.ID, 0, "seed %d does not reproduce the stored layout", game.Seed)
		}
	}

	last := game.Seq
	for _, m := range moves {
		if m.Seq <= last {
			return nil, newMismatchError(game.ID, m.Seq, "seq does not follow %d", last)
		}
		last = m.Seq

		wantID, err := record.MoveID(game.ID, m.Seq, m.Kind, m.Row, m.Col)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", game.ID, err)
		}
		if wantID != m.ID {
			return nil, newMismatchError(game.ID, m.Seq, "move ID does not match its content")
		}

		if st := grid.State(); st != minefield.InPlay {
			return nil, newMismatchError(game.ID, m.Seq, "move recorded after game %s", st)
		}

		got, err := execute(grid, m.Kind, m.Row, m.Col)
		if err != nil {
			return nil, newMismatchError(game.ID, m.Seq, "move failed: %v", err)
		}
		if diff := compareEffect(m, got.Move); diff != "" {
			return nil, newMismatchError(game.ID, m.Seq, "%s", diff)
		}
	}

	if status := grid.State().String(); status != game.Status {
		return nil, newMismatchError(game.ID, 0, "replay ends %s, recorded %s", status, game.Status)
	}

	trace, err := record.TraceHash(moves)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", game.ID, err)
	}

	return &ReplayResult{
		Grid:      grid,
		Moves:     len(moves),
		LastSeq:   last,
		TraceHash: trace,
	}, nil
}

// compareEffect returns a description of the first field that differs, or "".
func compareEffect(want, got record.Move) string {
	switch {
	case want.Outcome != got.Outcome:
		return fmt.Sprintf("outcome %s, recorded %s", got.Outcome, want.Outcome)
	case want.NoOp != got.NoOp:
		return fmt.Sprintf("noop %t, recorded %t", got.NoOp, want.NoOp)
	case want.Revealed != got.Revealed:
		return fmt.Sprintf("revealed %d cells, recorded %d", got.Revealed, want.Revealed)
	case want.Flagged != got.Flagged:
		return fmt.Sprintf("flagged %t, recorded %t", got.Flagged, want.Flagged)
	}
	return ""
}

// Resume loads a stored game, verifies it with Replay and returns an engine
// ready to accept the next move. New moves are recorded to st unless
// WithRecorder overrides it.
func Resume(ctx context.Context, st GameStore, gameID string, opts ...Option) (*Engine, error) {
	game, err := st.ReadGame(ctx, gameID)
	if errors.Is(err, store.ErrGameNotFound) {
		return nil, &Error{Code: ErrCodeGameNotFound, Message: "no stored game", GameID: gameID}
	}
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", gameID, err)
	}

	moves, err := st.ReadMoves(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", gameID, err)
	}

	res, err := Replay(game, moves)
	if err != nil {
		return nil, err
	}

	base := []Option{WithRecorder(st), WithClock(NewClockAt(res.LastSeq))}
	e := newEngine(append(base, opts...))
	e.grid = res.Grid
	e.game = game
	e.moves = moves

	e.logger.Debug("game resumed",
		"game", game.ID,
		"moves", res.Moves,
		"seq", res.LastSeq,
		"status", game.Status)

	return e, nil
}
