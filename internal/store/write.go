package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/minefield/internal/record"
)

// WriteGame inserts a game record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
//
// The layout is serialized to canonical JSON so the stored text matches the
// bytes hashed into BoardHash.
func (s *Store) WriteGame(ctx context.Context, g record.Game) error {
	layout, err := marshalLayout(g.Layout)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}

	status := g.Status
	if status == "" {
		status = record.StatusInPlay
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games
		(id, label, num_rows, num_cols, num_mines, seed, seeded, layout, board_hash, status, seq, engine_version, format_version, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		g.ID,
		record.NormalizeLabel(g.Label),
		g.Rows,
		g.Cols,
		g.Mines,
		seedToDB(g.Seed),
		g.Seeded,
		layout,
		g.BoardHash,
		status,
		g.Seq,
		g.EngineVersion,
		g.FormatVersion,
		timeToDB(g.StartedAt),
		timeToDB(g.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("write game: %w", err)
	}

	return nil
}

// UpdateGameStatus sets the status column of a game.
// Returns ErrGameNotFound if no game has the given ID.
func (s *Store) UpdateGameStatus(ctx context.Context, gameID, status string) error {
	return updateStatus(ctx, s.db, gameID, status)
}

// WriteMove inserts a move record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency. A different move at a seq
// already used by the game still fails on UNIQUE(game_id, seq).
//
// Note: The game referenced by GameID must exist (foreign key constraint).
func (s *Store) WriteMove(ctx context.Context, m record.Move) error {
	if err := insertMove(ctx, s.db, m); err != nil {
		return fmt.Errorf("write move: %w", err)
	}
	return nil
}

// AppendMove records a move and the game progress it left behind in one
// transaction, so a crash never leaves a status ahead of the move log.
func (s *Store) AppendMove(ctx context.Context, m record.Move, p record.Progress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append move: begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertMove(ctx, tx, m); err != nil {
		return fmt.Errorf("append move: %w", err)
	}
	if err := updateProgress(ctx, tx, m.GameID, p); err != nil {
		return fmt.Errorf("append move: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append move: commit: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMove(ctx context.Context, db execer, m record.Move) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO moves
		(id, game_id, seq, kind, cell_row, cell_col, outcome, noop, revealed, flagged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		m.ID,
		m.GameID,
		m.Seq,
		string(m.Kind),
		m.Row,
		m.Col,
		m.Outcome,
		m.NoOp,
		m.Revealed,
		m.Flagged,
	)
	return err
}

func updateStatus(ctx context.Context, db execer, gameID, status string) error {
	res, err := db.ExecContext(ctx, `UPDATE games SET status = ? WHERE id = ?`, status, gameID)
	if err != nil {
		return fmt.Errorf("update game status: %w", err)
	}
	return checkUpdated(res, gameID)
}

func updateProgress(ctx context.Context, db execer, gameID string, p record.Progress) error {
	res, err := db.ExecContext(ctx,
		`UPDATE games SET status = ?, started_at = ?, finished_at = ? WHERE id = ?`,
		p.Status, timeToDB(p.StartedAt), timeToDB(p.FinishedAt), gameID)
	if err != nil {
		return fmt.Errorf("update game progress: %w", err)
	}
	return checkUpdated(res, gameID)
}

func checkUpdated(res sql.Result, gameID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update game %s: %w", gameID, err)
	}
	if n == 0 {
		return fmt.Errorf("update game %s: %w", gameID, ErrGameNotFound)
	}
	return nil
}
