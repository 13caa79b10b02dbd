package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestGame creates a 3x3 game with one mine in the corner.
func createTestGame(id string, seq int64) record.Game {
	layout := []minefield.Coord{{Row: 0, Col: 0}}
	return record.Game{
		ID:            id,
		Rows:          3,
		Cols:          3,
		Mines:         1,
		Layout:        layout,
		BoardHash:     record.MustBoardHash(3, 3, layout),
		Status:        record.StatusInPlay,
		Seq:           seq,
		EngineVersion: record.EngineVersion,
		FormatVersion: record.FormatVersion,
	}
}

// createTestMove creates a reveal move with a content-addressed ID.
func createTestMove(gameID string, seq int64, row, col int) record.Move {
	return record.Move{
		ID:       record.MustMoveID(gameID, seq, record.MoveReveal, row, col),
		GameID:   gameID,
		Seq:      seq,
		Kind:     record.MoveReveal,
		Row:      row,
		Col:      col,
		Outcome:  "continue",
		Revealed: 1,
	}
}
