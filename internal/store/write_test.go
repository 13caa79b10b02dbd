package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
)

func TestWriteGame(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g := createTestGame("game-1", 1)
	g.Label = "corner mine"
	g.Seed = 42
	g.Seeded = true
	require.NoError(t, s.WriteGame(ctx, g))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestWriteGame_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g := createTestGame("game-1", 1)
	require.NoError(t, s.WriteGame(ctx, g))

	// Second write with the same ID is ignored, even with different content.
	other := g
	other.Label = "changed"
	require.NoError(t, s.WriteGame(ctx, other))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "", got.Label)
}

func TestWriteGame_DefaultsStatus(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g := createTestGame("game-1", 1)
	g.Status = ""
	require.NoError(t, s.WriteGame(ctx, g))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, record.StatusInPlay, got.Status)
}

func TestWriteGame_NormalizesLabel(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g := createTestGame("game-1", 1)
	g.Label = "cafe\u0301"
	require.NoError(t, s.WriteGame(ctx, g))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", got.Label)
}

func TestWriteGame_RejectsInvalidDimensions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g := createTestGame("game-1", 1)
	g.Mines = 9
	assert.Error(t, s.WriteGame(ctx, g), "CHECK constraint should reject a full board")
}

func TestWriteGame_EmptyLayout(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g := createTestGame("game-1", 1)
	g.Mines = 0
	g.Layout = nil
	g.BoardHash = record.MustBoardHash(3, 3, nil)
	require.NoError(t, s.WriteGame(ctx, g))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, []minefield.Coord{}, got.Layout)
}

func TestWriteMove(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGame(ctx, createTestGame("game-1", 1)))

	m := createTestMove("game-1", 2, 2, 2)
	require.NoError(t, s.WriteMove(ctx, m))

	moves, err := s.ReadMoves(ctx, "game-1")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, m, moves[0])
}

func TestWriteMove_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGame(ctx, createTestGame("game-1", 1)))

	m := createTestMove("game-1", 2, 2, 2)
	require.NoError(t, s.WriteMove(ctx, m))
	require.NoError(t, s.WriteMove(ctx, m))

	moves, err := s.ReadMoves(ctx, "game-1")
	require.NoError(t, err)
	assert.Len(t, moves, 1)
}

func TestWriteMove_SeqConflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGame(ctx, createTestGame("game-1", 1)))
	require.NoError(t, s.WriteMove(ctx, createTestMove("game-1", 2, 2, 2)))

	// Different command at the same seq has a different ID and must fail.
	err := s.WriteMove(ctx, createTestMove("game-1", 2, 1, 1))
	assert.Error(t, err)
}

func TestWriteMove_UnknownGame(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.WriteMove(ctx, createTestMove("missing", 2, 0, 0))
	assert.Error(t, err, "foreign key should reject a move without a game")
}

func TestUpdateGameStatus(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGame(ctx, createTestGame("game-1", 1)))
	require.NoError(t, s.UpdateGameStatus(ctx, "game-1", record.StatusWon))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, record.StatusWon, got.Status)

	assert.Error(t, s.UpdateGameStatus(ctx, "game-1", "paused"), "CHECK constraint should reject unknown status")
}

func TestUpdateGameStatus_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.UpdateGameStatus(context.Background(), "missing", record.StatusLost)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGameNotFound))
}

func TestAppendMove(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGame(ctx, createTestGame("game-1", 1)))

	m := createTestMove("game-1", 2, 0, 0)
	m.Outcome = "lose"
	m.Revealed = 0
	started := time.UnixMilli(1_700_000_000_000).UTC()
	finished := started.Add(42 * time.Second)
	require.NoError(t, s.AppendMove(ctx, m, record.Progress{
		Status:     record.StatusLost,
		StartedAt:  started,
		FinishedAt: finished,
	}))

	got, err := s.ReadGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, record.StatusLost, got.Status)
	assert.True(t, started.Equal(got.StartedAt), "started_at %v", got.StartedAt)
	assert.True(t, finished.Equal(got.FinishedAt), "finished_at %v", got.FinishedAt)
	assert.Equal(t, 42*time.Second, got.Elapsed(time.Now()))

	moves, err := s.ReadMoves(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, []record.Move{m}, moves)
}

func TestAppendMove_RollsBackOnBadStatus(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGame(ctx, createTestGame("game-1", 1)))

	err := s.AppendMove(ctx, createTestMove("game-1", 2, 2, 2), record.Progress{Status: "paused"})
	require.Error(t, err)

	moves, err := s.ReadMoves(ctx, "game-1")
	require.NoError(t, err)
	assert.Empty(t, moves, "move must not survive a failed status update")
}
