package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minefield/internal/minefield"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestEvaluateAssertions_Counts(t *testing.T) {
	result := &Result{Status: "in_play", Revealed: 4, Flags: 2, Board: []string{"F1", "F."}}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertFinalOutcome, Status: "in_play"},
		{Type: AssertRevealedCount, Count: 4},
		{Type: AssertFlagCount, Count: 2},
	}, nil)
	assert.Empty(t, errs)

	errs = EvaluateAssertions(result, []Assertion{
		{Type: AssertRevealedCount, Count: 5},
		{Type: AssertFlagCount, Count: 0},
	}, nil)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Assertion failed: revealed_count")
	assert.Contains(t, errs[0], "Expected: 5")
	assert.Contains(t, errs[0], "Actual: 4")
	assert.Contains(t, errs[0], "  F1\n")
	assert.Contains(t, errs[1], "Assertion failed: flag_count")
}

func TestEvaluateAssertions_RequiresContext(t *testing.T) {
	result := &Result{Status: "in_play"}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertCellState, State: CellHidden},
		{Type: AssertMoveCount, Count: 0},
		{Type: "vibes"},
	}, nil)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "cell_state requires a board")
	assert.Contains(t, errs[1], "move_count requires database context")
	assert.Contains(t, errs[2], `unknown assertion type "vibes"`)
}

func TestAssertCellState(t *testing.T) {
	grid, err := minefield.NewFromLayout(2, 2, []minefield.Coord{{Row: 0, Col: 0}})
	require.NoError(t, err)
	_, err = grid.Reveal(1, 1)
	require.NoError(t, err)
	_, err = grid.ToggleFlag(0, 0)
	require.NoError(t, err)

	actx := &AssertionContext{Grid: grid, Ctx: context.Background()}
	result := &Result{Status: "in_play"}

	tests := []struct {
		name    string
		a       Assertion
		wantErr string
	}{
		{"revealed with count", Assertion{Type: AssertCellState, Row: 1, Col: 1, State: CellRevealed, MinesAround: intPtr(1)}, ""},
		{"flagged", Assertion{Type: AssertCellState, Row: 0, Col: 0, State: CellFlagged}, ""},
		{"hidden", Assertion{Type: AssertCellState, Row: 0, Col: 1, State: CellHidden}, ""},
		{"mine hidden while in play", Assertion{Type: AssertCellState, Row: 0, Col: 0, State: CellFlagged, IsMine: boolPtr(false)}, ""},
		{"wrong state", Assertion{Type: AssertCellState, Row: 0, Col: 1, State: CellRevealed}, "Expected: (0, 1) revealed"},
		{"wrong count", Assertion{Type: AssertCellState, Row: 1, Col: 1, State: CellRevealed, MinesAround: intPtr(2)}, "mines_around 1"},
		{"out of bounds", Assertion{Type: AssertCellState, Row: 5, Col: 5, State: CellHidden}, "OUT_OF_BOUNDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(result, []Assertion{tt.a}, actx)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestAssertionError_NoBoard(t *testing.T) {
	err := &AssertionError{Type: AssertFlagCount, Expected: "1", Actual: "0"}
	assert.Equal(t, "Assertion failed: flag_count\n  Expected: 1\n  Actual: 0\n", err.Error())
}
