package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the final board to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Board    []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Board) > 0 {
		fmt.Fprintf(&buf, "\nBoard:\n")
		for _, row := range e.Board {
			fmt.Fprintf(&buf, "  %s\n", row)
		}
	}

	return buf.String()
}

// AssertionContext provides the game state assertions inspect.
type AssertionContext struct {
	Store  *store.Store
	Grid   *minefield.Grid
	GameID string
	Ctx    context.Context
}

// assertFinalOutcome checks the status both in memory and in the store.
func assertFinalOutcome(result *Result, a Assertion, actx *AssertionContext) error {
	if result.Status != a.Status {
		return &AssertionError{
			Type:     AssertFinalOutcome,
			Expected: a.Status,
			Actual:   result.Status,
			Board:    result.Board,
		}
	}

	if actx != nil && actx.Store != nil {
		g, err := actx.Store.ReadGame(actx.Ctx, actx.GameID)
		if err != nil {
			return fmt.Errorf("final_outcome: %w", err)
		}
		if g.Status != a.Status {
			return &AssertionError{
				Type:     AssertFinalOutcome,
				Expected: fmt.Sprintf("stored status %s", a.Status),
				Actual:   fmt.Sprintf("stored status %s", g.Status),
				Board:    result.Board,
			}
		}
	}
	return nil
}

func assertCount(kind string, want, got int, board []string) error {
	if want != got {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%d", want),
			Actual:   fmt.Sprintf("%d", got),
			Board:    board,
		}
	}
	return nil
}

// assertCellState checks one cell's snapshot.
func assertCellState(result *Result, a Assertion, grid *minefield.Grid) error {
	snap, err := grid.Snapshot(a.Row, a.Col)
	if err != nil {
		return fmt.Errorf("cell_state: %w", err)
	}

	state := CellHidden
	switch {
	case snap.IsRevealed:
		state = CellRevealed
	case snap.IsFlagged:
		state = CellFlagged
	}

	fail := func(expected, actual string) error {
		return &AssertionError{
			Type:     AssertCellState,
			Expected: fmt.Sprintf("(%d, %d) %s", a.Row, a.Col, expected),
			Actual:   actual,
			Board:    result.Board,
		}
	}

	if state != a.State {
		return fail(a.State, state)
	}
	if a.MinesAround != nil && *a.MinesAround != snap.MinesAround {
		return fail(fmt.Sprintf("mines_around %d", *a.MinesAround), fmt.Sprintf("mines_around %d", snap.MinesAround))
	}
	if a.IsMine != nil && *a.IsMine != snap.IsMine {
		return fail(fmt.Sprintf("is_mine %t", *a.IsMine), fmt.Sprintf("is_mine %t", snap.IsMine))
	}
	return nil
}

// assertMoveCount checks how many moves the store holds for the game.
func assertMoveCount(result *Result, a Assertion, actx *AssertionContext) error {
	state, err := actx.Store.GetGameState(actx.Ctx, actx.GameID)
	if err != nil {
		return fmt.Errorf("move_count: %w", err)
	}
	return assertCount(AssertMoveCount, a.Count, state.Moves, result.Board)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertFinalOutcome:
			err = assertFinalOutcome(result, assertion, actx)
		case AssertRevealedCount:
			err = assertCount(AssertRevealedCount, assertion.Count, result.Revealed, result.Board)
		case AssertFlagCount:
			err = assertCount(AssertFlagCount, assertion.Count, result.Flags, result.Board)
		case AssertCellState:
			if actx == nil || actx.Grid == nil {
				err = fmt.Errorf("assertion[%d]: cell_state requires a board", i)
			} else {
				err = assertCellState(result, assertion, actx.Grid)
			}
		case AssertMoveCount:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: move_count requires database context", i)
			} else {
				err = assertMoveCount(result, assertion, actx)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
