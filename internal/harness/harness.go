package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/minefield/internal/engine"
	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
	"github.com/roach88/minefield/internal/store"
	"github.com/roach88/minefield/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and game ID.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Create the game through the session engine
// 3. Apply steps, checking expect clauses
// 4. Resume the game from the store to verify it replays
// 5. Evaluate assertions
//
// An error is returned only when the scenario cannot run at all; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []engine.Option{
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithIDGenerator(testutil.NewFixedGameIDGenerator(scenario.GameID)),
		engine.WithRecorder(st),
		engine.WithLogger(logger),
	}

	params := engine.Params{Rows: scenario.Board.Rows, Cols: scenario.Board.Cols}
	if scenario.Board.Seeded() {
		params.Seed = *scenario.Board.Seed
		params.Mines = scenario.Board.Count
	} else {
		opts = append(opts, engine.WithLayout(scenario.Board.Layout()))
	}

	ctx := context.Background()
	eng, err := engine.New(ctx, params, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	h := &Harness{store: st, engine: eng, logger: logger}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	if err := h.verifyReplay(ctx); err != nil {
		result.AddError(fmt.Sprintf("replay: %v", err))
	}

	if err := h.summarize(result); err != nil {
		return nil, err
	}

	actx := &AssertionContext{
		Store:  st,
		Grid:   eng.Grid(),
		GameID: eng.ID(),
		Ctx:    ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSteps applies each step and validates its expect clause.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		kind, err := record.ParseMoveKind(step.Action)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		res, err := h.engine.Apply(ctx, kind, step.Row, step.Col)
		if err != nil {
			code := errorCode(err)
			if code == "" {
				return fmt.Errorf("step %d: %w", i, err)
			}
			result.AddTrace(TraceEvent{
				Action: step.Action,
				Row:    step.Row,
				Col:    step.Col,
				Error:  code,
			})
			if step.Expect == nil || step.Expect.Error != code {
				result.AddError(fmt.Sprintf("step %d (%s %d,%d): unexpected error %v", i, step.Action, step.Row, step.Col, err))
			}
			continue
		}

		m := res.Move
		result.AddTrace(TraceEvent{
			Seq:      m.Seq,
			Action:   string(m.Kind),
			Row:      m.Row,
			Col:      m.Col,
			Outcome:  m.Outcome,
			NoOp:     m.NoOp,
			Revealed: m.Revealed,
			Flagged:  m.Flagged,
		})

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, m) {
				result.AddError(fmt.Sprintf("step %d (%s %d,%d): %s", i, step.Action, step.Row, step.Col, msg))
			}
		}

		h.logger.Info("step completed",
			"step", i,
			"action", step.Action,
			"seq", m.Seq,
			"outcome", m.Outcome)
	}
	return nil
}

// checkExpect compares a recorded move against an expect clause.
func checkExpect(e *Expect, m record.Move) []string {
	var msgs []string
	if e.Error != "" {
		msgs = append(msgs, fmt.Sprintf("expected error %s, got outcome %s", e.Error, m.Outcome))
	}
	if e.Outcome != "" && e.Outcome != m.Outcome {
		msgs = append(msgs, fmt.Sprintf("outcome: expected %s, got %s", e.Outcome, m.Outcome))
	}
	if e.NoOp != nil && *e.NoOp != m.NoOp {
		msgs = append(msgs, fmt.Sprintf("noop: expected %t, got %t", *e.NoOp, m.NoOp))
	}
	if e.Revealed != nil && *e.Revealed != m.Revealed {
		msgs = append(msgs, fmt.Sprintf("revealed: expected %d, got %d", *e.Revealed, m.Revealed))
	}
	if e.Flagged != nil && *e.Flagged != m.Flagged {
		msgs = append(msgs, fmt.Sprintf("flagged: expected %t, got %t", *e.Flagged, m.Flagged))
	}
	return msgs
}

// errorCode extracts the code of a game-level error, or "" for anything
// else (storage failures and the like).
func errorCode(err error) string {
	var me *minefield.Error
	if errors.As(err, &me) {
		return string(me.Code)
	}
	var ee *engine.Error
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return ""
}

// verifyReplay resumes the game from the store and checks it reaches the
// same board.
func (h *Harness) verifyReplay(ctx context.Context) error {
	resumed, err := engine.Resume(ctx, h.store, h.engine.ID(), engine.WithLogger(h.logger))
	if err != nil {
		return err
	}

	var want, got bytes.Buffer
	if err := h.engine.Grid().Render(&want, true); err != nil {
		return err
	}
	if err := resumed.Grid().Render(&got, true); err != nil {
		return err
	}
	if want.String() != got.String() {
		return fmt.Errorf("resumed board differs:\n%s\nvs\n%s", got.String(), want.String())
	}
	return nil
}

// summarize fills the final-board fields of the result.
func (h *Harness) summarize(result *Result) error {
	game := h.engine.Game()
	grid := h.engine.Grid()

	result.GameID = game.ID
	result.BoardHash = game.BoardHash
	result.Rows = game.Rows
	result.Cols = game.Cols
	result.Mines = game.Mines
	result.Status = grid.State().String()
	result.Revealed = grid.NumRevealed()
	result.Flags = grid.FlagCount()

	trace, err := record.TraceHash(h.engine.Moves())
	if err != nil {
		return fmt.Errorf("trace hash: %w", err)
	}
	result.TraceHash = trace

	var buf bytes.Buffer
	if err := grid.Render(&buf, false); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	result.Board = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	return nil
}
