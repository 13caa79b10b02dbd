package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/minefield/internal/record"
	"github.com/roach88/minefield/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Kind string // optional - filter to one move kind
}

// TraceEvent represents a single move in the trace timeline.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Outcome  string `json:"outcome"`
	NoOp     bool   `json:"noop"`
	Revealed int    `json:"revealed"`
	Flagged  bool   `json:"flagged"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	GameID    string       `json:"game_id"`
	BoardHash string       `json:"board_hash"`
	Timeline  []TraceEvent `json:"timeline"`
	TraceHash string       `json:"trace_hash"`
	Stats     TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Moves   int    `json:"moves"`
	Reveals int    `json:"reveals"`
	Flags   int    `json:"flags"`
	Chords  int    `json:"chords"`
	NoOps   int    `json:"noops"`
	LastSeq int64  `json:"last_seq"`
	Status  string `json:"status"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <game-id>",
		Short: "Print a game's move log",
		Long: `Print the recorded moves of a game in sequence order.

The output includes:
- Timeline: every move with its seq, coordinate and recorded effect
- Trace hash: fingerprint of the full move log
- Stats: move counts by kind and the final status

Examples:
  minefield trace 0190a7c2-...
  minefield trace 0190a7c2-... --kind chord
  minefield trace 0190a7c2-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one move kind (reveal|flag|chord)")

	return cmd
}

func runTrace(opts *TraceOptions, gameID string, cmd *cobra.Command) error {
	if opts.Kind != "" {
		if _, err := record.ParseMoveKind(opts.Kind); err != nil {
			return WrapExitError(ExitCommandError, "invalid --kind", err)
		}
	}

	ctx := commandContext(cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	state, err := st.GetGameState(ctx, gameID)
	if errors.Is(err, store.ErrGameNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("game not found: %s", gameID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to get game state", err)
	}

	moves, err := st.ReadMoves(ctx, gameID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read moves", err)
	}

	// The hash always covers the full log, even when filtering.
	traceHash, err := record.TraceHash(moves)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash trace", err)
	}

	result := TraceResult{
		GameID:    gameID,
		BoardHash: state.Game.BoardHash,
		Timeline:  buildTimeline(moves, opts.Kind),
		TraceHash: traceHash,
		Stats: TraceStats{
			Moves:   state.Moves,
			Reveals: state.Reveals,
			Flags:   state.Flags,
			Chords:  state.Chords,
			NoOps:   state.NoOps,
			LastSeq: state.LastSeq,
			Status:  state.Game.Status,
		},
	}

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(result)
	}

	return outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
}

// buildTimeline converts stored moves to timeline events, keeping only
// moves of kindFilter when it is set.
func buildTimeline(moves []record.Move, kindFilter string) []TraceEvent {
	timeline := make([]TraceEvent, 0, len(moves))
	for _, m := range moves {
		if kindFilter != "" && string(m.Kind) != kindFilter {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:      m.Seq,
			ID:       m.ID,
			Kind:     string(m.Kind),
			Row:      m.Row,
			Col:      m.Col,
			Outcome:  m.Outcome,
			NoOp:     m.NoOp,
			Revealed: m.Revealed,
			Flagged:  m.Flagged,
		})
	}
	return timeline
}

// outputTraceText outputs the trace as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Game: %s\n", result.GameID)
	fmt.Fprintf(w, "Board: %s\n", truncateID(result.BoardHash))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no moves)")
	}
	for _, ev := range result.Timeline {
		formatTimelineEvent(w, ev, verbose)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Moves:   %d (%d no-op)\n", result.Stats.Moves, result.Stats.NoOps)
	fmt.Fprintf(w, "  Reveals: %d\n", result.Stats.Reveals)
	fmt.Fprintf(w, "  Flags:   %d\n", result.Stats.Flags)
	fmt.Fprintf(w, "  Chords:  %d\n", result.Stats.Chords)
	fmt.Fprintf(w, "  Status:  %s (seq %d)\n", result.Stats.Status, result.Stats.LastSeq)
	fmt.Fprintf(w, "  Trace:   %s\n", truncateID(result.TraceHash))

	return nil
}

// formatTimelineEvent formats a single timeline event for text output.
func formatTimelineEvent(w io.Writer, ev TraceEvent, verbose bool) {
	effect := fmt.Sprintf("%s, %d opened", ev.Outcome, ev.Revealed)
	switch {
	case ev.NoOp:
		effect = "no-op"
	case ev.Kind == string(record.MoveFlag) && ev.Flagged:
		effect = "flagged"
	case ev.Kind == string(record.MoveFlag):
		effect = "unflagged"
	}

	fmt.Fprintf(w, "  [%d] %-6s (%d, %d) %s\n", ev.Seq, ev.Kind, ev.Row, ev.Col, effect)
	if verbose {
		fmt.Fprintf(w, "       ID: %s\n", truncateID(ev.ID))
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
