package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minefield/internal/engine"
	"github.com/roach88/minefield/internal/record"
	"github.com/roach88/minefield/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	GameID string // optional - specific game only
}

// ReplayGameResult holds the replay result for a single game.
type ReplayGameResult struct {
	GameID    string `json:"game_id"`
	Moves     int    `json:"moves"`
	Status    string `json:"status"`
	TraceHash string `json:"trace_hash,omitempty"`
	Verified  bool   `json:"verified"`
	Error     string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Games       []ReplayGameResult `json:"games"`
	TotalGames  int                `json:"total_games"`
	AllVerified bool               `json:"all_verified"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay stored games and verify determinism",
		Long: `Replay every stored game from its mine layout and move log.

Each game is rebuilt from its stored layout, checked against its board hash
(and its seed, when it has one), and every move is re-executed twice. A game
is verified when both runs reproduce every recorded outcome and the stored
final status.

Exit codes:
  0 - All games verified
  1 - Verification failed (a replay diverged from the log)
  2 - Command error (database not found, etc.)

Examples:
  minefield replay --db ./minefield.db
  minefield replay --db ./minefield.db --game 0190a7c2-...
  minefield replay --db ./minefield.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.GameID, "game", "", "replay specific game only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	// Get games to process
	var games []record.Game
	if opts.GameID != "" {
		g, err := st.ReadGame(ctx, opts.GameID)
		if errors.Is(err, store.ErrGameNotFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("game not found: %s", opts.GameID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read game", err)
		}
		games = []record.Game{g}
	} else {
		games, err = st.ListGames(ctx, "")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list games", err)
		}
	}

	result := ReplayResult{
		Games:       make([]ReplayGameResult, 0, len(games)),
		TotalGames:  len(games),
		AllVerified: true,
	}

	if len(games) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No games found in database.")
		return nil
	}

	for _, g := range games {
		gameResult, err := replayAndVerifyGame(ctx, st, g)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay game %s", g.ID), err)
		}
		logger.Debug("game replayed", "game", g.ID, "moves", gameResult.Moves, "verified", gameResult.Verified)

		result.Games = append(result.Games, gameResult)
		if !gameResult.Verified {
			result.AllVerified = false
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}

	return outputReplayText(cmd, result, opts.Verbose)
}

// replayAndVerifyGame replays a single game twice and verifies both runs
// agree with the log and with each other.
func replayAndVerifyGame(ctx context.Context, st *store.Store, game record.Game) (ReplayGameResult, error) {
	moves, err := st.ReadMoves(ctx, game.ID)
	if err != nil {
		return ReplayGameResult{}, err
	}

	out := ReplayGameResult{
		GameID: game.ID,
		Moves:  len(moves),
		Status: game.Status,
	}

	first, err := engine.Replay(game, moves)
	if engine.IsReplayMismatch(err) {
		out.Error = err.Error()
		return out, nil
	}
	if err != nil {
		return ReplayGameResult{}, fmt.Errorf("first replay failed: %w", err)
	}

	second, err := engine.Replay(game, moves)
	if err != nil {
		return ReplayGameResult{}, fmt.Errorf("second replay failed: %w", err)
	}

	out.TraceHash = first.TraceHash
	if first.TraceHash != second.TraceHash {
		out.Error = "replays produced different traces"
		return out, nil
	}
	out.Verified = true
	return out, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllVerified {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    string(engine.ErrCodeReplayMismatch),
			Message: "replay verification failed",
		}
	}

	if err := encodeJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if !result.AllVerified {
		return NewExitError(ExitFailure, "replay verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d game(s)\n", result.TotalGames)
	fmt.Fprintln(w)

	for _, game := range result.Games {
		status := "✓"
		if !game.Verified {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Game: %s\n", status, game.GameID)
		fmt.Fprintf(w, "  Moves: %d, status %s\n", game.Moves, game.Status)
		if verbose && game.TraceHash != "" {
			fmt.Fprintf(w, "  Trace: %s\n", game.TraceHash)
		}
		if game.Error != "" {
			fmt.Fprintf(w, "  Mismatch: %s\n", game.Error)
		}
		fmt.Fprintln(w)
	}

	if result.AllVerified {
		fmt.Fprintln(w, "✓ All games verified")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay verification failed")
}
