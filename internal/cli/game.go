package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/minefield/internal/config"
	"github.com/roach88/minefield/internal/engine"
	"github.com/roach88/minefield/internal/record"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Difficulty string
	Rows       int
	Cols       int
	Mines      int
	Seed       uint64
	Label      string
	ShowMines  bool

	// IDGenerator allows overriding the game ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.GameIDGenerator
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game",
		Long: `Create a game and record it in the database.

The board comes from the config file's difficulty unless overridden with
--difficulty, or --rows/--cols/--mines for a custom board. Without --seed
(or a seed in the config file) a random seed is drawn; the seed is stored
so the layout can be regenerated.

Examples:
  minefield new
  minefield new --difficulty expert --seed 42
  minefield new --rows 5 --cols 8 --mines 6 --label practice
  minefield new --config ./minefield.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "", "beginner, intermediate, expert or custom")
	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "custom board rows")
	cmd.Flags().IntVar(&opts.Cols, "cols", 0, "custom board columns")
	cmd.Flags().IntVar(&opts.Mines, "mines", 0, "custom board mine count")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for the mine layout")
	cmd.Flags().StringVar(&opts.Label, "label", "", "free-form game label")
	cmd.Flags().BoolVar(&opts.ShowMines, "show-mines", false, "print the board with mines visible")
	cmd.MarkFlagsRequiredTogether("rows", "cols", "mines")

	return cmd
}

func runNew(opts *NewOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	applyNewFlags(opts, cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		_ = formatter.Error("CONFIG_INVALID", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid board", err)
	}

	params, seeded, err := cfg.Params()
	if err != nil {
		if config.IsConfigError(err) {
			_ = formatter.Error("CONFIG_INVALID", err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "invalid board", err)
	}
	if !seeded {
		params.Seed = rand.Uint64()
	}
	params.Label = opts.Label

	path := opts.Database
	if path == "" {
		path = cfg.Database
	}
	st, err := openStoreAt(path, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	idGen := opts.IDGenerator
	if idGen == nil {
		idGen = engine.UUIDv7Generator{}
	}

	eng, err := engine.New(commandContext(cmd), params,
		engine.WithRecorder(st),
		engine.WithIDGenerator(idGen),
		engine.WithLogger(logger))
	if err != nil {
		return failGame(formatter, "failed to create game", err)
	}
	logger.Info("game created", "game", eng.ID(), "rows", params.Rows, "cols", params.Cols, "mines", params.Mines)

	view, err := newGameView(eng, opts.ShowMines)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render board", err)
	}
	if cfg.ShowTimer {
		setElapsed(&view, eng.Game(), time.Now())
	}
	return outputGame(formatter, view)
}

// applyNewFlags layers command-line overrides onto the loaded config.
func applyNewFlags(opts *NewOptions, cmd *cobra.Command, cfg *config.Config) {
	if opts.Difficulty != "" {
		cfg.Difficulty = opts.Difficulty
	}
	if cmd.Flags().Changed("rows") {
		cfg.Difficulty = config.Custom
		cfg.Custom = &config.Board{Rows: opts.Rows, Cols: opts.Cols, Mines: opts.Mines}
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.Seed
		cfg.Seed = &seed
	}
}

// MoveOptions holds flags for the reveal, flag and chord commands.
type MoveOptions struct {
	*RootOptions
	Kind      record.MoveKind
	ShowMines bool
}

var moveHelp = map[record.MoveKind]struct{ short, long string }{
	record.MoveReveal: {
		"Reveal a cell",
		"Open the cell at (row, col). A cell with no neighboring mines opens its\nwhole empty region. Revealing a mine loses the game.",
	},
	record.MoveFlag: {
		"Toggle a flag",
		"Place or remove a flag on the hidden cell at (row, col).",
	},
	record.MoveChord: {
		"Chord a revealed number",
		"When the revealed number at (row, col) has exactly that many flagged\nneighbors, open every other hidden neighbor. A misplaced flag loses the game.",
	},
}

// NewMoveCommand creates the command that applies one kind of move to a
// stored game.
func NewMoveCommand(rootOpts *RootOptions, kind record.MoveKind) *cobra.Command {
	opts := &MoveOptions{RootOptions: rootOpts, Kind: kind}
	help := moveHelp[kind]

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <game-id> <row> <col>", kind),
		Short: help.short,
		Long: help.long + fmt.Sprintf(`

The game is rebuilt from the database and verified before the move is
applied; the move is recorded with the next sequence number.

Exit codes:
  0 - Move applied
  1 - Move rejected (game over) or stored game failed verification
  2 - Command error (bad coordinates, game not found, etc.)

Example:
  minefield %s 0190a7c2-... 3 4`, kind),
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowMines, "show-mines", false, "print the board with mines visible")

	return cmd
}

func runMove(opts *MoveOptions, gameID, rowArg, colArg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	row, col, err := parseCoord(rowArg, colArg)
	if err != nil {
		return err
	}
	timer, err := showTimer(opts.RootOptions)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := commandContext(cmd)
	eng, err := engine.Resume(ctx, st, gameID, engine.WithLogger(logger))
	if err != nil {
		return failGame(formatter, "failed to load game", err)
	}

	res, err := eng.Apply(ctx, opts.Kind, row, col)
	if err != nil {
		return failGame(formatter, fmt.Sprintf("%s rejected", opts.Kind), err)
	}

	view, err := newGameView(eng, opts.ShowMines)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render board", err)
	}
	view.Move = newMoveView(res)
	if timer {
		setElapsed(&view, eng.Game(), time.Now())
	}
	return outputGame(formatter, view)
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	ShowMines bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <game-id>",
		Short: "Print a stored game's board",
		Long: `Rebuild a stored game from its move log and print the board.

Glyphs: '-' hidden, 'F' flag, '.' empty, 1-8 neighbor count. Once the game
is over (or with --show-mines) '*' marks mines and 'X' misplaced flags.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowMines, "show-mines", false, "reveal mine positions")

	return cmd
}

func runShow(opts *ShowOptions, gameID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	timer, err := showTimer(opts.RootOptions)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	eng, err := engine.Resume(commandContext(cmd), st, gameID, engine.WithLogger(logger))
	if err != nil {
		return failGame(formatter, "failed to load game", err)
	}

	view, err := newGameView(eng, opts.ShowMines)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render board", err)
	}
	if timer {
		setElapsed(&view, eng.Game(), time.Now())
	}
	return outputGame(formatter, view)
}

// GamesOptions holds flags for the games command.
type GamesOptions struct {
	*RootOptions
	Status string
}

// GameSummary is one row of the games listing.
type GameSummary struct {
	GameID string `json:"game_id"`
	Label  string `json:"label,omitempty"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Mines  int    `json:"mines"`
	Status string `json:"status"`
	Seq    int64  `json:"seq"`
}

// NewGamesCommand creates the games command.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GamesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List stored games",
		Long: `List the games in the database in game ID order. IDs are UUIDv7,
so this is creation order.

Examples:
  minefield games
  minefield games --status in_play
  minefield games --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGames(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status (in_play|won|lost)")

	return cmd
}

func runGames(opts *GamesOptions, cmd *cobra.Command) error {
	switch opts.Status {
	case "", record.StatusInPlay, record.StatusWon, record.StatusLost:
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid status %q: must be in_play, won or lost", opts.Status))
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	ctx := commandContext(cmd)
	games, err := st.ListGames(ctx, opts.Status)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list games", err)
	}

	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		last, err := st.GetLastSeq(ctx, g.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read game", err)
		}
		out = append(out, GameSummary{
			GameID: g.ID,
			Label:  g.Label,
			Rows:   g.Rows,
			Cols:   g.Cols,
			Mines:  g.Mines,
			Status: g.Status,
			Seq:    last,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	if len(out) == 0 {
		fmt.Fprintln(w, "No games found.")
		return nil
	}
	for _, g := range out {
		fmt.Fprintf(w, "%s  %dx%d/%d  %-7s  seq %d", g.GameID, g.Rows, g.Cols, g.Mines, g.Status, g.Seq)
		if g.Label != "" {
			fmt.Fprintf(w, "  %s", g.Label)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// outputGame writes a game view in the configured format.
func outputGame(f *OutputFormatter, view GameView) error {
	if f.Format == "json" {
		return f.Success(view)
	}
	writeGameText(f.Writer, view)
	return nil
}
