package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/minefield/internal/config"
	"github.com/roach88/minefield/internal/engine"
	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/store"
)

// newLogger builds the text logger for a command run: Debug under
// --verbose, Info otherwise.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// newFormatter returns the formatter for cmd's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadConfig reads --config, or returns the defaults when it is unset.
func loadConfig(opts *RootOptions) (config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// showTimer reports whether the config asks for play time in game output.
func showTimer(opts *RootOptions) (bool, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return false, err
	}
	return cfg.ShowTimer, nil
}

// openStore opens the database named by --db, the config file, or the
// default, in that order.
func openStore(opts *RootOptions, logger *slog.Logger) (*store.Store, error) {
	path := opts.Database
	if path == "" {
		cfg, err := loadConfig(opts)
		if err != nil {
			return nil, err
		}
		path = cfg.Database
	}
	return openStoreAt(path, logger)
}

func openStoreAt(path string, logger *slog.Logger) (*store.Store, error) {
	logger.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st, logging any error.
func closeStore(st *store.Store, logger *slog.Logger) {
	if closeErr := st.Close(); closeErr != nil {
		logger.Error("error closing database", "error", closeErr)
	}
}

// commandContext returns cmd's context, or Background when it was run
// without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseCoord parses row and column arguments.
func parseCoord(rowArg, colArg string) (row, col int, err error) {
	row, err = strconv.Atoi(rowArg)
	if err != nil {
		return 0, 0, WrapExitError(ExitCommandError, "invalid row "+strconv.Quote(rowArg), err)
	}
	col, err = strconv.Atoi(colArg)
	if err != nil {
		return 0, 0, WrapExitError(ExitCommandError, "invalid column "+strconv.Quote(colArg), err)
	}
	return row, col, nil
}

// gameErrorCode returns the code of a minefield or engine error and the
// exit code it maps to. ok is false for any other error.
func gameErrorCode(err error) (code string, exit int, ok bool) {
	var me *minefield.Error
	if errors.As(err, &me) {
		return string(me.Code), ExitCommandError, true
	}
	var ee *engine.Error
	if errors.As(err, &ee) {
		switch ee.Code {
		case engine.ErrCodeGameNotFound:
			return string(ee.Code), ExitCommandError, true
		default:
			return string(ee.Code), ExitFailure, true
		}
	}
	return "", ExitCommandError, false
}

// failGame reports a game error through the formatter and returns the
// matching ExitError.
func failGame(f *OutputFormatter, message string, err error) error {
	code, exit, ok := gameErrorCode(err)
	if !ok {
		return WrapExitError(ExitCommandError, message, err)
	}
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exit, message, err)
}
