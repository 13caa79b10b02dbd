package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minefield/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Difficulty string            `json:"difficulty,omitempty"`
	Board      *config.Board     `json:"board,omitempty"`
	Database   string            `json:"database,omitempty"`
	Errors     []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in a config file.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a config file",
		Long: `Validate a YAML config file without starting a game.

The file is decoded strictly (unknown keys are errors) and checked against
the built-in schema: the difficulty must be a preset or custom, and a custom
board needs at least one cell and fewer mines than cells.

Exit codes:
  0 - Config is valid
  1 - Config is invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	formatter.VerboseLog("Validating %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.Error
		if !errors.As(err, &cfgErr) {
			_ = formatter.Error("E_CONFIG_READ", err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read config", err)
		}
		return outputValidationErrors(formatter, []ValidationError{toValidationError(cfgErr)})
	}

	b, err := cfg.Board()
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			return outputValidationErrors(formatter, []ValidationError{toValidationError(cfgErr)})
		}
		return WrapExitError(ExitCommandError, "failed to resolve board", err)
	}

	return outputValidateSuccess(formatter, cfg, b)
}

func toValidationError(err *config.Error) ValidationError {
	return ValidationError{Field: err.Field, Message: err.Message}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, cfg config.Config, b config.Board) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:      true,
			Difficulty: cfg.Difficulty,
			Board:      &b,
			Database:   cfg.Database,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Config valid: %s %dx%d, %d mines (%s)\n",
		cfg.Difficulty, b.Rows, b.Cols, b.Mines, b.Tier())
	return nil
}

// outputValidationErrors outputs validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    "CONFIG_INVALID",
				Message: errs[0].Message,
			},
		}
		if err := encodeJSON(formatter.Writer, response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Field, err.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s\n\n", err.Message)
		}
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
