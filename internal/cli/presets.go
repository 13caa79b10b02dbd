package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/minefield/internal/config"
)

// PresetView describes one built-in difficulty.
type PresetView struct {
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	Mines       int     `json:"mines"`
	Density     float64 `json:"density"`
	Tier        string  `json:"tier"`
	Description string  `json:"description,omitempty"`
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "presets",
		Short:         "List built-in difficulties",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(rootOpts, cmd)
		},
	}
}

func runPresets(opts *RootOptions, cmd *cobra.Command) error {
	presets, err := config.Presets()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load presets", err)
	}

	out := make([]PresetView, len(presets))
	for i, b := range presets {
		out[i] = PresetView{
			Name:        b.Name,
			Rows:        b.Rows,
			Cols:        b.Cols,
			Mines:       b.Mines,
			Density:     b.Density(),
			Tier:        b.Tier(),
			Description: b.Description,
		}
	}

	formatter := newFormatter(opts, cmd)
	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	for _, p := range out {
		fmt.Fprintf(w, "%-12s %2dx%-2d %3d mines  %4.1f%%  %s\n",
			p.Name, p.Rows, p.Cols, p.Mines, p.Density*100, p.Tier)
	}
	return nil
}
