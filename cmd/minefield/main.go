// Command minefield plays and verifies recorded Minesweeper games.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/minefield/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
