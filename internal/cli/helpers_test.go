package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type gameResponse struct {
	Status string    `json:"status"`
	Data   GameView  `json:"data"`
	Error  *CLIError `json:"error"`
}

func decodeGame(t *testing.T, out string) gameResponse {
	t.Helper()
	var resp gameResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "games.db")
}

// newGame creates a seeded custom game with mines visible in the returned
// board.
func newGame(t *testing.T, db string, rows, cols, mines int) GameView {
	t.Helper()
	out, _, err := execute(t, "new", "--db", db, "--format", "json", "--show-mines",
		"--rows", itoa(rows), "--cols", itoa(cols), "--mines", itoa(mines), "--seed", "42")
	require.NoError(t, err)
	resp := decodeGame(t, out)
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

// findGlyph returns the first cell showing glyph.
func findGlyph(t *testing.T, board []string, glyph byte) (row, col int) {
	t.Helper()
	for r, line := range board {
		if c := strings.IndexByte(line, glyph); c >= 0 {
			return r, c
		}
	}
	t.Fatalf("no %q on board %v", glyph, board)
	return 0, 0
}

func itoa(n int) string { return strconv.Itoa(n) }

func jsonUnmarshal(s string, v any) error { return json.Unmarshal([]byte(s), v) }
