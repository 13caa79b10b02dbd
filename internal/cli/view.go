package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/minefield/internal/engine"
	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
)

// GameView is the rendered state of one game.
type GameView struct {
	GameID    string    `json:"game_id"`
	Label     string    `json:"label,omitempty"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Mines     int       `json:"mines"`
	Seed      *uint64   `json:"seed,omitempty"`
	Status    string    `json:"status"`
	Seq       int64     `json:"seq"`
	Revealed  int       `json:"revealed"`
	Flags     int       `json:"flags"`
	MinesLeft int       `json:"mines_left"`
	Elapsed   string    `json:"elapsed,omitempty"`
	Board     []string  `json:"board"`
	Move      *MoveView `json:"move,omitempty"`
}

// MoveView is one applied move.
type MoveView struct {
	ID        string           `json:"id"`
	Seq       int64            `json:"seq"`
	Kind      string           `json:"kind"`
	Row       int              `json:"row"`
	Col       int              `json:"col"`
	Outcome   string           `json:"outcome"`
	NoOp      bool             `json:"noop"`
	Revealed  int              `json:"revealed"`
	Flagged   bool             `json:"flagged"`
	Detonated *minefield.Coord `json:"detonated,omitempty"`
}

// newGameView renders eng's board. Mines are shown when showMines is set
// or the game is over.
func newGameView(eng *engine.Engine, showMines bool) (GameView, error) {
	game := eng.Game()
	grid := eng.Grid()

	var buf bytes.Buffer
	if err := grid.Render(&buf, showMines); err != nil {
		return GameView{}, err
	}

	view := GameView{
		GameID:    game.ID,
		Label:     game.Label,
		Rows:      game.Rows,
		Cols:      game.Cols,
		Mines:     game.Mines,
		Status:    grid.State().String(),
		Seq:       eng.Seq(),
		Revealed:  grid.NumRevealed(),
		Flags:     grid.FlagCount(),
		MinesLeft: grid.MinesRemaining(),
		Board:     strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"),
	}
	if game.Seeded {
		seed := game.Seed
		view.Seed = &seed
	}
	return view, nil
}

// setElapsed fills in the play time, rounded to the second.
func setElapsed(v *GameView, game record.Game, now time.Time) {
	v.Elapsed = game.Elapsed(now).Round(time.Second).String()
}

func newMoveView(res engine.MoveResult) *MoveView {
	m := res.Move
	return &MoveView{
		ID:        m.ID,
		Seq:       m.Seq,
		Kind:      string(m.Kind),
		Row:       m.Row,
		Col:       m.Col,
		Outcome:   m.Outcome,
		NoOp:      m.NoOp,
		Revealed:  m.Revealed,
		Flagged:   m.Flagged,
		Detonated: res.Detonated,
	}
}

// writeGameText writes the human-readable form of a game view.
func writeGameText(w io.Writer, v GameView) {
	if v.Move != nil {
		fmt.Fprintln(w, describeMove(v.Move))
	}

	title := v.GameID
	if v.Label != "" {
		title = fmt.Sprintf("%s (%s)", v.GameID, v.Label)
	}
	fmt.Fprintf(w, "Game %s: %dx%d, %d mines, %s\n", title, v.Rows, v.Cols, v.Mines, v.Status)
	fmt.Fprintf(w, "Flags: %d/%d  Revealed: %d/%d\n", v.Flags, v.Mines, v.Revealed, v.Rows*v.Cols-v.Mines)
	if v.Elapsed != "" {
		fmt.Fprintf(w, "Time: %s\n", v.Elapsed)
	}
	fmt.Fprintln(w)
	for _, line := range v.Board {
		fmt.Fprintf(w, "  %s\n", line)
	}

	switch v.Status {
	case record.StatusWon:
		fmt.Fprintln(w, "\n✓ Cleared!")
	case record.StatusLost:
		fmt.Fprintln(w, "\n✗ Boom.")
	}
}

func describeMove(m *MoveView) string {
	prefix := fmt.Sprintf("#%d %s (%d, %d)", m.Seq, m.Kind, m.Row, m.Col)
	switch {
	case m.NoOp:
		return prefix + ": no change"
	case m.Kind == string(record.MoveFlag) && m.Flagged:
		return prefix + ": flagged"
	case m.Kind == string(record.MoveFlag):
		return prefix + ": unflagged"
	case m.Detonated != nil:
		return fmt.Sprintf("%s: hit mine at (%d, %d)", prefix, m.Detonated.Row, m.Detonated.Col)
	default:
		return fmt.Sprintf("%s: %s, %d cell(s) opened", prefix, m.Outcome, m.Revealed)
	}
}
