package record

import (
	"fmt"
	"time"

	"github.com/roach88/minefield/internal/minefield"
)

// MoveKind names a player command.
type MoveKind string

const (
	MoveReveal MoveKind = "reveal"
	MoveFlag   MoveKind = "flag"
	MoveChord  MoveKind = "chord"
)

// ValidMoveKinds lists the accepted kinds in display order.
var ValidMoveKinds = []MoveKind{MoveReveal, MoveFlag, MoveChord}

// ParseMoveKind validates a move kind string.
func ParseMoveKind(s string) (MoveKind, error) {
	for _, k := range ValidMoveKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown move kind %q: must be one of %v", s, ValidMoveKinds)
}

// Game status values mirror minefield.State.String().
const (
	StatusInPlay = "in_play"
	StatusWon    = "won"
	StatusLost   = "lost"
)

// Game is a stored board.
type Game struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`

	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Mines int `json:"mines"`

	// Seed is only meaningful when Seeded is true. Boards built from an
	// explicit layout (scenarios, imports) have no seed.
	Seed   uint64 `json:"seed"`
	Seeded bool   `json:"seeded"`

	Layout    []minefield.Coord `json:"layout"`
	BoardHash string            `json:"board_hash"`
	Status    string            `json:"status"`

	// Seq is the logical clock value at creation.
	Seq int64 `json:"seq"`

	// StartedAt is set by the first reveal or chord, FinishedAt when the
	// game is won or lost. Wall time is display-only; nothing orders by it.
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	EngineVersion string `json:"engine_version"`
	FormatVersion string `json:"format_version"`
}

// Progress returns the fields of g that change as moves are applied.
func (g Game) Progress() Progress {
	return Progress{Status: g.Status, StartedAt: g.StartedAt, FinishedAt: g.FinishedAt}
}

// Elapsed returns the play time at now: zero before the first reveal, and
// frozen once the game is over.
func (g Game) Elapsed(now time.Time) time.Duration {
	switch {
	case g.StartedAt.IsZero():
		return 0
	case !g.FinishedAt.IsZero():
		return g.FinishedAt.Sub(g.StartedAt)
	default:
		return now.Sub(g.StartedAt)
	}
}

// Progress is the mutable state of a game, written with each move.
type Progress struct {
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Move is one recorded command and the outcome it produced.
type Move struct {
	ID     string   `json:"id"`
	GameID string   `json:"game_id"`
	Seq    int64    `json:"seq"`
	Kind   MoveKind `json:"kind"`
	Row    int      `json:"row"`
	Col    int      `json:"col"`

	Outcome  string `json:"outcome"`
	NoOp     bool   `json:"noop"`
	Revealed int    `json:"revealed"` // cells opened by this move
	Flagged  bool   `json:"flagged"`  // flag state after a flag move
}
