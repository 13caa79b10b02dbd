package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minefield/internal/minefield"
	"github.com/roach88/minefield/internal/record"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// GameID is an optional fixed game ID. Defaults to "test-game".
	GameID string `yaml:"game_id,omitempty"`

	Board BoardSpec `yaml:"board"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final game.
	Assertions []Assertion `yaml:"assertions"`
}

// BoardSpec describes the board a scenario plays on.
// Either Mines (explicit layout) or Seed and Count are used.
type BoardSpec struct {
	Rows  int     `yaml:"rows"`
	Cols  int     `yaml:"cols"`
	Mines [][]int `yaml:"mines,omitempty"`
	Seed  *uint64 `yaml:"seed,omitempty"`
	Count int     `yaml:"count,omitempty"`
}

// Seeded reports whether the board is drawn from a seed.
func (b BoardSpec) Seeded() bool { return b.Seed != nil }

// Layout converts the explicit mine list to coordinates.
func (b BoardSpec) Layout() []minefield.Coord {
	out := make([]minefield.Coord, len(b.Mines))
	for i, m := range b.Mines {
		out[i] = minefield.Coord{Row: m[0], Col: m[1]}
	}
	return out
}

// Step is one player command.
type Step struct {
	// Action is reveal, flag or chord.
	Action string `yaml:"action"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`

	// Expect is optional; when nil the step only has to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists what a step should produce. Unset fields are not checked.
type Expect struct {
	Outcome  string `yaml:"outcome,omitempty"`
	NoOp     *bool  `yaml:"noop,omitempty"`
	Revealed *int   `yaml:"revealed,omitempty"`
	Flagged  *bool  `yaml:"flagged,omitempty"`

	// Error is the expected error code. A step expecting an error must fail
	// with exactly that code.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final game.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_outcome": game status (in_play, won, lost)
	// - "revealed_count": number of revealed cells
	// - "flag_count": number of flags
	// - "cell_state": state of one cell
	// - "move_count": number of stored moves
	Type string `yaml:"type"`

	// Status is the expected game status (final_outcome).
	Status string `yaml:"status,omitempty"`

	// Count is the expected number (revealed_count, flag_count, move_count).
	Count int `yaml:"count,omitempty"`

	// Row, Col select the cell (cell_state).
	Row int `yaml:"row,omitempty"`
	Col int `yaml:"col,omitempty"`

	// State is hidden, flagged or revealed (cell_state).
	State string `yaml:"state,omitempty"`

	// MinesAround is checked when set (cell_state).
	MinesAround *int `yaml:"mines_around,omitempty"`

	// IsMine is checked when set (cell_state). Mines are only visible once
	// the game is over.
	IsMine *bool `yaml:"is_mine,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalOutcome  = "final_outcome"
	AssertRevealedCount = "revealed_count"
	AssertFlagCount     = "flag_count"
	AssertCellState     = "cell_state"
	AssertMoveCount     = "move_count"
)

// Cell states for cell_state assertions.
const (
	CellHidden   = "hidden"
	CellFlagged  = "flagged"
	CellRevealed = "revealed"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Board dimensions are checked again by the engine; here only the shape of
// the board spec is validated.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Board.Rows < 1 || s.Board.Cols < 1 {
		return fmt.Errorf("board: rows and cols must be positive")
	}
	if s.Board.Seeded() && len(s.Board.Mines) > 0 {
		return fmt.Errorf("board: use either mines or seed, not both")
	}
	if !s.Board.Seeded() && s.Board.Count != 0 {
		return fmt.Errorf("board: count requires seed")
	}
	for i, m := range s.Board.Mines {
		if len(m) != 2 {
			return fmt.Errorf("board.mines[%d]: want [row, col], got %v", i, m)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if _, err := record.ParseMoveKind(step.Action); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Expect != nil && step.Expect.Outcome != "" {
			if _, ok := minefield.ParseOutcome(step.Expect.Outcome); !ok {
				return fmt.Errorf("steps[%d].expect: unknown outcome %q", i, step.Expect.Outcome)
			}
			if step.Expect.Error != "" {
				return fmt.Errorf("steps[%d].expect: outcome and error are exclusive", i)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalOutcome:
		switch a.Status {
		case record.StatusInPlay, record.StatusWon, record.StatusLost:
		default:
			return fmt.Errorf("assertions[%d]: status must be in_play, won or lost for final_outcome", index)
		}
	case AssertRevealedCount, AssertFlagCount, AssertMoveCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertCellState:
		switch a.State {
		case CellHidden, CellFlagged, CellRevealed:
		default:
			return fmt.Errorf("assertions[%d]: state must be hidden, flagged or revealed for cell_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
