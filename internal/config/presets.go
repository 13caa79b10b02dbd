package config

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed presets.cue
var presetsCUE string

// Difficulty names. Custom selects Config.Custom instead of a preset.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Expert       = "expert"
	Custom       = "custom"
)

// Board holds grid dimensions and mine count.
type Board struct {
	Name        string `json:"-" yaml:"-"`
	Rows        int    `json:"rows" yaml:"rows"`
	Cols        int    `json:"cols" yaml:"cols"`
	Mines       int    `json:"mines" yaml:"mines"`
	Description string `json:"description,omitempty" yaml:"-"`
}

// Density is the fraction of cells holding a mine.
func (b Board) Density() float64 {
	cells := b.Rows * b.Cols
	if cells <= 0 {
		return 0
	}
	return float64(b.Mines) / float64(cells)
}

// Density tiers, matching where the presets fall.
const (
	TierEasy   = "easy"
	TierMedium = "medium"
	TierHard   = "hard"
)

// Tier classifies the board by mine density: below 14% is easy, below 18%
// medium, anything denser hard.
func (b Board) Tier() string {
	d := b.Density()
	switch {
	case d < 0.14:
		return TierEasy
	case d < 0.18:
		return TierMedium
	default:
		return TierHard
	}
}

// schema is the compiled embedded CUE file.
type schema struct {
	ctx     *cue.Context
	root    cue.Value
	config  cue.Value
	presets []Board
}

var (
	schemaOnce sync.Once
	schemaVal  *schema
	schemaErr  error
)

func loadSchema() (*schema, error) {
	schemaOnce.Do(func() {
		schemaVal, schemaErr = compileSchema()
	})
	return schemaVal, schemaErr
}

func compileSchema() (*schema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(presetsCUE, cue.Filename("presets.cue"))
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var order []string
	if err := root.LookupPath(cue.ParsePath("order")).Decode(&order); err != nil {
		return nil, formatCUEError(err)
	}

	presetsVal := root.LookupPath(cue.ParsePath("presets"))
	presets := make([]Board, 0, len(order))
	for _, name := range order {
		v := presetsVal.LookupPath(cue.MakePath(cue.Str(name)))
		if !v.Exists() {
			return nil, &Error{Field: "presets." + name, Message: "listed in order but not defined"}
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, formatCUEError(err)
		}
		var b Board
		if err := v.Decode(&b); err != nil {
			return nil, formatCUEError(err)
		}
		b.Name = name
		presets = append(presets, b)
	}

	return &schema{
		ctx:     ctx,
		root:    root,
		config:  root.LookupPath(cue.ParsePath("#Config")),
		presets: presets,
	}, nil
}

// Presets returns the built-in difficulties in display order.
func Presets() ([]Board, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	out := make([]Board, len(s.presets))
	copy(out, s.presets)
	return out, nil
}

// Preset returns the named built-in difficulty.
func Preset(name string) (Board, error) {
	presets, err := Presets()
	if err != nil {
		return Board{}, err
	}
	for _, b := range presets {
		if b.Name == name {
			return b, nil
		}
	}
	return Board{}, &Error{Field: "difficulty", Message: fmt.Sprintf("unknown preset %q", name)}
}
