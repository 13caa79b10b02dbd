package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/minefield/internal/engine"
)

// DefaultDatabase is the SQLite file used when none is configured.
const DefaultDatabase = "minefield.db"

// Config is the user-level configuration.
type Config struct {
	Difficulty string  `json:"difficulty" yaml:"difficulty"`
	Custom     *Board  `json:"custom,omitempty" yaml:"custom,omitempty"`
	Database   string  `json:"database" yaml:"database"`
	Seed       *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	ShowTimer  bool    `json:"show_timer" yaml:"show_timer"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Difficulty: Beginner,
		Database:   DefaultDatabase,
	}
}

// Error is a configuration problem, with the CUE source position when the
// problem is in the embedded schema.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML config from r over the defaults and validates it.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, &Error{Message: fmt.Sprintf("invalid YAML: %v", err)}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate unifies the config with the CUE #Config schema.
func (c Config) Validate() error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	v := s.config.Unify(s.ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// Board resolves the configured difficulty to dimensions.
func (c Config) Board() (Board, error) {
	if c.Difficulty == Custom {
		if c.Custom == nil {
			return Board{}, &Error{Field: "custom", Message: "required when difficulty is custom"}
		}
		b := *c.Custom
		b.Name = Custom
		return b, nil
	}
	return Preset(c.Difficulty)
}

// Params converts the config to engine parameters. The seed is the
// configured one, or 0 when unset; seeded reports which.
func (c Config) Params() (p engine.Params, seeded bool, err error) {
	b, err := c.Board()
	if err != nil {
		return engine.Params{}, false, err
	}
	p = engine.Params{Rows: b.Rows, Cols: b.Cols, Mines: b.Mines}
	if c.Seed != nil {
		p.Seed = *c.Seed
		seeded = true
	}
	return p, seeded, nil
}

// formatCUEError reduces a CUE error to its first message and position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	out := &Error{
		Field:   strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
