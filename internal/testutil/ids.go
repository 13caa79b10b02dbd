package testutil

import "fmt"

// FixedGameIDGenerator issues predictable game IDs for golden traces.
//
// The first ID is the configured base; later calls append a counter
// ("base", "base-2", "base-3", ...) so a scenario creating several games
// still gets distinct rows.
type FixedGameIDGenerator struct {
	base string
	n    int
}

// NewFixedGameIDGenerator creates a generator. An empty base defaults to
// "test-game".
func NewFixedGameIDGenerator(base string) *FixedGameIDGenerator {
	if base == "" {
		base = "test-game"
	}
	return &FixedGameIDGenerator{base: base}
}

// Generate returns the next ID. Implements engine.GameIDGenerator.
func (g *FixedGameIDGenerator) Generate() string {
	g.n++
	if g.n == 1 {
		return g.base
	}
	return fmt.Sprintf("%s-%d", g.base, g.n)
}
