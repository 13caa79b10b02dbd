package engine

import (
	"sync"

	"github.com/google/uuid"
)

// GameIDGenerator issues game IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type GameIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 game IDs, so listing games
// by ID roughly follows creation order.
//
// UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined game IDs in order.
//
// Example:
//
//	gen := NewFixedGenerator("game-1", "game-2")
//	gen.Generate() // "game-1"
//	gen.Generate() // "game-2"
//	gen.Generate() // panic: all IDs exhausted
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics once every ID has been handed out, so a test that creates more
// games than it planned for fails loudly.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
