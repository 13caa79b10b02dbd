package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedGameIDGenerator(t *testing.T) {
	gen := NewFixedGameIDGenerator("scenario")
	assert.Equal(t, "scenario", gen.Generate())
	assert.Equal(t, "scenario-2", gen.Generate())
	assert.Equal(t, "scenario-3", gen.Generate())
}

func TestFixedGameIDGenerator_Default(t *testing.T) {
	gen := NewFixedGameIDGenerator("")
	assert.Equal(t, "test-game", gen.Generate())
}
