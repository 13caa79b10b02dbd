package engine

import "sync/atomic"

// SeqClock stamps moves with strictly increasing seq values.
// Implemented by Clock and testutil.DeterministicClock.
type SeqClock interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for one game.
//
// The game's creation takes the first stamp, every move the next one.
// Ordering never depends on wall time, so replay reproduces the same seqs.
//
// Clock is safe for concurrent use, though a game engine only ever calls
// it from one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at start.
// Used by Resume to continue after the last stored move.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
