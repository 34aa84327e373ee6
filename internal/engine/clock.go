package engine

import "sync/atomic"

// Clock is a monotonic logical clock stamping firing records with a strictly
// increasing seq. Wall-clock time is always injected into EvaluateAll by the
// caller; the seq keeps history ordering explicit in exports even when several
// triggers fire at the same injected instant.
//
// Thread-safety: safe for concurrent use, though evaluation itself is
// single-threaded by contract.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when resuming on top of a persisted history.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
