package growth

import "time"

// DefaultTickLength is the simulated time covered by one growth tick.
const DefaultTickLength = 60 * time.Second

// Accumulator converts elapsed time into whole ticks.
//
// An Accumulator is owned by a single save slot and is not safe for
// concurrent use.
type Accumulator struct {
	tickLength time.Duration
	pending    time.Duration
	suspended  bool
}

// NewAccumulator creates an Accumulator that fires once per tickLength.
// A non-positive tickLength is replaced by DefaultTickLength.
func NewAccumulator(tickLength time.Duration) *Accumulator {
	if tickLength <= 0 {
		tickLength = DefaultTickLength
	}
	return &Accumulator{tickLength: tickLength}
}

// Advance adds elapsed to the running clock and returns how many tick
// boundaries were crossed.
//
// Postcondition: returns 0 and accrues nothing while suspended or when
// elapsed is not positive.
func (a *Accumulator) Advance(elapsed time.Duration) int {
	if a.suspended || elapsed <= 0 {
		return 0
	}
	a.pending += elapsed
	n := int(a.pending / a.tickLength)
	a.pending -= time.Duration(n) * a.tickLength
	return n
}

// Suspend stops the accumulator from accruing time.
func (a *Accumulator) Suspend() { a.suspended = true }

// Resume re-enables accrual. Time passed while suspended is never counted.
func (a *Accumulator) Resume() { a.suspended = false }

// Suspended reports whether accrual is currently suspended.
func (a *Accumulator) Suspended() bool { return a.suspended }

// Pending returns the partial tick accrued so far.
func (a *Accumulator) Pending() time.Duration { return a.pending }

// TickLength returns the duration of one tick.
func (a *Accumulator) TickLength() time.Duration { return a.tickLength }
