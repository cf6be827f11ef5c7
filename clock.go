package main

import "time"

// maxFrameDelta caps a single tick's delta so a stalled loop does not turn
// into one huge particle step.
const maxFrameDelta = 0.25

// Clock measures per-tick elapsed wall time and cumulative elapsed time.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool
	elapsed float64
}

// NewClock creates a wall clock. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Tick returns the seconds since the previous tick and the cumulative total.
// The first tick reports a zero delta.
func (c *Clock) Tick() (dt, elapsed float64) {
	t := c.now()
	if !c.started {
		c.started = true
		c.last = t
		return 0, c.elapsed
	}
	dt = t.Sub(c.last).Seconds()
	c.last = t
	if dt < 0 {
		dt = 0
	} else if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	c.elapsed += dt
	return dt, c.elapsed
}

// Elapsed returns the cumulative time without advancing the clock
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
