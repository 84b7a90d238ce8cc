package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start of a test Clock.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock is a manual time source satisfying build.Clock. With a non-zero
// step every Now call moves time forward, giving each saved build a
// distinct timestamp.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock returns a Clock frozen at Epoch, or at now[0] when given.
func NewClock(now ...time.Time) *Clock {
	c := &Clock{now: Epoch}
	if len(now) > 0 {
		c.now = now[0]
	}
	return c
}

// NewSteppingClock returns a Clock starting at start that advances by step
// after each reading.
func NewSteppingClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

// Now returns the current reading, then applies the step.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
