package engine

import (
	"sync/atomic"
	"time"
)

// ManualClock is a TimeProvider that only moves when told to
// Tests drive pausing, scheduling and key hold timing through it
type ManualClock struct {
	origin  time.Time
	elapsed atomic.Int64 // ns since origin
}

func NewManualClock(origin time.Time) *ManualClock {
	return &ManualClock{origin: origin}
}

func (c *ManualClock) Now() time.Time {
	return c.origin.Add(c.Elapsed())
}

// Advance moves the clock forward and returns the new reading; the clock never runs backwards
func (c *ManualClock) Advance(d time.Duration) time.Time {
	if d > 0 {
		c.elapsed.Add(int64(d))
	}
	return c.Now()
}

func (c *ManualClock) Elapsed() time.Duration { return time.Duration(c.elapsed.Load()) }
