package engine

import (
	"sync"
	"time"
)

// PausableClock measures simulation time: wall time from its source minus every paused interval
type PausableClock struct {
	mu sync.RWMutex

	source TimeProvider
	start  time.Time // source reading at creation

	paused      bool
	pausedAt    time.Time     // source reading when the current pause began
	pausedTotal time.Duration // completed pauses
}

// NewPausableClock starts a running clock at zero elapsed time
func NewPausableClock(source TimeProvider) *PausableClock {
	return &PausableClock{
		source: source,
		start:  source.Now(),
	}
}

// Elapsed returns simulation time since creation; frozen while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	now := pc.source.Now()
	if pc.paused {
		now = pc.pausedAt
	}
	return now.Sub(pc.start) - pc.pausedTotal
}

// RealTime returns the source reading, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.source.Now()
}

// Pause freezes Elapsed; pausing a paused clock is a no-op
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.pause()
}

// Resume continues Elapsed from where Pause froze it
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.resume()
}

// Toggle flips the pause state and reports whether the clock is now paused
func (pc *PausableClock) Toggle() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.paused {
		pc.resume()
	} else {
		pc.pause()
	}
	return pc.paused
}

func (pc *PausableClock) pause() {
	if !pc.paused {
		pc.paused = true
		pc.pausedAt = pc.source.Now()
	}
}

func (pc *PausableClock) resume() {
	if pc.paused {
		pc.pausedTotal += pc.source.Now().Sub(pc.pausedAt)
		pc.paused = false
		pc.pausedAt = time.Time{}
	}
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// PausedDuration returns cumulative pause time, the current pause included
func (pc *PausableClock) PausedDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.pausedTotal
	if pc.paused {
		total += pc.source.Now().Sub(pc.pausedAt)
	}
	return total
}
