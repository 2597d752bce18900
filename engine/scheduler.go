package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/skidpad/core"
)

// Scheduler runs Simulation.Tick on a fixed wall-clock interval in its own goroutine
// Each tick advances the simulation by the pausable clock's elapsed time since the previous one,
// so a paused clock yields zero-length ticks that still apply commands
type Scheduler struct {
	sim   *Simulation
	clock *PausableClock

	interval     time.Duration
	lastElapsed  time.Duration
	nextDeadline time.Time

	tickCount atomic.Uint64

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Signalled after every tick without blocking, for redraw pacing
	tickDone chan struct{}
}

// NewScheduler returns the scheduler and its tick notification channel
func NewScheduler(sim *Simulation, interval time.Duration) (*Scheduler, <-chan struct{}) {
	tickDone := make(chan struct{}, 1)
	return &Scheduler{
		sim:      sim,
		clock:    sim.Clock(),
		interval: interval,
		stopChan: make(chan struct{}),
		tickDone: tickDone,
	}, tickDone
}

// Start begins the scheduler loop; later calls are no-ops
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

// Stop halts the loop and waits for the tick in progress to finish
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
}

func (s *Scheduler) TickCount() uint64 { return s.tickCount.Load() }

func (s *Scheduler) loop() {
	defer s.wg.Done()

	s.lastElapsed = s.clock.Elapsed()
	s.nextDeadline = s.clock.RealTime().Add(s.interval)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-timer.C:
		}

		now := s.clock.RealTime()
		if now.Before(s.nextDeadline) {
			timer.Reset(s.nextDeadline.Sub(now))
			continue
		}

		elapsed := s.clock.Elapsed()
		s.sim.Tick(elapsed - s.lastElapsed)
		s.lastElapsed = elapsed
		s.tickCount.Add(1)

		select {
		case s.tickDone <- struct{}{}:
		default:
		}

		// half rate while paused
		interval := s.interval
		if s.clock.IsPaused() {
			interval *= 2
		}
		s.nextDeadline = s.nextDeadline.Add(interval)

		// after a stall, skip the backlog instead of bursting to catch up
		if now.Sub(s.nextDeadline) > 2*s.interval {
			s.nextDeadline = now.Add(interval)
		}

		timer.Reset(max(s.nextDeadline.Sub(s.clock.RealTime()), 0))
	}
}
