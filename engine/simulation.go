// Package engine runs the vehicle on a fixed tick: it applies driver input and commands at tick
// boundaries, steps the body against the live tuning snapshot and fans frames out to sinks.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/skid"
	"github.com/lixenwraith/skidpad/status"
	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vehicle"
)

// ParamSource publishes tuning snapshots; tuning.Store implements it
type ParamSource interface {
	Current() *tuning.ParameterSet
	Version() uint64
	LastError() error
}

// FrameSink receives every frame synchronously on the simulation goroutine
type FrameSink interface {
	HandleFrame(f *Frame)
}

// FrameSinkFunc adapts a function to FrameSink
type FrameSinkFunc func(f *Frame)

func (fn FrameSinkFunc) HandleFrame(f *Frame) { fn(f) }

// Simulation owns the body; Tick must only be called from one goroutine
// SetInput and Send are safe from any goroutine
type Simulation struct {
	body    *vehicle.Body
	params  ParamSource
	emitter skid.Emitter
	clock   *PausableClock
	log     *log.Logger

	input    atomic.Pointer[vehicle.Input]
	commands chan vehicle.Command
	sinks    []FrameSink

	tick    uint64
	simTime time.Duration
	frame   Frame

	// Cached metric pointers
	statTicks      *atomic.Int64
	statSubsteps   *atomic.Int64
	statUnstable   *atomic.Int64
	statResets     *atomic.Int64
	statSkids      *atomic.Int64
	statDropped    *atomic.Int64
	statPaused     *atomic.Bool
	statSpeed      *status.AtomicFloat
	statPeakSlip   *status.AtomicFloat
	statTickMicros *status.AtomicFloat
}

type Option func(*Simulation)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.log = l.Named("sim") }
}

// WithClock shares the pause state with a Scheduler
func WithClock(c *PausableClock) Option {
	return func(s *Simulation) { s.clock = c }
}

func WithSink(sink FrameSink) Option {
	return func(s *Simulation) { s.sinks = append(s.sinks, sink) }
}

// WithRegistry publishes tick counters to reg instead of a private registry
func WithRegistry(reg *status.Registry) Option {
	return func(s *Simulation) { s.bindMetrics(reg) }
}

// NewSimulation places a car at rest using the current snapshot of params
func NewSimulation(params ParamSource, opts ...Option) *Simulation {
	s := &Simulation{
		params:   params,
		body:     vehicle.NewBody(params.Current()),
		log:      log.Nop(),
		commands: make(chan vehicle.Command, parameter.CommandQueueSize),
	}
	s.bindMetrics(status.NewRegistry())
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = NewPausableClock(NewMonotonicTimeProvider())
	}
	s.input.Store(&vehicle.Input{})
	return s
}

func (s *Simulation) bindMetrics(reg *status.Registry) {
	s.statTicks = reg.Ints.Get(status.SimTicks)
	s.statSubsteps = reg.Ints.Get(status.SimSubsteps)
	s.statUnstable = reg.Ints.Get(status.SimUnstableTicks)
	s.statResets = reg.Ints.Get(status.SimResets)
	s.statSkids = reg.Ints.Get(status.SkidEvents)
	s.statDropped = reg.Ints.Get(status.CommandsDropped)
	s.statPaused = reg.Bools.Get(status.SimPaused)
	s.statSpeed = reg.Floats.Get(status.SimSpeed)
	s.statPeakSlip = reg.Floats.Get(status.SkidPeakSlip)
	s.statTickMicros = reg.Floats.Get(status.SimTickMicros)
}

// AddSink registers a sink; call before the scheduler starts
func (s *Simulation) AddSink(sink FrameSink) {
	s.sinks = append(s.sinks, sink)
}

// SetInput publishes the driver input read by the next tick
func (s *Simulation) SetInput(in vehicle.Input) {
	in = in.Clamped()
	s.input.Store(&in)
}

func (s *Simulation) Input() vehicle.Input { return *s.input.Load() }

// Send queues a command for the next tick without blocking
// A full queue drops the command and reports false
func (s *Simulation) Send(cmd vehicle.Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		s.statDropped.Add(1)
		s.log.Warn("command queue full, dropping command", log.String("command", cmd.String()))
		return false
	}
}

func (s *Simulation) Clock() *PausableClock { return s.clock }
func (s *Simulation) Paused() bool          { return s.clock.IsPaused() }

// Body exposes the vehicle for inspection; only touch it from the simulation goroutine
func (s *Simulation) Body() *vehicle.Body { return s.body }

// Tick applies queued commands, advances the body by dt and hands the frame to every sink
// While paused the body receives dt 0, so resets still land
func (s *Simulation) Tick(dt time.Duration) *Frame {
	start := time.Now()
	f := &s.frame
	f.ClearSkidmarks = false
	s.drainCommands(f)

	if s.clock.IsPaused() {
		dt = 0
	}

	p := s.params.Current()
	report, err := s.body.Step(dt.Seconds(), s.Input(), p)
	f.Unstable = err != nil
	if err != nil {
		// first occurrence and every hundredth after it
		if n := s.statUnstable.Add(1); n%100 == 1 {
			s.log.Warn("step discarded", log.ErrorField(err), log.Int64("count", n), log.Uint64("tick", s.tick))
		}
	}
	if report.Reset {
		s.statResets.Add(1)
		s.log.Info("vehicle reset", log.Uint64("tick", s.tick))
	}

	s.tick++
	s.simTime += time.Duration(report.Simulated * float64(time.Second))

	f.Tick = s.tick
	f.SimTime = s.simTime
	f.Step = report
	f.Chassis = s.body.Chassis()
	f.Wheels = s.body.Wheels()
	f.SteerAngle = s.body.SteerAngle()
	f.ParamsVersion = s.params.Version()
	f.ConfigError = s.params.LastError()
	f.Paused = s.clock.IsPaused()

	// a discarded step holds the previous wheels, which were already sampled
	f.Skids = f.Skids[:0]
	if err == nil && report.Substeps > 0 {
		f.Skids = s.emitter.Sample(f.Skids, &f.Wheels, s.simTime, p.Skid)
	}

	s.statTicks.Store(int64(s.tick))
	s.statSubsteps.Add(int64(report.Substeps))
	s.statSkids.Add(int64(len(f.Skids)))
	s.statSpeed.Set(f.Chassis.Speed())
	s.statPeakSlip.SetMax(peakSlip(f.Skids))

	for _, sink := range s.sinks {
		sink.HandleFrame(f)
	}

	s.statTickMicros.Set(float64(time.Since(start).Microseconds()))
	return f
}

// RunFor ticks with a fixed dt until total simulation time is covered, returning the last frame
func (s *Simulation) RunFor(total, dt time.Duration) *Frame {
	var f *Frame
	for elapsed := time.Duration(0); elapsed < total || f == nil; elapsed += dt {
		f = s.Tick(dt)
	}
	return f
}

func (s *Simulation) drainCommands(f *Frame) {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd, f)
		default:
			return
		}
	}
}

func (s *Simulation) apply(cmd vehicle.Command, f *Frame) {
	switch cmd {
	case vehicle.CommandReset:
		s.body.RequestReset()
	case vehicle.CommandClearSkidmarks:
		f.ClearSkidmarks = true
	case vehicle.CommandTogglePause:
		paused := s.clock.Toggle()
		s.statPaused.Store(paused)
		s.log.Info("pause toggled", log.Bool("paused", paused))
	default:
		s.log.Warn("unknown command ignored", log.String("command", cmd.String()))
	}
}

func peakSlip(events []skid.Event) float64 {
	var m float64
	for _, e := range events {
		m = max(m, e.Slip)
	}
	return m
}
