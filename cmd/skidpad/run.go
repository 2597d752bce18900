package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/status"
	"github.com/lixenwraith/skidpad/vehicle"
)

type runOptions struct {
	params    string
	duration  time.Duration
	dt        time.Duration
	telemetry time.Duration
	control   vehicle.Input
}

func newRunCmd(cfg *appConfig) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless maneuver with fixed controls and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHeadless(cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.params, "params", "", "vehicle parameter file, TOML or YAML (built-in car when unset)")
	f.DurationVar(&opts.duration, "duration", 10*time.Second, "simulated time to cover")
	f.DurationVar(&opts.dt, "dt", 8*time.Millisecond, "fixed tick length")
	f.DurationVar(&opts.telemetry, "telemetry", parameter.TelemetryInterval, "simulated time between telemetry lines, 0 disables")
	f.Float64Var(&opts.control.Throttle, "throttle", 0, "throttle [0,1]")
	f.Float64Var(&opts.control.Steer, "steer", 0, "steering [-1,1], positive turns left")
	f.Float64Var(&opts.control.Brake, "brake", 0, "service brake [0,1]")
	f.Float64Var(&opts.control.Handbrake, "handbrake", 0, "handbrake [0,1], rear wheels")
	return cmd
}

func runHeadless(w io.Writer, cfg *appConfig, opts *runOptions) error {
	if opts.dt <= 0 {
		return errors.New("--dt must be positive")
	}
	if opts.duration <= 0 {
		return errors.New("--duration must be positive")
	}

	logger, err := cfg.logger("stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := status.NewRegistry()
	params, _, err := openParams(opts.params, logger, reg)
	if err != nil {
		return err
	}

	var sum runSummary
	sim := engine.NewSimulation(params,
		engine.WithLogger(logger),
		engine.WithRegistry(reg),
		engine.WithSink(engine.FrameSinkFunc(sum.observe)),
	)
	if opts.telemetry > 0 {
		sim.AddSink(engine.NewTelemetryLogger(logger, opts.telemetry))
	}

	sim.SetInput(opts.control)
	start := time.Now()
	f := sim.RunFor(opts.duration, opts.dt)
	logger.Info("run complete",
		log.Duration("sim_time", f.SimTime),
		log.Duration("wall_time", time.Since(start)),
		log.Uint64("ticks", f.Tick),
		log.Any("metrics", reg.Snapshot()),
	)

	sum.finish(f)
	sum.RunID = cfg.runID
	return sum.write(w)
}

// runSummary is the end state of a headless run plus counters gathered along the way
type runSummary struct {
	RunID    string
	SimTime  time.Duration
	Ticks    uint64
	SpeedKMH float64
	X, Y     float64
	Heading  float64
	YawRate  float64

	SlipFront, SlipRear float64 // rad
	LoadFront, LoadRear float64 // N

	Skids    int
	PeakSlip float64
	Unstable int
}

func (s *runSummary) observe(f *engine.Frame) {
	s.Skids += len(f.Skids)
	for i := range f.Skids {
		s.PeakSlip = max(s.PeakSlip, f.Skids[i].Slip)
	}
	if f.Unstable {
		s.Unstable++
	}
}

func (s *runSummary) finish(f *engine.Frame) {
	s.SimTime = f.SimTime
	s.Ticks = f.Tick
	s.SpeedKMH = f.SpeedKMH()
	s.X, s.Y = f.Chassis.Position.X(), f.Chassis.Position.Y()
	s.Heading = f.Chassis.Heading
	s.YawRate = f.Chassis.YawRate
	s.SlipFront, s.SlipRear = f.AxleSlipAngles()
	s.LoadFront, s.LoadRear = f.AxleLoads()
}

func (s *runSummary) write(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"run       %s\n"+
			"time      %.3f s (%d ticks)\n"+
			"speed     %.1f km/h\n"+
			"position  %.2f %.2f m\n"+
			"heading   %.3f rad\n"+
			"yaw rate  %.3f rad/s\n"+
			"slip F/R  %.2f / %.2f deg\n"+
			"load F/R  %.0f / %.0f N\n"+
			"skids     %d (peak slip %.2f)\n"+
			"unstable  %d\n",
		s.RunID,
		s.SimTime.Seconds(), s.Ticks,
		s.SpeedKMH,
		s.X, s.Y,
		s.Heading,
		s.YawRate,
		s.SlipFront*180/math.Pi, s.SlipRear*180/math.Pi,
		s.LoadFront, s.LoadRear,
		s.Skids, s.PeakSlip,
		s.Unstable,
	)
	return err
}
