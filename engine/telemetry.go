package engine

import (
	"time"

	"github.com/lixenwraith/skidpad/log"
)

// TelemetryLogger is a headless sink that logs one summary line per interval of simulation time
type TelemetryLogger struct {
	log      *log.Logger
	interval time.Duration
	next     time.Duration
	skids    int // events since the last line
}

func NewTelemetryLogger(l *log.Logger, interval time.Duration) *TelemetryLogger {
	return &TelemetryLogger{log: l.Named("telemetry"), interval: interval}
}

func (t *TelemetryLogger) HandleFrame(f *Frame) {
	t.skids += len(f.Skids)
	if f.SimTime < t.next || f.Step.Substeps == 0 {
		return
	}
	for t.next <= f.SimTime {
		t.next += t.interval
	}
	if !t.log.Enabled(log.InfoLevel) {
		t.skids = 0
		return
	}

	c := &f.Chassis
	local := c.LocalVelocity()
	accel := c.LocalAcceleration()
	slipFront, slipRear := f.AxleSlipAngles()
	loadFront, loadRear := f.AxleLoads()
	latFront, latRear := f.AxleLateralForces()

	t.log.Info("telemetry",
		log.Duration("t", f.SimTime),
		log.Float64("speed_kmh", f.SpeedKMH()),
		log.Float64("lateral_ms", local.Y()),
		log.Float64("accel_long", accel.X()),
		log.Float64("yaw_rate", c.YawRate),
		log.Float64("heading", c.Heading),
		log.Float64("x", c.Position.X()),
		log.Float64("y", c.Position.Y()),
		log.Float64("rpm", f.Step.EngineRPM),
		log.Float64("slip_front", slipFront),
		log.Float64("slip_rear", slipRear),
		log.Float64("load_front", loadFront),
		log.Float64("load_rear", loadRear),
		log.Float64("lat_force_front", latFront),
		log.Float64("lat_force_rear", latRear),
		log.Int("skids", t.skids),
		log.Uint64("params", f.ParamsVersion),
	)
	t.skids = 0
}
