package parameter

import "time"

// Simulation loop timing
const (
	// SimTickInterval is the fixed simulation tick (~120 Hz)
	SimTickInterval = time.Second / 120

	// FrameUpdateInterval is the rendering frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// CommandQueueSize is the capacity of the discrete command queue drained at tick boundaries
	CommandQueueSize = 16

	// EventQueueSize buffers terminal events between the poller and the UI loop
	EventQueueSize = 64
)

// Integrator stability limits
const (
	// MaxSubstep is the largest integration step in seconds; the stiff spring and tire terms
	// stay inside the semi-implicit Euler stability region below this value
	MaxSubstep = 1.0 / 240.0

	// MaxFrameStep caps the dt accepted by a single step; longer frames are truncated
	MaxFrameStep = 0.25

	// MaxSubsteps bounds the substep loop (MaxFrameStep / MaxSubstep rounded up)
	MaxSubsteps = 60
)

// LowSpeedFloor is the minimum speed (m/s) used to normalize slip ratio and slip angle
// Keeps slip finite at standstill and bounds the tire's effective damping
const LowSpeedFloor = 1.5

// Config hot reload
const (
	// ConfigPollInterval is the fallback poll period when file notifications are unavailable
	ConfigPollInterval = 500 * time.Millisecond

	// ConfigSettleDelay coalesces bursts of write events from editors into one reload
	ConfigSettleDelay = 40 * time.Millisecond
)

// TelemetryInterval is the period between headless telemetry log lines
const TelemetryInterval = 250 * time.Millisecond

// Keyboard hold emulation: terminals report presses and auto-repeats, never releases
const (
	// KeyInitialHold covers the terminal's delay before auto-repeat starts
	KeyInitialHold = 550 * time.Millisecond

	// KeyRepeatHold keeps a control held between auto-repeat events
	KeyRepeatHold = 120 * time.Millisecond
)
