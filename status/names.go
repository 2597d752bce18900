package status

// Metric keys shared between producers and the HUD
const (
	SimTicks         = "sim.ticks"
	SimSubsteps      = "sim.substeps"
	SimUnstableTicks = "sim.unstable_ticks"
	SimResets        = "sim.resets"
	SimPaused        = "sim.paused"
	SimSpeed         = "sim.speed"
	SimTickMicros    = "sim.tick_us"

	ConfigVersion        = "config.version"
	ConfigReloads        = "config.reloads"
	ConfigReloadFailures = "config.reload_failures"
	ConfigLastError      = "config.last_error"

	SkidEvents      = "skid.events"
	SkidPeakSlip    = "skid.peak_slip"
	CommandsDropped = "engine.commands_dropped"
)
