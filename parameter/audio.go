package parameter

import "time"

// Audio output
const (
	AudioSampleRate = 48000
	AudioBuffer     = 100 * time.Millisecond

	// AudioGlide smooths pitch and level changes between simulation frames
	AudioGlide = 60 * time.Millisecond
)

// Engine tone: firing frequency of a four-stroke engine, louder with revs
const (
	EngineCylinders    = 4
	EngineIdleGain     = 0.05
	EngineRevGain      = 0.08
	EngineRevReference = 7000.0
	EngineToneCutoff   = 1200.0 // Hz, softens the saw wave
)

// Tire squeal follows the strongest skid intensity
const (
	SquealBaseHz    = 900.0
	SquealSpreadHz  = 350.0
	SquealToneGain  = 0.10
	SquealNoiseGain = 0.05
	SquealCutoff    = 3000.0
)
