package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/skidpad/status"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Voice is an endless oscillator whose pitch and level glide toward targets
// Targets are set from the simulation goroutine, Stream runs on the speaker goroutine
type Voice struct {
	wave WaveType
	rate beep.SampleRate

	targetFreq status.AtomicFloat
	targetGain status.AtomicFloat

	freq  float64
	gain  float64
	phase float64 // [0, 1)
	glide float64 // per-sample smoothing factor, 1 jumps straight to the target

	cutoff float64 // one-pole lowpass factor, 0 bypasses
	filter float64

	rng *rand.Rand
}

// NewVoice creates a silent voice; glide is the time constant of pitch and level changes
func NewVoice(wave WaveType, rate beep.SampleRate, glide time.Duration) *Voice {
	v := &Voice{
		wave:  wave,
		rate:  rate,
		glide: 1,
		rng:   rand.New(rand.NewSource(1)),
	}
	if glide > 0 {
		v.glide = 1 - math.Exp(-1/(float64(rate)*glide.Seconds()))
	}
	return v
}

// WithLowpass filters the output above cutoff Hz
func (v *Voice) WithLowpass(cutoff float64) *Voice {
	if cutoff > 0 {
		v.cutoff = 1 - math.Exp(-2*math.Pi*cutoff/float64(v.rate))
	}
	return v
}

// SetTarget sets the pitch (Hz) and level the voice glides toward
func (v *Voice) SetTarget(freq, gain float64) {
	v.targetFreq.Set(freq)
	v.targetGain.Set(gain)
}

func (v *Voice) Target() (freq, gain float64) {
	return v.targetFreq.Get(), v.targetGain.Get()
}

func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	tf, tg := v.targetFreq.Get(), v.targetGain.Get()
	for i := range samples {
		v.freq += (tf - v.freq) * v.glide
		v.gain += (tg - v.gain) * v.glide

		var val float64
		switch v.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * v.phase)
		case WaveSquare:
			if v.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (v.phase - 0.5)
		case WaveNoise:
			val = v.rng.Float64()*2 - 1
		}

		if v.cutoff > 0 {
			v.filter += (val - v.filter) * v.cutoff
			val = v.filter
		}
		val *= v.gain

		samples[i][0] = val
		samples[i][1] = val

		// Advance phase
		v.phase += v.freq / float64(v.rate)
		v.phase = v.phase - math.Floor(v.phase) // Keep in [0, 1)
	}
	return len(samples), true
}

func (v *Voice) Err() error { return nil }
