// Package audio voices the car: an engine tone that follows rpm and a tire squeal that follows
// the strongest skid.
package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/skid"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager is a frame sink driving the engine and squeal voices
// Without an audio device it stays silent and keeps accepting frames
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	initialized bool
	muted       atomic.Bool

	engine      *Voice
	squealTone  *Voice
	squealNoise *Voice

	log *log.Logger
}

func NewSoundManager(l *log.Logger) *SoundManager {
	sm := &SoundManager{
		mixer:       &beep.Mixer{},
		engine:      NewVoice(WaveSaw, sampleRate, parameter.AudioGlide).WithLowpass(parameter.EngineToneCutoff),
		squealTone:  NewVoice(WaveSine, sampleRate, parameter.AudioGlide),
		squealNoise: NewVoice(WaveNoise, sampleRate, parameter.AudioGlide).WithLowpass(parameter.SquealCutoff),
		log:         l.Named("audio"),
	}
	sm.mixer.Add(sm.engine, sm.squealTone, sm.squealNoise)
	sm.master = &effects.Volume{Streamer: sm.mixer, Base: 2}
	return sm
}

// Initialize opens the speaker; a failure leaves the manager silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBuffer))
	if err != nil {
		sm.log.Warn("audio unavailable, running silent", log.ErrorField(err))
		return err
	}

	speaker.Play(sm.master)
	sm.initialized = true
	sm.log.Info("audio started", log.Int("sample_rate", int(sampleRate)))
	return nil
}

// Cleanup stops playback and releases the device
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}

func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// ToggleMute silences the master output and reports the new state
func (sm *SoundManager) ToggleMute() bool {
	muted := !sm.muted.Load()
	sm.muted.Store(muted)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		speaker.Lock()
		sm.master.Silent = muted
		speaker.Unlock()
	} else {
		sm.master.Silent = muted
	}
	return muted
}

func (sm *SoundManager) Muted() bool { return sm.muted.Load() }

// HandleFrame retunes the voices; runs on the simulation goroutine and never blocks on the device
func (sm *SoundManager) HandleFrame(f *engine.Frame) {
	if f.Paused {
		sm.silence()
		return
	}

	rpm := f.Step.EngineRPM
	sm.engine.SetTarget(EngineFrequency(rpm), EngineGain(rpm))

	intensity := skid.Strongest(f.Skids)
	sm.squealTone.SetTarget(parameter.SquealBaseHz+parameter.SquealSpreadHz*intensity, parameter.SquealToneGain*intensity)
	sm.squealNoise.SetTarget(0, parameter.SquealNoiseGain*intensity)
}

func (sm *SoundManager) silence() {
	for _, v := range []*Voice{sm.engine, sm.squealTone, sm.squealNoise} {
		freq, _ := v.Target()
		v.SetTarget(freq, 0)
	}
}

// EngineFrequency is the firing frequency of a four-stroke engine at rpm
func EngineFrequency(rpm float64) float64 {
	return rpm / 60 * parameter.EngineCylinders / 2
}

// EngineGain rises from idle level with revs
func EngineGain(rpm float64) float64 {
	return parameter.EngineIdleGain + parameter.EngineRevGain*min(1, max(0, rpm)/parameter.EngineRevReference)
}
