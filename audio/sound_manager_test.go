package audio

import (
	"math"
	"testing"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/skid"
	"github.com/lixenwraith/skidpad/vehicle"
)

// TestSoundManagerGracefulDegradation verifies the manager works without an audio device
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(log.Nop())

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.HandleFrame(&engine.Frame{Step: vehicle.StepReport{EngineRPM: 3000}})
	if !sm.ToggleMute() || !sm.Muted() {
		t.Error("Expected mute toggled on")
	}
	if sm.ToggleMute() {
		t.Error("Expected mute toggled off")
	}
	if sm.Enabled() {
		t.Error("Expected manager disabled before Initialize")
	}
	sm.Cleanup()
}

func TestSoundManagerFollowsFrame(t *testing.T) {
	sm := NewSoundManager(log.Nop())

	sm.HandleFrame(&engine.Frame{
		Step:  vehicle.StepReport{EngineRPM: 3000},
		Skids: []skid.Event{{Intensity: 0.2}, {Intensity: 0.8}},
	})

	freq, gain := sm.engine.Target()
	if freq != 100 {
		t.Errorf("Expected 100 Hz firing frequency at 3000 rpm, got %v", freq)
	}
	if want := EngineGain(3000); gain != want {
		t.Errorf("Expected engine gain %v, got %v", want, gain)
	}

	freq, gain = sm.squealTone.Target()
	if want := parameter.SquealBaseHz + parameter.SquealSpreadHz*0.8; math.Abs(freq-want) > 1e-9 {
		t.Errorf("Expected squeal at %v Hz, got %v", want, freq)
	}
	if want := parameter.SquealToneGain * 0.8; math.Abs(gain-want) > 1e-12 {
		t.Errorf("Expected squeal gain from the strongest skid %v, got %v", want, gain)
	}

	// no skids: squeal fades
	sm.HandleFrame(&engine.Frame{Step: vehicle.StepReport{EngineRPM: 3000}})
	if _, gain := sm.squealTone.Target(); gain != 0 {
		t.Errorf("Expected silent squeal without skids, got %v", gain)
	}
}

func TestSoundManagerPausedIsSilent(t *testing.T) {
	sm := NewSoundManager(log.Nop())
	sm.HandleFrame(&engine.Frame{Step: vehicle.StepReport{EngineRPM: 5000}, Skids: []skid.Event{{Intensity: 1}}})
	sm.HandleFrame(&engine.Frame{Paused: true})

	for name, v := range map[string]*Voice{"engine": sm.engine, "tone": sm.squealTone, "noise": sm.squealNoise} {
		if _, gain := v.Target(); gain != 0 {
			t.Errorf("%s: expected zero gain while paused, got %v", name, gain)
		}
	}
	if freq, _ := sm.engine.Target(); freq == 0 {
		t.Error("Expected engine pitch kept while paused")
	}
}

func TestEngineGainBounds(t *testing.T) {
	if g := EngineGain(0); g != parameter.EngineIdleGain {
		t.Errorf("Expected idle gain at 0 rpm, got %v", g)
	}
	if g := EngineGain(20000); math.Abs(g-(parameter.EngineIdleGain+parameter.EngineRevGain)) > 1e-12 {
		t.Errorf("Expected gain capped past the reference rpm, got %v", g)
	}
}
