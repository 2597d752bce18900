package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/skid"
	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vehicle"
)

const (
	screenW = 100
	screenH = 30
)

type staticParams struct {
	p       *tuning.ParameterSet
	version uint64
	err     error
}

func (s *staticParams) Current() *tuning.ParameterSet { return s.p }
func (s *staticParams) Version() uint64               { return s.version }
func (s *staticParams) LastError() error              { return s.err }

func newTestRenderer(t *testing.T) (*Renderer, *engine.Simulation, *staticParams, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(screenW, screenH)

	src := &staticParams{p: tuning.Default(), version: 7}
	clock := engine.NewPausableClock(engine.NewManualClock(time.Unix(0, 0)))
	r := NewRenderer(screen, src)
	sim := engine.NewSimulation(src, engine.WithClock(clock), engine.WithSink(r))
	return r, sim, src, screen
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := s.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func screenContains(s tcell.Screen, text string) bool {
	_, h := s.Size()
	for y := 0; y < h; y++ {
		if strings.Contains(rowText(s, y), text) {
			return true
		}
	}
	return false
}

func runeAt(s tcell.Screen, x, y int) rune {
	ch, _, _, _ := s.GetContent(x, y)
	return ch
}

func TestRendererDrawsCarCentred(t *testing.T) {
	r, sim, _, screen := newTestRenderer(t)
	sim.Tick(10 * time.Millisecond)
	r.Draw()

	cx, cy := screenW/2, screenH/2
	if ch := runeAt(screen, cx, cy); ch != weightRune {
		t.Errorf("Expected weight marker at the centre, got %q", ch)
	}
	// front edge 2.05 m ahead at 4 columns per metre
	if ch := runeAt(screen, cx+8, cy); ch != noseRune {
		t.Errorf("Expected nose at column %d, got %q", cx+8, ch)
	}
	if ch := runeAt(screen, cx-8, cy); ch != outlineRune {
		t.Errorf("Expected tail at column %d, got %q", cx-8, ch)
	}
	// front left wheel: 1.25 m ahead, 0.8 m left
	if ch := runeAt(screen, cx+5, cy-2); ch != 'o' {
		t.Errorf("Expected front left wheel marker, got %q", ch)
	}
}

func TestRendererHUD(t *testing.T) {
	r, sim, src, screen := newTestRenderer(t)
	sim.SetInput(vehicle.Input{Throttle: 1})
	sim.RunFor(time.Second, 10*time.Millisecond)
	r.Draw()

	for _, want := range []string{"km/h", "RPM", "SLIP", "LOAD", "LATF", "WEIGHT", "v7", "FL", "RR"} {
		if !screenContains(screen, want) {
			t.Errorf("Expected HUD to show %q", want)
		}
	}
	if screenContains(screen, "PAUSED") {
		t.Error("Expected no pause marker while running")
	}
	if !strings.HasPrefix(rowText(screen, screenH-1), "←→ steer") {
		t.Errorf("Expected key hints on the last row, got %q", rowText(screen, screenH-1))
	}

	src.err = errors.New("chassis.mass: must be > 0")
	sim.Tick(10 * time.Millisecond)
	r.Draw()
	if !screenContains(screen, "config: chassis.mass") {
		t.Error("Expected reload error in the HUD")
	}
}

func TestRendererPauseMarker(t *testing.T) {
	r, sim, _, screen := newTestRenderer(t)
	sim.Send(vehicle.CommandTogglePause)
	sim.Tick(10 * time.Millisecond)
	r.Draw()

	if !screenContains(screen, "PAUSED") {
		t.Error("Expected pause marker")
	}
}

func TestRendererSkidmarks(t *testing.T) {
	r, _, _, screen := newTestRenderer(t)

	// 5 m ahead of the car at the origin: 20 columns right of centre
	r.HandleFrame(&engine.Frame{Skids: []skid.Event{{Wheel: vehicle.RL, Position: mgl64.Vec2{5, 0}, Intensity: 1}}})
	r.Draw()

	x, y := screenW/2+20, screenH/2
	if ch := runeAt(screen, x, y); ch != trailRunes[len(trailRunes)-1] {
		t.Errorf("Expected full intensity mark at (%d,%d), got %q", x, y, ch)
	}

	// marks persist after the frame that carried them
	r.HandleFrame(&engine.Frame{})
	r.Draw()
	if ch := runeAt(screen, x, y); ch == ' ' {
		t.Error("Expected the mark to stay on the trail")
	}

	r.HandleFrame(&engine.Frame{ClearSkidmarks: true})
	r.Draw()
	if ch := runeAt(screen, x, y); ch != ' ' {
		t.Errorf("Expected cleared trail, got %q", ch)
	}
	if n := r.Trail().Len(); n != 0 {
		t.Errorf("Expected empty trail, got %d marks", n)
	}
}

func TestRendererNothingBeforeFirstFrame(t *testing.T) {
	r, _, _, screen := newTestRenderer(t)
	r.Draw()

	if screenContains(screen, "km/h") {
		t.Error("Expected a blank screen before the first frame")
	}
}
