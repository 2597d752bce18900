package vehicle

import (
	"math"
	"testing"
)

func TestInputClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Input
	}{
		{"in range", Input{Steer: -0.3, Throttle: 0.5, Brake: 0.2, Handbrake: 1}, Input{Steer: -0.3, Throttle: 0.5, Brake: 0.2, Handbrake: 1}},
		{"over", Input{Steer: 4, Throttle: 2, Brake: 1.5, Handbrake: 9}, Input{Steer: 1, Throttle: 1, Brake: 1, Handbrake: 1}},
		{"under", Input{Steer: -4, Throttle: -1, Brake: -0.1, Handbrake: -2}, Input{Steer: -1}},
		{"nan", Input{Steer: math.NaN(), Throttle: math.NaN(), Brake: math.NaN(), Handbrake: math.NaN()}, Input{}},
		{"inf", Input{Steer: math.Inf(-1), Throttle: math.Inf(1)}, Input{Steer: -1, Throttle: 1}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamped(); got != tt.want {
			t.Errorf("%s: Expected %+v, got %+v", tt.name, tt.want, got)
		}
	}
}

func TestCommandString(t *testing.T) {
	if s := CommandReset.String(); s != "reset" {
		t.Errorf("Expected reset, got %q", s)
	}
	if s := Command(0).String(); s != "Command(0)" {
		t.Errorf("Expected Command(0), got %q", s)
	}
	if s := PhaseReset.String(); s != "reset" {
		t.Errorf("Expected reset phase label, got %q", s)
	}
}

func TestWheelName(t *testing.T) {
	for i, want := range []string{"FL", "FR", "RL", "RR"} {
		if got := WheelName(i); got != want {
			t.Errorf("Expected %s for %d, got %s", want, i, got)
		}
	}
	if got := WheelName(WheelCount); got != "?" {
		t.Errorf("Expected ? for out of range index, got %s", got)
	}
}
