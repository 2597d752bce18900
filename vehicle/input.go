package vehicle

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Input is the normalized driver control for one tick
type Input struct {
	Steer     float64 // [-1, 1], positive turns left
	Throttle  float64 // [0, 1]
	Brake     float64 // [0, 1]
	Handbrake float64 // [0, 1], rear wheels only
}

// Clamped returns the input limited to its valid ranges; NaN reads as released
func (in Input) Clamped() Input {
	return Input{
		Steer:     lo.Clamp(orZero(in.Steer), -1, 1),
		Throttle:  lo.Clamp(orZero(in.Throttle), 0, 1),
		Brake:     lo.Clamp(orZero(in.Brake), 0, 1),
		Handbrake: lo.Clamp(orZero(in.Handbrake), 0, 1),
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Command is a discrete request applied at a tick boundary
type Command uint8

const (
	CommandReset Command = iota + 1
	CommandClearSkidmarks
	CommandTogglePause
)

func (c Command) String() string {
	switch c {
	case CommandReset:
		return "reset"
	case CommandClearSkidmarks:
		return "clear_skidmarks"
	case CommandTogglePause:
		return "toggle_pause"
	default:
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
}
