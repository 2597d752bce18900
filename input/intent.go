package input

import "github.com/lixenwraith/skidpad/vehicle"

// IntentType discriminates what a terminal event asks for
type IntentType uint8

const (
	IntentNone    IntentType = iota
	IntentControl            // a driving control was pressed or auto-repeated
	IntentCommand            // r, c, p: queued for the next tick
	IntentQuit               // q, Esc, Ctrl+C
	IntentToggleMute         // m
	IntentResize             // terminal resize event
)

// Control is a held driving input
type Control uint8

const (
	ControlNone Control = iota
	ControlSteerLeft
	ControlSteerRight
	ControlThrottle
	ControlBrake
	ControlHandbrake

	controlCount
)

var controlNames = [controlCount]string{"none", "steer_left", "steer_right", "throttle", "brake", "handbrake"}

func (c Control) String() string {
	if c >= controlCount {
		return "unknown"
	}
	return controlNames[c]
}

// Intent is the parsed result of one terminal event
// Pure data, the caller routes commands to the simulation
type Intent struct {
	Type    IntentType
	Control Control
	Command vehicle.Command
}
