package input

import (
	"slices"

	"github.com/samber/lo"

	"github.com/lixenwraith/skidpad/vehicle"
)

// actionRegistry maps canonical action names to KeyEntry structs
// Used by the keymap loader to resolve action strings to bindings
var actionRegistry = map[string]KeyEntry{
	// Unbind sentinel
	"none": {},

	"steer_left":  {Behavior: BehaviorControl, Control: ControlSteerLeft, IntentType: IntentControl},
	"steer_right": {Behavior: BehaviorControl, Control: ControlSteerRight, IntentType: IntentControl},
	"throttle":    {Behavior: BehaviorControl, Control: ControlThrottle, IntentType: IntentControl},
	"brake":       {Behavior: BehaviorControl, Control: ControlBrake, IntentType: IntentControl},
	"handbrake":   {Behavior: BehaviorControl, Control: ControlHandbrake, IntentType: IntentControl},

	"reset":           {Behavior: BehaviorCommand, Command: vehicle.CommandReset, IntentType: IntentCommand},
	"clear_skidmarks": {Behavior: BehaviorCommand, Command: vehicle.CommandClearSkidmarks, IntentType: IntentCommand},
	"pause":           {Behavior: BehaviorCommand, Command: vehicle.CommandTogglePause, IntentType: IntentCommand},

	"quit": {Behavior: BehaviorSystem, IntentType: IntentQuit},
	"mute": {Behavior: BehaviorSystem, IntentType: IntentToggleMute},
}

// ActionEntry returns the KeyEntry for a canonical action name
func ActionEntry(name string) (KeyEntry, bool) {
	e, ok := actionRegistry[name]
	return e, ok
}

// ActionNames lists every bindable action, sorted
func ActionNames() []string {
	names := lo.Keys(actionRegistry)
	slices.Sort(names)
	return names
}
