// Package input maps terminal key events to driver controls and simulation commands.
package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/vehicle"
)

// Keyboard turns key events into held controls
// A terminal sends a press, then auto-repeats after a delay, and never a release, so a control
// stays held until its deadline passes without another event for it
// HandleEvent and Input are safe to call from different goroutines
type Keyboard struct {
	table *KeyTable
	clock engine.TimeProvider

	mu       sync.Mutex
	deadline [controlCount]time.Time
}

func NewKeyboard(table *KeyTable, clock engine.TimeProvider) *Keyboard {
	if table == nil {
		table = DefaultKeyTable()
	}
	return &Keyboard{table: table, clock: clock}
}

// HandleEvent updates held controls and reports what the event asks for
func (k *Keyboard) HandleEvent(ev tcell.Event) Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return Intent{Type: IntentResize}
	case *tcell.EventKey:
		entry, ok := k.table.Lookup(ev)
		if !ok {
			return Intent{}
		}
		if entry.Behavior == BehaviorControl {
			k.press(entry.Control)
		}
		return Intent{Type: entry.IntentType, Control: entry.Control, Command: entry.Command}
	}
	return Intent{}
}

func (k *Keyboard) press(c Control) {
	now := k.clock.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	// A repeat arrives while the first press is still held
	hold := parameter.KeyInitialHold
	if now.Before(k.deadline[c]) {
		hold = parameter.KeyRepeatHold
	}
	k.deadline[c] = now.Add(hold)

	switch c {
	case ControlSteerLeft:
		k.deadline[ControlSteerRight] = time.Time{}
	case ControlSteerRight:
		k.deadline[ControlSteerLeft] = time.Time{}
	}
}

// Held reports whether c is still within its hold window
func (k *Keyboard) Held(c Control) bool {
	now := k.clock.Now()
	k.mu.Lock()
	defer k.mu.Unlock()
	return now.Before(k.deadline[c])
}

// Input samples the held controls as a driver input
func (k *Keyboard) Input() vehicle.Input {
	now := k.clock.Now()
	k.mu.Lock()
	defer k.mu.Unlock()

	level := func(c Control) float64 {
		if now.Before(k.deadline[c]) {
			return 1
		}
		return 0
	}
	return vehicle.Input{
		Steer:     level(ControlSteerLeft) - level(ControlSteerRight),
		Throttle:  level(ControlThrottle),
		Brake:     level(ControlBrake),
		Handbrake: level(ControlHandbrake),
	}
}

// Release drops every held control
func (k *Keyboard) Release() {
	k.mu.Lock()
	k.deadline = [controlCount]time.Time{}
	k.mu.Unlock()
}
