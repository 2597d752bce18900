package input

import (
	"maps"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/skidpad/vehicle"
)

// KeyBehavior classifies how a key is processed
type KeyBehavior uint8

const (
	BehaviorNone KeyBehavior = iota
	BehaviorControl
	BehaviorCommand
	BehaviorSystem
)

// KeyEntry describes a key's behavior without function pointers
type KeyEntry struct {
	Behavior   KeyBehavior
	Control    Control
	Command    vehicle.Command
	IntentType IntentType
}

// KeyTable maps keys to behaviors
type KeyTable struct {
	// Special keys (arrows, Esc, Ctrl+*)
	SpecialKeys map[tcell.Key]KeyEntry

	// Printable keys, matched case-insensitively
	Runes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings: arrows or WASD to drive, space for the handbrake
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyUp:    mustAction("throttle"),
			tcell.KeyDown:  mustAction("brake"),
			tcell.KeyLeft:  mustAction("steer_left"),
			tcell.KeyRight: mustAction("steer_right"),
			tcell.KeyEsc:   mustAction("quit"),
			tcell.KeyCtrlC: mustAction("quit"),
		},
		Runes: map[rune]KeyEntry{
			'w': mustAction("throttle"),
			's': mustAction("brake"),
			'a': mustAction("steer_left"),
			'd': mustAction("steer_right"),
			' ': mustAction("handbrake"),
			'r': mustAction("reset"),
			'c': mustAction("clear_skidmarks"),
			'p': mustAction("pause"),
			'm': mustAction("mute"),
			'q': mustAction("quit"),
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SpecialKeys: maps.Clone(kt.SpecialKeys),
		Runes:       maps.Clone(kt.Runes),
	}
}

// Lookup finds the binding for a key event
func (kt *KeyTable) Lookup(ev *tcell.EventKey) (KeyEntry, bool) {
	if ev.Key() == tcell.KeyRune {
		e, ok := kt.Runes[unicode.ToLower(ev.Rune())]
		return e, ok
	}
	e, ok := kt.SpecialKeys[ev.Key()]
	return e, ok
}

func mustAction(name string) KeyEntry {
	e, ok := ActionEntry(name)
	if !ok {
		panic("input: unregistered action " + name)
	}
	return e
}
