// Package skid turns wheel slip into skidmark events for the renderer
package skid

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vehicle"
)

// Event is one wheel sliding during one tick
type Event struct {
	Wheel     int
	Position  mgl64.Vec2    // world contact point
	Slip      float64       // combined slip magnitude
	Intensity float64       // (0, 1], mark opacity
	At        time.Duration // simulation time
}

// Emitter samples wheel states; it keeps nothing between calls
type Emitter struct{}

// Slip is the combined magnitude of slip ratio and slip angle (rad)
func Slip(w *vehicle.WheelState) float64 {
	return math.Hypot(w.SlipRatio, w.SlipAngle)
}

// Intensity maps slip to mark strength, rising linearly until FullSlip
func Intensity(slip float64, p tuning.Skid) float64 {
	return min(1, slip/p.FullSlip)
}

// Sample appends one event to dst for every wheel at or above the slip threshold
func (Emitter) Sample(dst []Event, wheels *[vehicle.WheelCount]vehicle.WheelState, at time.Duration, p tuning.Skid) []Event {
	for i := range wheels {
		w := &wheels[i]
		slip := Slip(w)
		if !(slip >= p.Threshold) {
			continue
		}
		dst = append(dst, Event{
			Wheel:     i,
			Position:  w.Contact,
			Slip:      slip,
			Intensity: Intensity(slip, p),
			At:        at,
		})
	}
	return dst
}

// Strongest returns the largest intensity in events, zero when empty
func Strongest(events []Event) float64 {
	var s float64
	for _, e := range events {
		s = max(s, e.Intensity)
	}
	return s
}
