// Package vehicle holds the car's rigid body state and the per-step integrator
package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skidpad/physics"
	"github.com/lixenwraith/skidpad/vmath"
)

// Wheel indices, fixed order
const (
	FL = iota
	FR
	RL
	RR

	WheelCount
)

var wheelNames = [WheelCount]string{"FL", "FR", "RL", "RR"}

// WheelName returns the short label for a wheel index
func WheelName(i int) string {
	if i < 0 || i >= WheelCount {
		return "?"
	}
	return wheelNames[i]
}

// IsFront reports whether wheel i is on the steered axle
func IsFront(i int) bool { return i == FL || i == FR }

// ChassisState is the planar rigid body plus the sprung mass vertical pose
type ChassisState struct {
	Position     mgl64.Vec2 // world, m
	Heading      float64    // rad, (-pi, pi], 0 faces +X
	Velocity     mgl64.Vec2 // world, m/s
	YawRate      float64    // rad/s, counter-clockwise positive
	Acceleration mgl64.Vec2 // world, m/s², derived from the last step
	Pose         physics.Pose
}

// LocalVelocity returns the velocity in the body frame, X forward and Y left
func (c ChassisState) LocalVelocity() mgl64.Vec2 {
	return vmath.ToLocal(c.Velocity, c.Heading)
}

// LocalAcceleration returns the last step acceleration in the body frame
func (c ChassisState) LocalAcceleration() mgl64.Vec2 {
	return vmath.ToLocal(c.Acceleration, c.Heading)
}

func (c ChassisState) Speed() float64 { return c.Velocity.Len() }

func (c ChassisState) finite() bool {
	p := c.Pose
	return vmath.Finite2(c.Position) && vmath.Finite(c.Heading) &&
		vmath.Finite2(c.Velocity) && vmath.Finite(c.YawRate) &&
		vmath.Finite2(c.Acceleration) &&
		vmath.Finite(p.Heave) && vmath.Finite(p.Pitch) && vmath.Finite(p.Roll) &&
		vmath.Finite(p.HeaveRate) && vmath.Finite(p.PitchRate) && vmath.Finite(p.RollRate)
}

// WheelState is one corner after the last step
type WheelState struct {
	Steer       float64    // rad, positive turns left
	Omega       float64    // spin, rad/s, positive rolls forward
	Compression float64    // total spring compression, m
	Load        float64    // normal load, N
	SlipRatio   float64    // (wR - vx) / normalizer
	SlipAngle   float64    // rad
	Contact     mgl64.Vec2 // world contact point
	Force       mgl64.Vec2 // tire force in the wheel frame, N
	DriveTorque float64    // N·m applied by the engine
	BrakeTorque float64    // N·m requested by brake and handbrake
}

// Airborne reports whether the tire has lost contact
func (w *WheelState) Airborne() bool { return w.Load <= 0 }

func (w *WheelState) finite() bool {
	return vmath.Finite(w.Steer) && vmath.Finite(w.Omega) && vmath.Finite(w.Compression) &&
		vmath.Finite(w.Load) && vmath.Finite(w.SlipRatio) && vmath.Finite(w.SlipAngle) &&
		vmath.Finite2(w.Contact) && vmath.Finite2(w.Force)
}
