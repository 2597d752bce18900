package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the sprung mass vertical state relative to static equilibrium
// Heave is positive up, Pitch positive nose down, Roll positive left side up
type Pose struct {
	Heave     float64 // m
	Pitch     float64 // rad
	Roll      float64 // rad
	HeaveRate float64
	PitchRate float64
	RollRate  float64
}

// Mount is one suspension corner
type Mount struct {
	Position   mgl64.Vec2 // body frame from the centre of mass, X forward, Y left
	StaticLoad float64    // N carried at equilibrium
	Stiffness  float64    // N/m
	Damping    float64    // N·s/m
}

// SuspensionResult is the corner's contribution for the current pose
type SuspensionResult struct {
	Load        float64 // normal load at the contact patch, >= 0
	Force       float64 // upward force on the chassis, equal to Load
	PitchTorque float64 // nose-down positive, from the load change against static
	RollTorque  float64 // left-up positive, from the load change against static
	Compression float64 // total spring compression including the static part, m
}

// Suspension computes normal load and chassis reaction for one corner
// The spring can only push: extension past the unloaded length leaves the wheel airborne with zero load
func Suspension(pose Pose, m Mount) SuspensionResult {
	x, y := m.Position.X(), m.Position.Y()

	// corner height follows the small-angle rigid body approximation
	compression := -(pose.Heave - x*pose.Pitch + y*pose.Roll)
	rate := -(pose.HeaveRate - x*pose.PitchRate + y*pose.RollRate)

	load := m.StaticLoad + m.Stiffness*compression + m.Damping*rate
	if !(load > 0) {
		load = 0
	}
	dev := load - m.StaticLoad

	return SuspensionResult{
		Load:        load,
		Force:       load,
		PitchTorque: -x * dev,
		RollTorque:  y * dev,
		Compression: m.StaticLoad/m.Stiffness + compression,
	}
}
