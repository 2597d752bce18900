package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotate turns v counter-clockwise by angle radians
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// ToLocal expresses world vector v in a frame rotated by heading
func ToLocal(v mgl64.Vec2, heading float64) mgl64.Vec2 {
	sn, cs := math.Sincos(heading)
	return mgl64.Vec2{cs*v[0] + sn*v[1], cs*v[1] - sn*v[0]}
}

// ToWorld is the inverse of ToLocal
func ToWorld(v mgl64.Vec2, heading float64) mgl64.Vec2 {
	sn, cs := math.Sincos(heading)
	return mgl64.Vec2{cs*v[0] - sn*v[1], sn*v[0] + cs*v[1]}
}

// Finite2 reports whether both components are finite
func Finite2(v mgl64.Vec2) bool {
	return Finite(v[0]) && Finite(v[1])
}

// Finite reports whether f is neither NaN nor infinite
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// WrapAngle maps a to (-pi, pi]
func WrapAngle(a float64) float64 {
	if a > -math.Pi && a <= math.Pi {
		return a
	}
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Approach moves current toward target by at most maxDelta
func Approach(current, target, maxDelta float64) float64 {
	if d := target - current; math.Abs(d) <= maxDelta {
		return target
	} else if d > 0 {
		return current + maxDelta
	}
	return current - maxDelta
}
