package physics

import (
	"math"

	"github.com/lixenwraith/skidpad/tuning"
)

// magicFormula evaluates D·sin(C·atan(Bx - E(Bx - atan Bx)))
func magicFormula(x, b, c, d, e float64) float64 {
	bx := b * x
	return d * math.Sin(c*math.Atan(bx-e*(bx-math.Atan(bx))))
}

// magicFormulaSlope is the derivative of magicFormula with respect to x
func magicFormulaSlope(x, b, c, d, e float64) float64 {
	bx := b * x
	u := bx - e*(bx-math.Atan(bx))
	du := b - e*(b-b/(1+bx*bx))
	return d * math.Cos(c*math.Atan(u)) * c / (1 + u*u) * du
}

// TireForce returns the contact patch forces in the wheel frame for the given slip state
// fx acts along the wheel heading, fy to its left; fy opposes the slip angle
// The combined force never exceeds PeakFriction·load: when the independent curves exceed
// the friction circle both components are scaled by the same factor
// Non-positive or non-finite load yields zero force
func TireForce(slipRatio, slipAngle, load float64, t *tuning.Tire) (fx, fy float64) {
	if !(load > 0) || math.IsInf(load, 1) {
		return 0, 0
	}

	limit := t.PeakFriction * load
	fx = magicFormula(slipRatio, t.LongStiffness, t.LongShape, limit, t.Curvature)
	fy = -magicFormula(slipAngle, t.LatStiffness, t.LatShape, limit, t.Curvature)

	if total := math.Hypot(fx, fy); total > limit {
		scale := limit / total
		fx *= scale
		fy *= scale
	}
	return fx, fy
}

// LongitudinalSlope returns dFx/dslip at the given slip ratio, floored at zero
// Past the curve peak the slope is negative; the wheel integrator only uses the stabilizing part
func LongitudinalSlope(slipRatio, load float64, t *tuning.Tire) float64 {
	if !(load > 0) || math.IsInf(load, 1) {
		return 0
	}
	s := magicFormulaSlope(slipRatio, t.LongStiffness, t.LongShape, t.PeakFriction*load, t.Curvature)
	return max(s, 0)
}
