package tuning

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

type validator struct {
	errs error
}

func (v *validator) failf(format string, args ...any) {
	v.errs = multierr.Append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) finite(key string, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.failf("%s: must be finite, got %v", key, x)
		return false
	}
	return true
}

func (v *validator) positive(key string, x float64) {
	if v.finite(key, x) && x <= 0 {
		v.failf("%s: must be > 0, got %g", key, x)
	}
}

func (v *validator) nonNegative(key string, x float64) {
	if v.finite(key, x) && x < 0 {
		v.failf("%s: must be >= 0, got %g", key, x)
	}
}

func (v *validator) unit(key string, x float64) {
	if v.finite(key, x) && (x < 0 || x > 1) {
		v.failf("%s: must be within [0, 1], got %g", key, x)
	}
}

// Validate checks every invariant of a parameter set and reports all violations together
func Validate(p *ParameterSet) error {
	var v validator

	c := p.Chassis
	v.positive("chassis.mass", c.Mass)
	v.positive("chassis.yaw_inertia", c.YawInertia)
	v.positive("chassis.pitch_inertia", c.PitchInertia)
	v.positive("chassis.roll_inertia", c.RollInertia)
	v.positive("chassis.wheelbase", c.Wheelbase)
	v.positive("chassis.track_width", c.TrackWidth)
	v.positive("chassis.com_height", c.ComHeight)
	v.positive("chassis.gravity", c.Gravity)
	if v.finite("chassis.com_offset", c.ComOffset) && math.Abs(c.ComOffset) >= c.Wheelbase/2 {
		v.failf("chassis.com_offset: must lie between the axles, got %g for wheelbase %g", c.ComOffset, c.Wheelbase)
	}

	s := p.Suspension
	v.positive("suspension.front_stiffness", s.FrontStiffness)
	v.positive("suspension.rear_stiffness", s.RearStiffness)
	v.nonNegative("suspension.front_damping", s.FrontDamping)
	v.nonNegative("suspension.rear_damping", s.RearDamping)

	t := p.Tire
	v.positive("tire.peak_friction", t.PeakFriction)
	v.positive("tire.longitudinal_stiffness", t.LongStiffness)
	v.positive("tire.lateral_stiffness", t.LatStiffness)
	v.positive("tire.longitudinal_shape", t.LongShape)
	v.positive("tire.lateral_shape", t.LatShape)
	if v.finite("tire.curvature", t.Curvature) && t.Curvature > 1 {
		v.failf("tire.curvature: must be <= 1, got %g", t.Curvature)
	}
	v.positive("tire.radius", t.Radius)
	v.positive("tire.wheel_inertia", t.WheelInertia)
	v.nonNegative("tire.rolling_resistance", t.RollingResistance)

	v.positive("steering.max_steer", p.Steering.MaxSteer)
	if p.Steering.MaxSteer >= math.Pi/2 {
		v.failf("steering.max_steer: must be below pi/2, got %g", p.Steering.MaxSteer)
	}
	v.positive("steering.steer_rate", p.Steering.SteerRate)
	v.unit("steering.ackermann", p.Steering.Ackermann)

	e := p.Engine
	v.positive("engine.idle_rpm", e.IdleRPM)
	v.positive("engine.redline_rpm", e.RedlineRPM)
	if e.IdleRPM >= e.RedlineRPM {
		v.failf("engine.idle_rpm: must be below redline_rpm, got %g >= %g", e.IdleRPM, e.RedlineRPM)
	}
	v.positive("engine.drive_ratio", e.DriveRatio)
	v.unit("engine.rear_bias", e.RearBias)
	if len(e.TorqueCurve) < 2 {
		v.failf("engine.torque_curve: needs at least 2 points, got %d", len(e.TorqueCurve))
	}
	for i, pt := range e.TorqueCurve {
		key := fmt.Sprintf("engine.torque_curve[%d]", i)
		v.nonNegative(key+".rpm", pt.RPM)
		v.nonNegative(key+".torque", pt.Torque)
		if i > 0 && pt.RPM <= e.TorqueCurve[i-1].RPM {
			v.failf("%s.rpm: must increase, got %g after %g", key, pt.RPM, e.TorqueCurve[i-1].RPM)
		}
	}

	b := p.Brakes
	v.nonNegative("brakes.brake_torque", b.BrakeTorque)
	v.unit("brakes.front_bias", b.FrontBias)
	v.nonNegative("brakes.handbrake_torque", b.HandbrakeTorque)

	v.nonNegative("aero.drag", p.Aero.Drag)

	v.positive("skid.threshold", p.Skid.Threshold)
	v.finite("skid.full_slip", p.Skid.FullSlip)
	if p.Skid.FullSlip <= p.Skid.Threshold {
		v.failf("skid.full_slip: must exceed threshold, got %g <= %g", p.Skid.FullSlip, p.Skid.Threshold)
	}

	return v.errs
}
