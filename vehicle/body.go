package vehicle

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/physics"
	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vmath"
)

// Phase is the body lifecycle state
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhaseReset         // rest values restored on the next step
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseReset:
		return "reset"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// ErrNumericInstability reports a step that produced a non-finite state; the previous state is kept
var ErrNumericInstability = errors.New("numeric instability, step discarded")

// StepReport summarizes one Step call
type StepReport struct {
	Substeps  int
	Simulated float64 // seconds integrated after clamping
	Reset     bool
	EngineRPM float64
}

// Body is the simulated car
// Not safe for concurrent use; the simulation goroutine owns it
type Body struct {
	chassis ChassisState
	wheels  [WheelCount]WheelState
	phase   Phase
	rack    float64 // steering centre angle, rad
	rpm     float64
}

// NewBody returns a car at rest at the origin facing +X
func NewBody(p *tuning.ParameterSet) *Body {
	b := &Body{}
	b.Reset(p)
	return b
}

func (b *Body) Chassis() ChassisState          { return b.chassis }
func (b *Body) Wheels() [WheelCount]WheelState { return b.wheels }
func (b *Body) Phase() Phase                   { return b.phase }
func (b *Body) EngineRPM() float64             { return b.rpm }

// SteerAngle is the rate-limited steering centre angle; the front wheels split it by Ackermann
func (b *Body) SteerAngle() float64 { return b.rack }

// RequestReset schedules a reset for the next step; repeated requests collapse into one
func (b *Body) RequestReset() { b.phase = PhaseReset }

// Reset restores rest values immediately
func (b *Body) Reset(p *tuning.ParameterSet) {
	b.chassis, b.wheels = RestState(p)
	b.phase = PhaseRunning
	b.rack = 0
	b.rpm = p.Engine.IdleRPM
}

// RestState returns the chassis and wheel values of a car at rest at the origin facing +X
func RestState(p *tuning.ParameterSet) (ChassisState, [WheelCount]WheelState) {
	var (
		c ChassisState
		w [WheelCount]WheelState
	)
	for i, m := range Mounts(p) {
		w[i].Load = m.StaticLoad
		w[i].Compression = m.StaticLoad / m.Stiffness
		w[i].Contact = m.Position
	}
	return c, w
}

// Mounts returns the suspension corners for p, indexed FL, FR, RL, RR
// Static loads split the weight by axle distance so the car rests without pitching
func Mounts(p *tuning.ParameterSet) [WheelCount]physics.Mount {
	c := p.Chassis
	s := p.Suspension
	a, b, w := c.CgToFront(), c.CgToRear(), c.HalfTrack()
	weight := c.Mass * c.Gravity
	front := weight * b / c.Wheelbase / 2
	rear := weight * a / c.Wheelbase / 2

	return [WheelCount]physics.Mount{
		FL: {Position: mgl64.Vec2{a, w}, StaticLoad: front, Stiffness: s.FrontStiffness, Damping: s.FrontDamping},
		FR: {Position: mgl64.Vec2{a, -w}, StaticLoad: front, Stiffness: s.FrontStiffness, Damping: s.FrontDamping},
		RL: {Position: mgl64.Vec2{-b, w}, StaticLoad: rear, Stiffness: s.RearStiffness, Damping: s.RearDamping},
		RR: {Position: mgl64.Vec2{-b, -w}, StaticLoad: rear, Stiffness: s.RearStiffness, Damping: s.RearDamping},
	}
}

// Step advances the body by dt seconds under input in using parameter snapshot p
// A pending reset is applied instead of integrating. dt that is not positive and finite is a no-op.
// On ErrNumericInstability the state is left exactly as before the call.
func (b *Body) Step(dt float64, in Input, p *tuning.ParameterSet) (StepReport, error) {
	if b.phase == PhaseReset {
		b.Reset(p)
		return StepReport{Reset: true, EngineRPM: b.rpm}, nil
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return StepReport{EngineRPM: b.rpm}, nil
	}

	dt = min(dt, parameter.MaxFrameStep)
	n := lo.Clamp(int(math.Ceil(dt/parameter.MaxSubstep-1e-9)), 1, parameter.MaxSubsteps)
	h := dt / float64(n)

	in = in.Clamped()
	s := stepper{
		p:       p,
		in:      in,
		mounts:  Mounts(p),
		drive:   physics.DriveShares(&p.Engine),
		brakes:  physics.BrakeTorques(in.Brake, in.Handbrake, &p.Brakes),
		chassis: b.chassis,
		wheels:  b.wheels,
		rack:    b.rack,
	}

	for i := 0; i < n; i++ {
		s.substep(h)
		if !s.finite() {
			return StepReport{Substeps: i + 1, EngineRPM: b.rpm}, ErrNumericInstability
		}
	}

	for i, m := range s.mounts {
		s.wheels[i].Contact = s.chassis.Position.Add(vmath.ToWorld(m.Position, s.chassis.Heading))
	}

	b.chassis = s.chassis
	b.wheels = s.wheels
	b.rack = s.rack
	b.rpm = s.rpm

	return StepReport{Substeps: n, Simulated: dt, EngineRPM: b.rpm}, nil
}

// stepper integrates a candidate state that is committed only if every substep stays finite
type stepper struct {
	p      *tuning.ParameterSet
	in     Input
	mounts [WheelCount]physics.Mount
	drive  [WheelCount]float64
	brakes [WheelCount]float64

	chassis ChassisState
	wheels  [WheelCount]WheelState
	rack    float64
	rpm     float64
}

func (s *stepper) finite() bool {
	if !s.chassis.finite() || !vmath.Finite(s.rpm) || !vmath.Finite(s.rack) {
		return false
	}
	for i := range s.wheels {
		if !s.wheels[i].finite() {
			return false
		}
	}
	return true
}

// patch is the per-wheel slip linearization carried from the force pass to the spin pass
type patch struct {
	vx   float64 // longitudinal contact velocity before the chassis update
	fx   float64
	gain float64 // dFx/d(wheel surface speed), zero past the peak
}

// patchVelocity returns the contact patch velocity of wheel i in its own frame
func (s *stepper) patchVelocity(local mgl64.Vec2, yawRate float64, i int) mgl64.Vec2 {
	pos := s.mounts[i].Position
	body := mgl64.Vec2{local.X() - yawRate*pos.Y(), local.Y() + yawRate*pos.X()}
	return vmath.Rotate(body, -s.wheels[i].Steer)
}

func (s *stepper) substep(h float64) {
	p := s.p
	c := &s.chassis
	tire := &p.Tire

	s.rack = vmath.Approach(s.rack, s.in.Steer*p.Steering.MaxSteer, p.Steering.SteerRate*h)
	s.wheels[FL].Steer, s.wheels[FR].Steer = physics.WheelAngles(s.rack, &p.Chassis, p.Steering.Ackermann)

	var driven float64
	for i := range s.wheels {
		driven += s.drive[i] * s.wheels[i].Omega
	}
	s.rpm = physics.EngineRPM(driven, &p.Engine)
	axleTorque := s.in.Throttle * physics.EngineTorque(s.rpm, &p.Engine) * p.Engine.DriveRatio

	heading := c.Heading
	local := vmath.ToLocal(c.Velocity, heading)

	var (
		patches     [WheelCount]patch
		tireForce   mgl64.Vec2
		yawTorque   float64
		heaveForce  float64
		pitchTorque float64
		rollTorque  float64
	)

	for i := range s.wheels {
		w := &s.wheels[i]
		m := s.mounts[i]

		susp := physics.Suspension(c.Pose, m)
		w.Load = susp.Load
		w.Compression = susp.Compression
		heaveForce += susp.Force - m.StaticLoad
		pitchTorque += susp.PitchTorque
		rollTorque += susp.RollTorque

		v := s.patchVelocity(local, c.YawRate, i)
		vx, vy := v.X(), v.Y()

		w.DriveTorque = s.drive[i] * axleTorque
		w.BrakeTorque = s.brakes[i]

		pt := patch{vx: vx}
		var fy float64
		if w.Airborne() {
			w.SlipRatio, w.SlipAngle = 0, 0
		} else {
			spin := w.Omega * tire.Radius
			norm := max(math.Abs(vx), math.Abs(spin), parameter.LowSpeedFloor)
			w.SlipRatio = (spin - vx) / norm
			w.SlipAngle = math.Atan2(vy, max(math.Abs(vx), parameter.LowSpeedFloor))
			pt.fx, fy = physics.TireForce(w.SlipRatio, w.SlipAngle, w.Load, tire)
			if slope := physics.LongitudinalSlope(w.SlipRatio, w.Load, tire); slope > 0 {
				pt.gain = slope / norm
			}
		}
		w.Force = mgl64.Vec2{pt.fx, fy}
		patches[i] = pt

		body := vmath.Rotate(w.Force, w.Steer)
		tireForce = tireForce.Add(body)
		yawTorque += m.Position.X()*body.Y() - m.Position.Y()*body.X()
	}

	ch := p.Chassis
	drag := local.Mul(-p.Aero.Drag * local.Len())
	accel := vmath.ToWorld(tireForce.Add(drag).Mul(1/ch.Mass), heading)

	// tire forces act at ground level, ComHeight below the centre of mass
	pitchAccel := (pitchTorque - ch.ComHeight*tireForce.X()) / ch.PitchInertia
	rollAccel := (rollTorque + ch.ComHeight*tireForce.Y()) / ch.RollInertia
	heaveAccel := heaveForce / ch.Mass
	yawAccel := yawTorque / ch.YawInertia

	// semi-implicit Euler: velocities first, positions from the new velocities
	pose := &c.Pose
	c.Velocity = c.Velocity.Add(accel.Mul(h))
	c.YawRate += yawAccel * h
	pose.HeaveRate += heaveAccel * h
	pose.PitchRate += pitchAccel * h
	pose.RollRate += rollAccel * h

	c.Position = c.Position.Add(c.Velocity.Mul(h))
	c.Heading = vmath.WrapAngle(c.Heading + c.YawRate*h)
	pose.Heave += pose.HeaveRate * h
	pose.Pitch += pose.PitchRate * h
	pose.Roll += pose.RollRate * h

	c.Acceleration = accel

	s.spin(h, vmath.ToLocal(c.Velocity, heading), patches)
}

// spin integrates wheel speeds against the contact velocity of the updated chassis
// The tire reaction is linearized around this substep's slip, which keeps a wheel from
// overshooting the road speed when the tire is stiff relative to the wheel inertia
func (s *stepper) spin(h float64, local mgl64.Vec2, patches [WheelCount]patch) {
	tire := &s.p.Tire
	r := tire.Radius

	for i := range s.wheels {
		w := &s.wheels[i]
		pt := patches[i]
		vx := s.patchVelocity(local, s.chassis.YawRate, i).X()

		inertia := tire.WheelInertia + h*pt.gain*r*r
		free := w.Omega + h*(w.DriveTorque-pt.fx*r+r*pt.gain*(vx-pt.vx))/inertia

		// brake and rolling resistance hold a stopped wheel but never reverse it
		hold := h * (w.BrakeTorque + tire.RollingResistance*w.Load*r) / inertia
		switch {
		case math.Abs(free) <= hold:
			w.Omega = 0
		case free > 0:
			w.Omega = free - hold
		default:
			w.Omega = free + hold
		}
	}
}
