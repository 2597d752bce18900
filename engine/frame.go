package engine

import (
	"math"
	"time"

	"github.com/lixenwraith/skidpad/skid"
	"github.com/lixenwraith/skidpad/vehicle"
)

// Frame is the per-tick output handed to every sink
// It is rebuilt in place each tick: sinks copy what they need to keep, Skids included
type Frame struct {
	Tick    uint64
	SimTime time.Duration
	Step    vehicle.StepReport

	Chassis    vehicle.ChassisState
	Wheels     [vehicle.WheelCount]vehicle.WheelState
	SteerAngle float64 // rack centre angle, rad
	Skids      []skid.Event

	ParamsVersion uint64
	ConfigError   error // last failed reload, nil once a good file lands

	Paused         bool
	ClearSkidmarks bool // the trail owner drops its history before drawing this frame
	Unstable       bool // the step was discarded
}

// SpeedKMH is the forward speed in km/h, negative when reversing
func (f *Frame) SpeedKMH() float64 {
	return f.Chassis.LocalVelocity().X() * 3.6
}

// AxleSlipAngles averages |slip angle| per axle
func (f *Frame) AxleSlipAngles() (front, rear float64) {
	return f.axle(func(w *vehicle.WheelState) float64 { return math.Abs(w.SlipAngle) }, true)
}

// AxleLoads sums normal load per axle
func (f *Frame) AxleLoads() (front, rear float64) {
	return f.axle(func(w *vehicle.WheelState) float64 { return w.Load }, false)
}

// AxleLateralForces sums tire lateral force per axle in the wheel frames
func (f *Frame) AxleLateralForces() (front, rear float64) {
	return f.axle(func(w *vehicle.WheelState) float64 { return w.Force.Y() }, false)
}

// FrontWeightShare is the fraction of total load on the front axle, 0.5 when airborne
func (f *Frame) FrontWeightShare() float64 {
	front, rear := f.AxleLoads()
	if total := front + rear; total > 0 {
		return front / total
	}
	return 0.5
}

func (f *Frame) axle(value func(*vehicle.WheelState) float64, mean bool) (front, rear float64) {
	for i := range f.Wheels {
		v := value(&f.Wheels[i])
		if vehicle.IsFront(i) {
			front += v
		} else {
			rear += v
		}
	}
	if mean {
		front /= 2
		rear /= 2
	}
	return front, rear
}
