// Package tuning owns the vehicle parameter set: its file formats, validation and the
// hot-reloading store that publishes immutable snapshots to the simulation.
package tuning

// ParameterSet is one immutable tuning snapshot
// Published snapshots are shared between goroutines and must never be mutated
type ParameterSet struct {
	Chassis    Chassis
	Suspension Suspension
	Tire       Tire
	Steering   Steering
	Engine     Engine
	Brakes     Brakes
	Aero       Aero
	Skid       Skid
}

// Chassis describes the sprung mass and wheel placement
type Chassis struct {
	Mass         float64 // kg
	YawInertia   float64 // kg·m²
	PitchInertia float64 // kg·m²
	RollInertia  float64 // kg·m²
	Wheelbase    float64 // m, front to rear axle
	TrackWidth   float64 // m, left to right contact patch
	ComOffset    float64 // m, centre of mass ahead of the wheelbase midpoint
	ComHeight    float64 // m, centre of mass above ground
	Gravity      float64 // m/s²
}

// CgToFront is the distance from the centre of mass to the front axle
func (c Chassis) CgToFront() float64 { return c.Wheelbase/2 - c.ComOffset }

// CgToRear is the distance from the centre of mass to the rear axle
func (c Chassis) CgToRear() float64 { return c.Wheelbase/2 + c.ComOffset }

func (c Chassis) HalfTrack() float64 { return c.TrackWidth / 2 }

// Suspension holds per-wheel spring and damper rates for each axle
type Suspension struct {
	FrontStiffness float64 // N/m
	RearStiffness  float64 // N/m
	FrontDamping   float64 // N·s/m
	RearDamping    float64 // N·s/m
}

// Tire holds the magic formula coefficients and wheel properties
type Tire struct {
	PeakFriction      float64 // D = PeakFriction * load
	LongStiffness     float64 // B on slip ratio
	LatStiffness      float64 // B on slip angle (rad)
	LongShape         float64 // C on slip ratio
	LatShape          float64 // C on slip angle
	Curvature         float64 // E, shared
	Radius            float64 // m
	WheelInertia      float64 // kg·m², includes driveline share
	RollingResistance float64 // dimensionless, rolling force = coefficient * load
}

// Steering is the rack: MaxSteer and SteerRate act on the centre angle, Ackermann splits it
// between the front wheels (0 parallel, 1 full geometry)
type Steering struct {
	MaxSteer  float64 // rad at full lock
	SteerRate float64 // rad/s
	Ackermann float64
}

// TorquePoint is one sample of the engine torque curve
type TorquePoint struct {
	RPM    float64
	Torque float64 // N·m at the crank
}

// Engine is a single-ratio drivetrain; RearBias 0 is front drive, 1 is rear drive
type Engine struct {
	IdleRPM     float64
	RedlineRPM  float64
	DriveRatio  float64 // crank to wheel overall ratio
	RearBias    float64
	TorqueCurve []TorquePoint
}

// Peak returns the largest torque on the curve
func (e *Engine) Peak() float64 {
	var peak float64
	for _, pt := range e.TorqueCurve {
		peak = max(peak, pt.Torque)
	}
	return peak
}

type Brakes struct {
	BrakeTorque     float64 // N·m total at full pedal
	FrontBias       float64 // share of BrakeTorque on the front axle
	HandbrakeTorque float64 // N·m total, rear axle only
}

type Aero struct {
	Drag float64 // N per (m/s)², force = Drag * |v| * v
}

// Skid configures skid event emission
type Skid struct {
	Threshold float64 // combined slip at which marks start
	FullSlip  float64 // combined slip for full intensity
}

// Clone returns a deep copy, used to derive a modified candidate without touching a published snapshot
func (p *ParameterSet) Clone() *ParameterSet {
	c := *p
	c.Engine.TorqueCurve = append([]TorquePoint(nil), p.Engine.TorqueCurve...)
	return &c
}
