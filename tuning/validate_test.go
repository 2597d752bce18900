package tuning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))

	c := Default().Chassis
	assert.InDelta(t, 1.25, c.CgToFront(), 1e-12)
	assert.InDelta(t, 1.25, c.CgToRear(), 1e-12)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ParameterSet)
		key    string
	}{
		{"nan mass", func(p *ParameterSet) { p.Chassis.Mass = math.NaN() }, "chassis.mass"},
		{"zero radius", func(p *ParameterSet) { p.Tire.Radius = 0 }, "tire.radius"},
		{"inf drag", func(p *ParameterSet) { p.Aero.Drag = math.Inf(1) }, "aero.drag"},
		{"zero spring", func(p *ParameterSet) { p.Suspension.FrontStiffness = 0 }, "suspension.front_stiffness"},
		{"negative damping", func(p *ParameterSet) { p.Suspension.RearDamping = -1 }, "suspension.rear_damping"},
		{"com outside axles", func(p *ParameterSet) { p.Chassis.ComOffset = 2 }, "chassis.com_offset"},
		{"idle above redline", func(p *ParameterSet) { p.Engine.IdleRPM = 8000 }, "engine.idle_rpm"},
		{"brake bias", func(p *ParameterSet) { p.Brakes.FrontBias = -0.1 }, "brakes.front_bias"},
		{"curve order", func(p *ParameterSet) { p.Engine.TorqueCurve[2].RPM = 100 }, "engine.torque_curve[2].rpm"},
		{"short curve", func(p *ParameterSet) { p.Engine.TorqueCurve = p.Engine.TorqueCurve[:1] }, "engine.torque_curve"},
		{"skid range", func(p *ParameterSet) { p.Skid.FullSlip = p.Skid.Threshold }, "skid.full_slip"},
		{"zero ratio", func(p *ParameterSet) { p.Engine.DriveRatio = 0 }, "engine.drive_ratio"},
		{"negative torque", func(p *ParameterSet) { p.Engine.TorqueCurve[1].Torque = -5 }, "engine.torque_curve[1].torque"},
		{"steer lock", func(p *ParameterSet) { p.Steering.MaxSteer = 2 }, "steering.max_steer"},
		{"ackermann", func(p *ParameterSet) { p.Steering.Ackermann = 1.2 }, "steering.ackermann"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(p)
			err := Validate(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	p := Default()
	p.Chassis.Mass = 0
	p.Tire.PeakFriction = 0
	p.Skid.Threshold = -1

	assert.Len(t, multierr.Errors(Validate(p)), 3)
}

func TestCloneIsDeep(t *testing.T) {
	p := Default()
	c := p.Clone()
	c.Engine.TorqueCurve[0].Torque = 1
	c.Chassis.Mass = 1

	assert.Equal(t, Default(), p)
}
