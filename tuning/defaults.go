package tuning

// Default returns the built-in tuning: a 1200 kg front-drive hatchback with the centre of mass
// midway between the axles and one tire model on both axles
func Default() *ParameterSet {
	return &ParameterSet{
		Chassis: Chassis{
			Mass:         1200,
			YawInertia:   1500,
			PitchInertia: 1600,
			RollInertia:  450,
			Wheelbase:    2.5,
			TrackWidth:   1.6,
			ComOffset:    0,
			ComHeight:    0.55,
			Gravity:      9.81,
		},
		Suspension: Suspension{
			FrontStiffness: 32000,
			RearStiffness:  32000,
			FrontDamping:   3200,
			RearDamping:    3200,
		},
		Tire: Tire{
			PeakFriction:      1.0,
			LongStiffness:     12,
			LatStiffness:      10,
			LongShape:         1.65,
			LatShape:          1.4,
			Curvature:         0.97,
			Radius:            0.3,
			WheelInertia:      1.2,
			RollingResistance: 0.015,
		},
		Steering: Steering{
			MaxSteer:  0.6,
			SteerRate: 2.5,
			Ackermann: 1,
		},
		Engine: Engine{
			IdleRPM:    900,
			RedlineRPM: 7500,
			DriveRatio: 4.2,
			RearBias:   0,
			TorqueCurve: []TorquePoint{
				{RPM: 1000, Torque: 120},
				{RPM: 2500, Torque: 145},
				{RPM: 4500, Torque: 160},
				{RPM: 6000, Torque: 150},
				{RPM: 7000, Torque: 125},
				{RPM: 7500, Torque: 0},
			},
		},
		Brakes: Brakes{
			BrakeTorque:     4000,
			FrontBias:       0.6,
			HandbrakeTorque: 1500,
		},
		Aero: Aero{
			Drag: 0.42,
		},
		Skid: Skid{
			Threshold: 0.2,
			FullSlip:  0.6,
		},
	}
}
