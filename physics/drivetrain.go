package physics

import (
	"math"

	"github.com/lixenwraith/skidpad/tuning"
)

const radPerSecToRPM = 60 / (2 * math.Pi)

// EngineTorque interpolates the crank torque curve at rpm
// Below the first point the first torque holds; at or above redline the limiter cuts torque
func EngineTorque(rpm float64, e *tuning.Engine) float64 {
	curve := e.TorqueCurve
	if len(curve) == 0 || rpm >= e.RedlineRPM {
		return 0
	}
	if rpm <= curve[0].RPM {
		return curve[0].Torque
	}
	for i := 1; i < len(curve); i++ {
		hi := curve[i]
		if rpm <= hi.RPM {
			lo := curve[i-1]
			t := (rpm - lo.RPM) / (hi.RPM - lo.RPM)
			return lo.Torque + t*(hi.Torque-lo.Torque)
		}
	}
	return curve[len(curve)-1].Torque
}

// EngineRPM converts the driven wheel speed (rad/s) to engine speed, never below idle
func EngineRPM(wheelOmega float64, e *tuning.Engine) float64 {
	return max(math.Abs(wheelOmega)*e.DriveRatio*radPerSecToRPM, e.IdleRPM)
}

// DriveShares splits drive torque across FL, FR, RL, RR
func DriveShares(e *tuning.Engine) [4]float64 {
	front := (1 - e.RearBias) / 2
	rear := e.RearBias / 2
	return [4]float64{front, front, rear, rear}
}

// BrakeTorques returns the resisting torque per wheel for the pedal and handbrake positions
func BrakeTorques(brake, handbrake float64, b *tuning.Brakes) [4]float64 {
	front := brake * b.BrakeTorque * b.FrontBias / 2
	rear := brake*b.BrakeTorque*(1-b.FrontBias)/2 + handbrake*b.HandbrakeTorque/2
	return [4]float64{front, front, rear, rear}
}
