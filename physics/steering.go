package physics

import (
	"math"

	"github.com/lixenwraith/skidpad/tuning"
)

// WheelAngles splits the rack centre angle between the front wheels
// The inner wheel turns tighter so both roll about a point on the rear axle line; factor blends
// between parallel steer (0) and full Ackermann geometry (1)
func WheelAngles(center float64, c *tuning.Chassis, factor float64) (left, right float64) {
	if center == 0 || factor == 0 {
		return center, center
	}

	l := c.Wheelbase
	w := c.HalfTrack() * factor
	radius := l / math.Tan(math.Abs(center))

	inner := math.Pi / 2
	if radius-w > 0 {
		inner = math.Atan(l / (radius - w))
	}
	outer := math.Atan(l / (radius + w))

	if center > 0 {
		return inner, outer
	}
	return -outer, -inner
}
