package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skidpad/parameter"
)

// Camera maps world metres to terminal cells, +Y world is up on screen
type Camera struct {
	Center mgl64.Vec2
	Scale  float64 // columns per metre
	placed bool
}

func NewCamera() *Camera {
	return &Camera{Scale: parameter.CameraScale}
}

// Follow eases the centre toward target over dt seconds; the first call snaps
func (c *Camera) Follow(target mgl64.Vec2, dt float64) {
	if !c.placed {
		c.Center = target
		c.placed = true
		return
	}
	k := 1 - math.Exp(-parameter.CameraFollowRate*dt)
	c.Center = c.Center.Add(target.Sub(c.Center).Mul(k))
}

// Snap re-centres on the next Follow
func (c *Camera) Snap() { c.placed = false }

// Cell returns the fractional cell coordinates of p on a w×h screen
// The centre maps to the middle of cell (w/2, h/2)
func (c *Camera) Cell(p mgl64.Vec2, w, h int) (x, y float64) {
	d := p.Sub(c.Center)
	x = float64(w/2) + 0.5 + d.X()*c.Scale
	y = float64(h/2) + 0.5 - d.Y()*c.Scale/parameter.CellAspect
	return x, y
}

// Project returns the cell containing p
func (c *Camera) Project(p mgl64.Vec2, w, h int) (x, y int) {
	fx, fy := c.Cell(p, w, h)
	return int(math.Floor(fx)), int(math.Floor(fy))
}
