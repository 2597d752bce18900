// Package render draws the skidpad in a terminal: the car, the skidmarks it leaves and a stats panel.
package render

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/skid"
	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vehicle"
	"github.com/lixenwraith/skidpad/vmath"
)

var trailRunes = []rune{'·', '░', '▒', '▓'}

const (
	outlineRune = '#'
	noseRune    = '='
	weightRune  = '+'
)

// Renderer is a frame sink that keeps the latest frame and the skidmark trail
// HandleFrame runs on the simulation goroutine, Draw on the UI goroutine
type Renderer struct {
	screen tcell.Screen
	params engine.ParamSource
	trail  *Trail
	camera *Camera

	mu    sync.Mutex
	frame engine.Frame
	have  bool
	snap  bool // car was reset since the last draw

	drawnAt time.Duration
	marks   []Mark
}

func NewRenderer(screen tcell.Screen, params engine.ParamSource) *Renderer {
	return &Renderer{
		screen: screen,
		params: params,
		trail:  NewTrail(parameter.TrailCapacity),
		camera: NewCamera(),
	}
}

func (r *Renderer) Trail() *Trail        { return r.trail }
func (r *Renderer) Camera() *Camera      { return r.camera }
func (r *Renderer) Screen() tcell.Screen { return r.screen }

// HandleFrame stores skid events and keeps a copy of f for the next Draw
func (r *Renderer) HandleFrame(f *engine.Frame) {
	if f.ClearSkidmarks {
		r.trail.Clear()
	}
	r.trail.Add(f.Skids)

	r.mu.Lock()
	r.frame = *f
	r.frame.Skids = nil
	r.have = true
	r.snap = r.snap || f.Step.Reset
	r.mu.Unlock()
}

// Draw paints the most recent frame and flushes the screen
func (r *Renderer) Draw() {
	r.mu.Lock()
	f := r.frame
	have, snap := r.have, r.snap
	r.snap = false
	r.mu.Unlock()

	w, h := r.screen.Size()
	r.screen.Fill(' ', tcell.StyleDefault.Background(RGBAsphalt.Color()))
	if have && w > 0 && h > 0 {
		if snap {
			r.camera.Snap()
		}
		r.camera.Follow(f.Chassis.Position, (f.SimTime - r.drawnAt).Seconds())
		r.drawnAt = f.SimTime

		p := r.params.Current()
		r.drawTrail(w, h)
		r.drawCar(&f, p, w, h)
		r.drawHUD(&f, p, w, h)
	}
	r.screen.Show()
}

func (r *Renderer) drawTrail(w, h int) {
	r.marks = r.trail.Snapshot(r.marks[:0])
	for _, m := range r.marks {
		x, y := r.camera.Project(m.Position, w, h)
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		i := lo.Clamp(int(m.Intensity*float64(len(trailRunes))), 0, len(trailRunes)-1)
		fg := RGBAsphalt.Blend(RGBMark, 0.3+0.7*m.Intensity)
		r.screen.SetContent(x, y, trailRunes[i], nil, r.style(fg))
	}
}

func (r *Renderer) drawCar(f *engine.Frame, p *tuning.ParameterSet, w, h int) {
	c := &f.Chassis
	a, b, half := p.Chassis.CgToFront(), p.Chassis.CgToRear(), p.Chassis.HalfTrack()
	front := a + parameter.BodyOverhang
	rear := -b - parameter.BodyOverhang
	side := half + parameter.BodySideGap

	corners := [4]mgl64.Vec2{{front, side}, {front, -side}, {rear, -side}, {rear, side}}
	for i := range corners {
		corners[i] = r.toWorld(c, corners[i])
	}
	body := r.style(RGBBody)
	for i := range corners {
		ch := outlineRune
		if i == 0 {
			ch = noseRune
		}
		r.line(corners[i], corners[(i+1)%len(corners)], ch, body, w, h)
	}

	for i := range f.Wheels {
		wh := &f.Wheels[i]
		color := SlipColor(skid.Slip(wh), p.Skid.FullSlip)
		ch := 'o'
		if wh.Airborne() {
			color, ch = RGBAirborne, '○'
		}
		r.plot(wh.Contact, ch, r.style(color), w, h)
	}

	// load centre between the axles, at the CoM when the car is at rest
	share := f.FrontWeightShare()
	marker := r.toWorld(c, mgl64.Vec2{-b + share*p.Chassis.Wheelbase, 0})
	r.plot(marker, weightRune, r.style(RGBWeight), w, h)
}

func (r *Renderer) toWorld(c *vehicle.ChassisState, local mgl64.Vec2) mgl64.Vec2 {
	return c.Position.Add(vmath.ToWorld(local, c.Heading))
}

func (r *Renderer) line(from, to mgl64.Vec2, ch rune, style tcell.Style, w, h int) {
	x1, y1 := r.camera.Cell(from, w, h)
	x2, y2 := r.camera.Cell(to, w, h)
	vmath.Traverse(x1, y1, x2, y2, func(x, y int) bool {
		if x >= 0 && y >= 0 && x < w && y < h {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		return true
	})
}

func (r *Renderer) plot(p mgl64.Vec2, ch rune, style tcell.Style, w, h int) {
	x, y := r.camera.Project(p, w, h)
	if x >= 0 && y >= 0 && x < w && y < h {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

func (r *Renderer) style(fg RGB) tcell.Style {
	return tcell.StyleDefault.Foreground(fg.Color()).Background(RGBAsphalt.Color())
}
