package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"

	"github.com/lixenwraith/skidpad/engine"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/tuning"
	"github.com/lixenwraith/skidpad/vehicle"
)

const keyHints = "←→ steer  ↑ throttle  ↓ brake  space handbrake  r reset  c clear  p pause  m mute  q quit"

// maxErrorLines bounds how much of a reload diagnostic the panel shows
const maxErrorLines = 4

type hudLine struct {
	label string
	value string
	color RGB
}

func (r *Renderer) drawHUD(f *engine.Frame, p *tuning.ParameterSet, w, h int) {
	panel := tcell.StyleDefault.Background(RGBPanel.Color())
	width := min(parameter.HUDWidth, w)

	lines := hudLines(f, p, max(width-2, 1))
	for y := 0; y < len(lines)+1 && y < h; y++ {
		for x := 0; x < width; x++ {
			r.screen.SetContent(x, y, ' ', nil, panel)
		}
	}

	for y, l := range lines {
		if y >= h {
			break
		}
		x := r.text(1, y, l.label, panel.Foreground(RGBHUDLabel.Color()), width)
		r.text(x, y, l.value, panel.Foreground(l.color.Color()), width)
	}

	r.text(0, h-1, keyHints, r.style(RGBHUDText), w)
}

func hudLines(f *engine.Frame, p *tuning.ParameterSet, width int) []hudLine {
	c := &f.Chassis
	slipF, slipR := f.AxleSlipAngles()
	loadF, loadR := f.AxleLoads()
	latF, latR := f.AxleLateralForces()

	lines := []hudLine{
		{"SPEED  ", fmt.Sprintf("%7.1f km/h", f.SpeedKMH()), RGBHUDText},
		{"RPM    ", fmt.Sprintf("%7.0f", f.Step.EngineRPM), RGBHUDText},
		{"ACCEL  ", fmt.Sprintf("%+7.2f m/s²", c.LocalAcceleration().X()), RGBHUDText},
		{"YAW    ", fmt.Sprintf("%+7.2f rad/s", c.YawRate), RGBHUDText},
		{"SLIP   ", fmt.Sprintf("F %4.1f°  R %4.1f°", degrees(slipF), degrees(slipR)), SlipColor(max(slipF, slipR), p.Skid.FullSlip)},
		{"LOAD   ", fmt.Sprintf("F %5.0f  R %5.0f N", loadF, loadR), RGBHUDText},
		{"LATF   ", fmt.Sprintf("F %+5.0f R %+5.0f N", latF, latR), RGBHUDText},
	}

	mounts := vehicle.Mounts(p)
	for i := range f.Wheels {
		lines = append(lines, hudLine{
			label: vehicle.WheelName(i) + "     ",
			value: loadBar(f.Wheels[i].Load, mounts[i].StaticLoad) + fmt.Sprintf(" %5.0f", f.Wheels[i].Load),
			color: RGBHUDBar,
		})
	}

	lines = append(lines,
		hudLine{"WEIGHT ", fmt.Sprintf("%3.0f%% front", f.FrontWeightShare()*100), RGBWeight},
		hudLine{"PARAMS ", fmt.Sprintf("v%d", f.ParamsVersion), RGBHUDText},
	)

	if f.ConfigError != nil {
		chunks := lo.ChunkString("config: "+f.ConfigError.Error(), width)
		for _, chunk := range lo.Subset(chunks, 0, maxErrorLines) {
			lines = append(lines, hudLine{value: chunk, color: RGBHUDError})
		}
	}
	if f.Paused {
		lines = append(lines, hudLine{value: "PAUSED", color: RGBHUDPaused})
	}
	return lines
}

// loadBar fills LoadBarWidth cells at twice the static load
func loadBar(load, static float64) string {
	n := 0
	if static > 0 {
		n = lo.Clamp(int(math.Round(load/(2*static)*parameter.LoadBarWidth)), 0, parameter.LoadBarWidth)
	}
	return strings.Repeat("█", n) + strings.Repeat("░", parameter.LoadBarWidth-n)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// text draws s from column x, clipped at limit, and returns the column after the last rune
func (r *Renderer) text(x, y int, s string, style tcell.Style, limit int) int {
	for _, ch := range s {
		if x >= limit {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
