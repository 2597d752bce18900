package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
)

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Palette
var (
	RGBAsphalt   = RGB{34, 35, 40}
	RGBMark      = RGB{170, 170, 175}
	RGBPanel     = RGB{16, 16, 20}
	RGBBody      = RGB{230, 230, 235}
	RGBWeight    = RGB{255, 200, 60}
	RGBGrip      = RGB{80, 220, 100}
	RGBSlide     = RGB{255, 60, 50}
	RGBAirborne  = RGB{120, 120, 255}
	RGBHUDText   = RGB{200, 200, 200}
	RGBHUDLabel  = RGB{120, 170, 255}
	RGBHUDBar    = RGB{90, 200, 210}
	RGBHUDError  = RGB{255, 90, 90}
	RGBHUDPaused = RGB{255, 165, 0}
)

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Color converts to a tcell true color
func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// SlipColor fades from grip green to slide red as slip approaches full
func SlipColor(slip, full float64) RGB {
	return RGBGrip.Blend(RGBSlide, lo.Clamp(slip/full, 0, 1))
}
