// Package render draws visualizer frames onto a Canvas.
package render

import (
	"image/color"
	"math"

	"github.com/iburimskiy/nero/internal/spectrum"
)

// Canvas accepts the two primitives the visualizer is made of.
type Canvas interface {
	Line(a, b spectrum.Point, c color.Color, width float64)
	Circle(center spectrum.Point, radius float64, c color.Color)
}

// Spectrum draws every segment as a thick line with a round cap at each end.
func Spectrum(c Canvas, segs []spectrum.Segment) {
	for _, s := range segs {
		col := s.Color.RGBA()
		c.Line(s.Inner, s.Outer, col, s.Thickness)
		c.Circle(s.Outer, s.CapRadius(), col)
		c.Circle(s.Inner, s.CapRadius(), col)
	}
}

// Glow draws soft concentric discs at center. level in [0, 1] grows the glow by up to pulse.
func Glow(c Canvas, center spectrum.Point, radius, pulse, level float64, tint spectrum.RGB) {
	const rings = 6
	r := radius + pulse*clamp01(level)
	for i := 0; i < rings; i++ {
		ratio := float64(rings-i) / rings
		alpha := uint8(10 + 30*(1-ratio))
		c.Circle(center, r*ratio, color.NRGBA{R: tint.R, G: tint.G, B: tint.B, A: alpha})
	}
}

// Background fills a w×h area with a slowly shifting dark gradient.
func Background(c Canvas, w, h int, t float64) {
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		r := uint8(5 + 5*math.Sin(t*0.5+ratio*math.Pi))
		g := uint8(5 + 4*math.Cos(t*0.3+ratio*math.Pi))
		b := uint8(15 + 8*math.Sin(t*0.7+ratio*math.Pi))
		c.Line(spectrum.Point{X: 0, Y: float64(y)}, spectrum.Point{X: float64(w), Y: float64(y)},
			color.RGBA{R: r, G: g, B: b, A: 255}, 1)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
