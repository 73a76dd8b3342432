package spectrum

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA converts c for drawing.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Palette holds one color per bar, in bar order. Palettes are never mutated after construction.
type Palette []RGB

// techKeys runs clockwise from the top: deep blue, purple, pink, bluish purple, blue, cyan, teal.
var techKeys = [...]RGB{
	{0, 100, 255},
	{150, 0, 255},
	{255, 50, 200},
	{100, 50, 255},
	{50, 150, 255},
	{50, 200, 255},
	{0, 255, 200},
}

// Hue ranges of the sweep palettes, in turns.
const (
	listeningHueStart = 0.3
	listeningHueEnd   = 0.4
	thinkingHueStart  = 0.7
	thinkingHueEnd    = 0.8

	sweepSaturation = 0.9
	sweepValue      = 1.0
)

// techPalette splits n bars into len(techKeys)-1 equal sections, blending linearly between
// neighbouring keys inside each one. Bars left over by the integer split get the last key.
func techPalette(n int) Palette {
	p := make(Palette, 0, n)
	sections := len(techKeys) - 1
	steps := n / sections

	for i := 0; i < sections; i++ {
		c1, c2 := techKeys[i], techKeys[i+1]
		for j := 0; j < steps; j++ {
			t := float64(j) / float64(steps)
			p = append(p, RGB{
				R: lerpChannel(c1.R, c2.R, t),
				G: lerpChannel(c1.G, c2.G, t),
				B: lerpChannel(c1.B, c2.B, t),
			})
		}
	}
	for len(p) < n {
		p = append(p, techKeys[len(techKeys)-1])
	}
	return p
}

// hueSweepPalette walks the hue from start to end (in turns, wrapping at 1) across n bars.
func hueSweepPalette(n int, start, end float64) Palette {
	p := make(Palette, n)
	for i := range p {
		progress := float64(i) / float64(n)
		hue := math.Mod(start+(end-start)*progress, 1.0)
		if hue < 0 {
			hue += 1
		}
		c := colorful.Hsv(hue*360, sweepSaturation, sweepValue)
		p[i] = RGB{R: channel(c.R), G: channel(c.G), B: channel(c.B)}
	}
	return p
}

// buildPalettes returns the palette table indexed by Mode.
func buildPalettes(n int) [modeCount]Palette {
	tech := techPalette(n)
	return [modeCount]Palette{
		Idle:      tech,
		Listening: hueSweepPalette(n, listeningHueStart, listeningHueEnd),
		Thinking:  hueSweepPalette(n, thinkingHueStart, thinkingHueEnd),
		Speaking:  tech,
	}
}

// lerpChannel truncates toward zero like an integer cast.
func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func channel(v float64) uint8 {
	return uint8(clamp(v, 0, 1) * 255)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
