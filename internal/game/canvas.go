package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/nero/internal/spectrum"
)

// screenCanvas draws render primitives onto an ebiten image with anti-aliasing.
type screenCanvas struct {
	img *ebiten.Image
}

func (s screenCanvas) Line(a, b spectrum.Point, c color.Color, width float64) {
	vector.StrokeLine(s.img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), c, true)
}

func (s screenCanvas) Circle(center spectrum.Point, radius float64, c color.Color) {
	vector.DrawFilledCircle(s.img, float32(center.X), float32(center.Y), float32(radius), c, true)
}
