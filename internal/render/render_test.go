package render

import (
	"image/color"
	"testing"

	"github.com/iburimskiy/nero/internal/spectrum"
)

type line struct {
	a, b  spectrum.Point
	c     color.Color
	width float64
}

type circle struct {
	center spectrum.Point
	radius float64
	c      color.Color
}

type fakeCanvas struct {
	lines   []line
	circles []circle
}

func (f *fakeCanvas) Line(a, b spectrum.Point, c color.Color, width float64) {
	f.lines = append(f.lines, line{a, b, c, width})
}

func (f *fakeCanvas) Circle(center spectrum.Point, radius float64, c color.Color) {
	f.circles = append(f.circles, circle{center, radius, c})
}

func TestSpectrumDrawsLinesAndCaps(t *testing.T) {
	a := spectrum.New(12, spectrum.Point{X: 100, Y: 100})
	segs := a.Segments(nil)

	var c fakeCanvas
	Spectrum(&c, segs)

	if len(c.lines) != 12 || len(c.circles) != 24 {
		t.Fatalf("lines=%d circles=%d, want 12 and 24", len(c.lines), len(c.circles))
	}
	for i, s := range segs {
		l := c.lines[i]
		if l.a != s.Inner || l.b != s.Outer || l.width != s.Thickness {
			t.Errorf("line %d = %+v, segment %+v", i, l, s)
		}
		if l.c != s.Color.RGBA() {
			t.Errorf("line %d color = %v", i, l.c)
		}
		outerCap, innerCap := c.circles[2*i], c.circles[2*i+1]
		if outerCap.center != s.Outer || innerCap.center != s.Inner {
			t.Errorf("caps %d at %v / %v", i, outerCap.center, innerCap.center)
		}
		if outerCap.radius != s.CapRadius() {
			t.Errorf("cap radius = %v", outerCap.radius)
		}
	}
}

func TestGlowScalesWithLevel(t *testing.T) {
	center := spectrum.Point{X: 5, Y: 5}
	tint := spectrum.RGB{R: 50, G: 200, B: 255}

	var quiet, loud, over fakeCanvas
	Glow(&quiet, center, 100, 20, 0, tint)
	Glow(&loud, center, 100, 20, 1, tint)
	Glow(&over, center, 100, 20, 3, tint)

	if quiet.circles[0].radius != 100 {
		t.Errorf("quiet outer radius = %v", quiet.circles[0].radius)
	}
	if loud.circles[0].radius != 120 {
		t.Errorf("loud outer radius = %v", loud.circles[0].radius)
	}
	if over.circles[0].radius != 120 {
		t.Errorf("level above 1 not clamped: %v", over.circles[0].radius)
	}
	for i := 1; i < len(loud.circles); i++ {
		if loud.circles[i].radius >= loud.circles[i-1].radius {
			t.Errorf("rings not shrinking at %d", i)
		}
	}
}

func TestBackgroundCoversHeight(t *testing.T) {
	var c fakeCanvas
	Background(&c, 40, 30, 1.5)
	if len(c.lines) != 30 {
		t.Fatalf("lines = %d, want 30", len(c.lines))
	}
	for y, l := range c.lines {
		if l.a.Y != float64(y) || l.b.X != 40 {
			t.Errorf("row %d = %+v", y, l)
		}
	}
}
