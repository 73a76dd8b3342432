package spectrum

import "math"

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// Geometry sizes the ring, in surface units.
type Geometry struct {
	Radius    float64 // inner radius where every bar starts
	MinHeight float64 // length of a bar at level 0
	MaxHeight float64 // extra length per unit of level
	Thickness float64 // stroke width; caps use half of it as radius
}

// DefaultGeometry returns the stock ring dimensions.
func DefaultGeometry() Geometry {
	return Geometry{
		Radius:    150,
		MinHeight: 10,
		MaxHeight: 160,
		Thickness: 7,
	}
}

// Segment is one bar ready to draw: a thick line from Inner to Outer with round caps.
type Segment struct {
	Inner     Point
	Outer     Point
	Color     RGB
	Thickness float64
}

// CapRadius is the radius of the round caps at both ends, half the thickness rounded down
// so odd widths get caps a pixel narrower than the stroke.
func (s Segment) CapRadius() float64 {
	return math.Floor(s.Thickness / 2)
}

// Center returns the ring center.
func (a *Animator) Center() Point { return a.center }

// Geometry returns the ring dimensions.
func (a *Animator) Geometry() Geometry { return a.geometry }

// Segments appends one Segment per bar to dst[:0] and returns it. Bar 0 points straight up
// before rotation and bars advance clockwise in screen coordinates.
func (a *Animator) Segments(dst []Segment) []Segment {
	dst = dst[:0]
	n := float64(len(a.bars))
	g := a.geometry

	for i, b := range a.bars {
		theta := float64(i)/n*2*math.Pi - math.Pi/2 + a.rotation
		cos, sin := math.Cos(theta), math.Sin(theta)
		outer := g.Radius + g.MinHeight + b.level*g.MaxHeight

		dst = append(dst, Segment{
			Inner:     Point{X: a.center.X + cos*g.Radius, Y: a.center.Y + sin*g.Radius},
			Outer:     Point{X: a.center.X + cos*outer, Y: a.center.Y + sin*outer},
			Color:     b.color,
			Thickness: g.Thickness,
		})
	}
	return dst
}
