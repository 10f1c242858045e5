package geometry

import "math"

// Line is an infinite line in general form A*x + B*y + C = 0.
type Line struct {
	A, B, C float64
}

// NewLine returns the line passing through p1 and p2.
func NewLine(p1, p2 Point) Line {
	a := p2.Y - p1.Y
	b := p1.X - p2.X
	return Line{A: a, B: b, C: -(a*p1.X + b*p1.Y)}
}

// Intersection returns the crossing point of two lines.
// Parallel (or coincident) lines report false instead of producing NaN.
func (l Line) Intersection(other Line) (Point, bool) {
	det := l.A*other.B - other.A*l.B
	if math.Abs(det) < Epsilon {
		return Point{}, false
	}
	return Point{
		X: (l.B*other.C - other.B*l.C) / det,
		Y: (other.A*l.C - l.A*other.C) / det,
	}, true
}

// Distance returns the perpendicular distance from p to the line.
func (l Line) Distance(p Point) float64 {
	n := math.Hypot(l.A, l.B)
	if n == 0 {
		return math.Inf(1)
	}
	return math.Abs(l.A*p.X+l.B*p.Y+l.C) / n
}

// Contains reports whether p lies on the line within Epsilon.
func (l Line) Contains(p Point) bool {
	return l.Distance(p) < Epsilon
}
