// Package geometry provides planar primitives shared by the terrain pipeline.
package geometry

import "math"

// Epsilon is the tolerance used for approximate point equality.
const Epsilon = 1e-9

// Point is a 2D point in the local planar projection (longitude, latitude).
type Point struct {
	X, Y float64
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dot returns the dot product.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Cross returns the z component of the 3D cross product.
func (p Point) Cross(other Point) float64 {
	return p.X*other.Y - p.Y*other.X
}

// Length returns the magnitude.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns a unit vector.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Distance returns the distance to another point.
func (p Point) Distance(other Point) float64 {
	return p.Sub(other).Length()
}

// Equal reports whether both coordinates differ by less than Epsilon.
func (p Point) Equal(other Point) bool {
	return math.Abs(p.X-other.X) < Epsilon && math.Abs(p.Y-other.Y) < Epsilon
}

// SignedArea returns the shoelace area of a ring. Counter-clockwise rings are positive.
func SignedArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		a, b := ring[i], ring[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Centroid returns the arithmetic mean of the points.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(points)))
}
