package geometry

import "math"

// Rectangle is an axis-aligned bounding rectangle.
type Rectangle struct {
	XMin, YMin, XMax, YMax float64
}

// NewRectangle creates a rectangle from its bounds.
func NewRectangle(xMin, yMin, xMax, yMax float64) Rectangle {
	return Rectangle{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
}

// EmptyRectangle returns an inverted rectangle which any Expand call will fix.
func EmptyRectangle() Rectangle {
	return Rectangle{
		XMin: math.Inf(1), YMin: math.Inf(1),
		XMax: math.Inf(-1), YMax: math.Inf(-1),
	}
}

// IsEmpty reports whether the rectangle covers no point at all.
func (r Rectangle) IsEmpty() bool {
	return r.XMin > r.XMax || r.YMin > r.YMax
}

// Expand grows the rectangle to cover the given points.
func (r *Rectangle) Expand(points ...Point) {
	for _, p := range points {
		r.XMin = math.Min(r.XMin, p.X)
		r.YMin = math.Min(r.YMin, p.Y)
		r.XMax = math.Max(r.XMax, p.X)
		r.YMax = math.Max(r.YMax, p.Y)
	}
}

// Contains reports whether p lies inside or on the border.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax && p.Y >= r.YMin && p.Y <= r.YMax
}

// ContainsStrict reports whether p lies inside and not on the border.
func (r Rectangle) ContainsStrict(p Point) bool {
	return r.Contains(p) && !r.OnBorder(p)
}

// OnBorder reports whether p lies on one of the four boundary lines
// within the rectangle extent.
func (r Rectangle) OnBorder(p Point) bool {
	if p.X < r.XMin-Epsilon || p.X > r.XMax+Epsilon || p.Y < r.YMin-Epsilon || p.Y > r.YMax+Epsilon {
		return false
	}
	for _, l := range r.Borders() {
		if l.Contains(p) {
			return true
		}
	}
	return false
}

// Borders returns the left, bottom, right and top boundary lines.
func (r Rectangle) Borders() [4]Line {
	c := r.Corners()
	return [4]Line{
		NewLine(c[3], c[0]),
		NewLine(c[0], c[1]),
		NewLine(c[1], c[2]),
		NewLine(c[2], c[3]),
	}
}

// Corners returns the corners in counter-clockwise order starting at (XMin, YMin).
func (r Rectangle) Corners() [4]Point {
	return [4]Point{
		{r.XMin, r.YMin},
		{r.XMax, r.YMin},
		{r.XMax, r.YMax},
		{r.XMin, r.YMax},
	}
}

// Intersects reports whether two rectangles overlap (touching counts).
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.XMin <= o.XMax && o.XMin <= r.XMax && r.YMin <= o.YMax && o.YMin <= r.YMax
}

// Width returns the horizontal extent.
func (r Rectangle) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical extent.
func (r Rectangle) Height() float64 { return r.YMax - r.YMin }

// Area returns Width * Height, or 0 for an empty rectangle.
func (r Rectangle) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Center returns the midpoint.
func (r Rectangle) Center() Point {
	return Point{(r.XMin + r.XMax) / 2, (r.YMin + r.YMax) / 2}
}
