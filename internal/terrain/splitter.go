package terrain

import (
	"math"
	"sort"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// IntPoint is a point in the fixed-point coordinate space used by clipping.
type IntPoint struct {
	X, Y int64
}

// LineGridSplitter inserts a vertex wherever a segment crosses the grid
// x = k*step or y = k*step, so neighbouring tiles agree on seam vertices.
type LineGridSplitter struct {
	scale float64
	step  float64
}

// NewLineGridSplitter creates a splitter. Integer coordinates are divided by
// scale; grid lines lie at integer multiples of step in real space.
func NewLineGridSplitter(scale, step float64) *LineGridSplitter {
	return &LineGridSplitter{scale: scale, step: step}
}

// Scale returns the fixed-point scale.
func (s *LineGridSplitter) Scale() float64 { return s.scale }

// Step returns the grid step.
func (s *LineGridSplitter) Step() float64 { return s.step }

// ToReal converts a fixed-point point to real coordinates.
func (s *LineGridSplitter) ToReal(p IntPoint) geometry.Point {
	return geometry.Point{X: float64(p.X) / s.scale, Y: float64(p.Y) / s.scale}
}

// Split returns the points from start to end inclusive with grid crossings
// injected. Split(a, b) is always the exact reverse of Split(b, a).
func (s *LineGridSplitter) Split(start, end IntPoint) []geometry.Point {
	if end.X < start.X || (end.X == start.X && end.Y < start.Y) {
		points := s.split(end, start)
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
		return points
	}
	return s.split(start, end)
}

type crossing struct {
	t float64
	p geometry.Point
}

func (s *LineGridSplitter) split(a, b IntPoint) []geometry.Point {
	p0, p1 := s.ToReal(a), s.ToReal(b)
	if p0.Equal(p1) {
		return []geometry.Point{p0, p1}
	}
	if s.step <= 0 {
		return []geometry.Point{p0, p1}
	}

	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	var crossings []crossing

	// Horizontal segments only step x, vertical ones only step y.
	if math.Abs(dx) > geometry.Epsilon {
		for _, x := range s.gridValues(p0.X, p1.X) {
			t := (x - p0.X) / dx
			y := p0.Y
			if math.Abs(dy) > geometry.Epsilon {
				y = p0.Y + t*dy
			}
			crossings = append(crossings, crossing{t, geometry.Point{X: x, Y: y}})
		}
	}
	if math.Abs(dy) > geometry.Epsilon {
		for _, y := range s.gridValues(p0.Y, p1.Y) {
			t := (y - p0.Y) / dy
			x := p0.X
			if math.Abs(dx) > geometry.Epsilon {
				x = p0.X + t*dx
			}
			crossings = append(crossings, crossing{t, geometry.Point{X: x, Y: y}})
		}
	}

	sort.SliceStable(crossings, func(i, j int) bool { return crossings[i].t < crossings[j].t })

	points := make([]geometry.Point, 0, len(crossings)+2)
	points = append(points, p0)
	for _, c := range crossings {
		if !c.p.Equal(points[len(points)-1]) {
			points = append(points, c.p)
		}
	}
	if points[len(points)-1].Equal(p1) && len(points) > 1 {
		points[len(points)-1] = p1
	} else {
		points = append(points, p1)
	}
	return points
}

// gridValues returns the grid coordinates strictly between from and to.
func (s *LineGridSplitter) gridValues(from, to float64) []float64 {
	lo, hi := math.Min(from, to), math.Max(from, to)
	kMin := int64(math.Ceil(lo / s.step))
	kMax := int64(math.Floor(hi / s.step))

	var values []float64
	for k := kMin; k <= kMax; k++ {
		v := float64(k) * s.step
		if v <= lo+geometry.Epsilon || v >= hi-geometry.Epsilon {
			continue
		}
		values = append(values, v)
	}
	return values
}
