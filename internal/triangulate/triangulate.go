// Package triangulate turns flat polygon data (points, segments, holes) into
// triangles. Callers depend only on the Func signature: Triangulate wraps
// Triangle and refines under an area bound, Earcut is a cgo-free coarse
// fallback.
package triangulate

import (
	"errors"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// ErrDegenerate is returned when the input has no triangulable area.
var ErrDegenerate = errors.New("degenerate triangulation input")

// DefaultMaxVertices caps refinement output for one polygon.
const DefaultMaxVertices = 1 << 17

// Range is a half-open [Start, End) range of point indices forming one ring.
type Range struct {
	Start, End int
}

// Len returns the number of points in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether point index i belongs to the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Input is the flat polygon description consumed by a backend.
type Input struct {
	Points   []float64 // x, y pairs
	Segments []int     // point index pairs
	Holes    []float64 // one interior x, y pair per entry of Inners
	Outers   []Range
	Inners   []Range
}

// Point returns input point i.
func (in *Input) Point(i int) geometry.Point {
	return geometry.Point{X: in.Points[2*i], Y: in.Points[2*i+1]}
}

// Ring returns the points of a contour range.
func (in *Input) Ring(r Range) []geometry.Point {
	ring := make([]geometry.Point, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		ring = append(ring, in.Point(i))
	}
	return ring
}

// SegmentSplit controls whether refinement may insert vertices on segments.
type SegmentSplit int

// Segment split policies.
const (
	SplitAllowed   SegmentSplit = iota // any segment may be split
	SplitKeepOuter                     // outer contour segments stay intact
	SplitNone                          // no segment may be split
)

// Options configures one triangulation call.
type Options struct {
	// MaxArea bounds every output triangle's area; 0 disables refinement.
	MaxArea      float64
	SegmentSplit SegmentSplit
	// MaxVertices caps refinement; 0 means DefaultMaxVertices.
	MaxVertices int
}

// Result holds output points (x, y pairs) and counter-clockwise triangles.
type Result struct {
	Points    []float64
	Triangles []int
	// Truncated is set when refinement stopped at the vertex cap.
	Truncated bool
}

// PointCount returns the number of output points.
func (r *Result) PointCount() int { return len(r.Points) / 2 }

// Func is the narrow backend boundary used by mesh builders.
type Func func(in *Input, opts Options) (*Result, error)

// pointInRing is parity ray casting over a flat point range.
func pointInRing(p geometry.Point, in *Input, r Range) bool {
	inside := false
	j := r.End - 1
	for i := r.Start; i < r.End; i++ {
		pi, pj := in.Point(i), in.Point(j)
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
