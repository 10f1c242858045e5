package triangulate

import (
	"math"
	"sync"

	"github.com/pradeep-pyro/triangle"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// Triangle keeps process-wide state (random seed, arithmetic error bounds),
// so calls into it are serialized.
var triangleMu sync.Mutex

// The binding prints the area bound with %g and Triangle only reads plain
// decimals, so the bound must stay inside this range.
const (
	minPrintableArea = 1e-4
	maxPrintableArea = 1e6
)

// Triangulate is the default backend, built on Shewchuk's Triangle. It
// computes the constrained Delaunay triangulation of the input segments
// with holes carved out and, when MaxArea > 0, inserts Steiner points until
// no triangle exceeds the bound. SegmentSplit maps onto Triangle's Y and YY
// switches.
//
// Input points keep their indices and exact coordinates in the result.
func Triangulate(in *Input, opts Options) (*Result, error) {
	bounds, err := validate(in)
	if err != nil {
		return nil, err
	}
	n := len(in.Points) / 2

	area := opts.MaxArea
	refine := area > 0 && !math.IsInf(area, 0)
	steiner := 0
	split := triangle.NoSplitting
	if refine {
		limit := opts.MaxVertices
		if limit <= 0 {
			limit = DefaultMaxVertices
		}
		steiner = max(limit-n, 0)
		split = segmentSplitting(opts.SegmentSplit)
	} else {
		// Every triangle fits in the bounding box, so this bound never
		// triggers; zero Steiner points keeps the input vertices only.
		area = bounds.Width() * bounds.Height()
	}
	s := areaScale(area)

	pts := make([][2]float64, n)
	for i := range pts {
		pts[i] = [2]float64{in.Points[2*i] * s, in.Points[2*i+1] * s}
	}
	segs := make([][2]int32, len(in.Segments)/2)
	for i := range segs {
		segs[i] = [2]int32{int32(in.Segments[2*i]), int32(in.Segments[2*i+1])}
	}
	holes := make([][2]float64, len(in.Holes)/2)
	for i := range holes {
		holes[i] = [2]float64{in.Holes[2*i] * s, in.Holes[2*i+1] * s}
	}

	verts, tris := runTriangle(pts, segs, holes, area*s*s, steiner, split)
	if len(tris) == 0 {
		return nil, ErrDegenerate
	}

	res := &Result{
		Points:    make([]float64, 0, 2*len(verts)),
		Triangles: make([]int, 0, 3*len(tris)),
	}
	for i, v := range verts {
		if i < n {
			res.Points = append(res.Points, in.Points[2*i], in.Points[2*i+1])
			continue
		}
		res.Points = append(res.Points, v[0]/s, v[1]/s)
	}
	for _, t := range tris {
		res.Triangles = append(res.Triangles, int(t[0]), int(t[1]), int(t[2]))
	}
	res.Truncated = refine && len(verts)-n >= steiner
	return res, nil
}

// runTriangle feeds one planar straight line graph to Triangle with a
// fixed area bound and no minimum angle.
func runTriangle(pts [][2]float64, segs [][2]int32, holes [][2]float64,
	area float64, steiner int, split triangle.SegmentSplitting) ([][2]float64, [][3]int32) {
	opts := triangle.NewOptions()
	opts.ConformingDelaunay = false
	opts.Angle = 0
	opts.Area = area
	opts.MaxSteinerPoints = steiner
	opts.SegmentSplitting = split

	in := triangle.NewTriangulateIO()
	defer triangle.FreeTriangulateIO(in)
	in.SetPoints(pts)
	in.SetPointMarkers(make([]int32, len(pts)))
	if len(segs) > 0 {
		in.SetSegments(segs)
		in.SetSegmentMarkers(make([]int32, len(segs)))
	}
	if len(holes) > 0 {
		in.SetHoles(holes)
	}

	triangleMu.Lock()
	out := triangle.Triangulate(in, opts, false)
	triangleMu.Unlock()
	defer triangle.FreeTriangulateIO(out)

	if out.NumberOfTriangles() == 0 || out.NumberOfPoints() == 0 {
		return nil, nil
	}
	return out.Points(), out.Triangles()
}

func segmentSplitting(s SegmentSplit) triangle.SegmentSplitting {
	switch s {
	case SplitKeepOuter:
		return triangle.NoSplittingInBoundary
	case SplitNone:
		return triangle.NoSplitting
	default:
		return triangle.SplittingAllowed
	}
}

// areaScale returns a power of ten s for which area*s*s prints as a plain
// decimal. Bounds already in range keep s = 1 so coordinates pass through
// untouched.
func areaScale(area float64) float64 {
	s := 1.0
	for area*s*s < minPrintableArea {
		s *= 10
	}
	for area*s*s >= maxPrintableArea {
		s /= 10
	}
	return s
}

// validate rejects inputs Triangle cannot take. Triangle aborts the process
// on some malformed input instead of returning an error.
func validate(in *Input) (geometry.Rectangle, error) {
	if len(in.Points) < 6 || len(in.Points)%2 != 0 || len(in.Outers) == 0 ||
		len(in.Segments)%2 != 0 || len(in.Holes)%2 != 0 {
		return geometry.Rectangle{}, ErrDegenerate
	}
	n := len(in.Points) / 2
	for _, idx := range in.Segments {
		if idx < 0 || idx >= n {
			return geometry.Rectangle{}, ErrDegenerate
		}
	}

	bounds := geometry.EmptyRectangle()
	for i := range n {
		p := in.Point(i)
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return geometry.Rectangle{}, ErrDegenerate
		}
		bounds.Expand(p)
	}
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return geometry.Rectangle{}, ErrDegenerate
	}
	return bounds, nil
}
