package triangulate

import (
	"math"

	"github.com/rclancey/earcut"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// Earcut ear-clips every outer contour together with the holes it owns. It
// needs no cgo but never adds Steiner points, so MaxArea and SegmentSplit
// are ignored. Triangles are returned counter-clockwise and index the
// input points.
func Earcut(in *Input, _ Options) (*Result, error) {
	if len(in.Points) < 6 || len(in.Outers) == 0 {
		return nil, ErrDegenerate
	}

	owned := assignHoles(in)

	var tris []int
	for o, outer := range in.Outers {
		if outer.Len() < 3 {
			continue
		}

		var coords []float64
		var global []int
		var holeIndices []int
		appendRing := func(r Range) {
			for i := r.Start; i < r.End; i++ {
				coords = append(coords, in.Points[2*i], in.Points[2*i+1])
				global = append(global, i)
			}
		}

		appendRing(outer)
		for _, hole := range owned[o] {
			if hole.Len() < 3 {
				continue
			}
			holeIndices = append(holeIndices, len(global))
			appendRing(hole)
		}

		local, err := earcut.Earcut(coords, holeIndices, 2)
		if err != nil || len(local)%3 != 0 {
			continue
		}
		for i := 0; i < len(local); i += 3 {
			a, b, c := global[local[i]], global[local[i+1]], global[local[i+2]]
			if orient(in.Point(a), in.Point(b), in.Point(c)) < 0 {
				b, c = c, b
			}
			tris = append(tris, a, b, c)
		}
	}

	if len(tris) == 0 {
		return nil, ErrDegenerate
	}
	points := make([]float64, len(in.Points))
	copy(points, in.Points)
	return &Result{Points: points, Triangles: tris}, nil
}

// assignHoles gives every hole to the smallest outer containing one of the
// hole's own vertices. An island nested inside a hole is smaller than the
// outer around the hole but does not contain the hole's vertices.
func assignHoles(in *Input) [][]Range {
	areas := make([]float64, len(in.Outers))
	for o, outer := range in.Outers {
		areas[o] = math.Abs(geometry.SignedArea(in.Ring(outer)))
	}

	owned := make([][]Range, len(in.Outers))
	for _, inner := range in.Inners {
		best := -1
		for o, outer := range in.Outers {
			if best >= 0 && areas[o] >= areas[best] {
				continue
			}
			if ringEncloses(in, outer, inner) {
				best = o
			}
		}
		if best >= 0 {
			owned[best] = append(owned[best], inner)
		}
	}
	return owned
}

// ringEncloses decides containment of inner in outer by the first inner
// vertex that is not also an outer vertex.
func ringEncloses(in *Input, outer, inner Range) bool {
	for i := inner.Start; i < inner.End; i++ {
		p := in.Point(i)
		if onRange(p, in, outer) {
			continue
		}
		return pointInRing(p, in, outer)
	}
	return false
}

func onRange(p geometry.Point, in *Input, r Range) bool {
	for i := r.Start; i < r.End; i++ {
		if p.Equal(in.Point(i)) {
			return true
		}
	}
	return false
}

// orient is twice the signed area of (a, b, c); positive when counter-clockwise.
func orient(a, b, c geometry.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
