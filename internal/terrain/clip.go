package terrain

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"github.com/Faultbox/terramesh/internal/logger"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// Boolean operations run on integer-snapped coordinates (round(v*scale))
// held in float64 paths, which keeps the clipper's vertex matching exact.
// geom hands results back as Polygonal holding a Polygon.

// snap converts real rings to one clipping polygon. Rings with fewer than
// three distinct snapped points are skipped.
func snap(rings [][]geometry.Point, scale float64) geom.Polygon {
	var poly geom.Polygon
	for _, ring := range rings {
		path := make(geom.Path, 0, len(ring))
		for _, p := range ring {
			sp := geom.Point{X: math.Round(p.X * scale), Y: math.Round(p.Y * scale)}
			if len(path) > 0 && path[len(path)-1] == sp {
				continue
			}
			path = append(path, sp)
		}
		for len(path) > 1 && path[0] == path[len(path)-1] {
			path = path[:len(path)-1]
		}
		if len(path) >= 3 {
			poly = append(poly, path)
		}
	}
	return poly
}

// rectShape returns the snapped tile rectangle.
func rectShape(r geometry.Rectangle, scale float64) geom.Polygon {
	c := r.Corners()
	return snap([][]geometry.Point{c[:]}, scale)
}

// intRings converts a clipping result back to fixed-point rings.
func intRings(poly geom.Polygon) [][]IntPoint {
	rings := make([][]IntPoint, 0, len(poly))
	for _, path := range poly {
		ring := make([]IntPoint, 0, len(path))
		for _, p := range path {
			ring = append(ring, IntPoint{X: int64(math.Round(p.X)), Y: int64(math.Round(p.Y))})
		}
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// union merges b into a; a failing operation keeps a.
func union(a, b geom.Polygon) (res geom.Polygon) {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	defer recoverOp("union", a, &res)
	return a.Union(b).(geom.Polygon)
}

// difference removes b from a; a failing operation keeps a.
func difference(a, b geom.Polygon) (res geom.Polygon) {
	if len(a) == 0 || len(b) == 0 {
		return a
	}
	defer recoverOp("difference", a, &res)
	return a.Difference(b).(geom.Polygon)
}

// intersection clips a to b; a failing operation yields nothing.
func intersection(a, b geom.Polygon) (res geom.Polygon) {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	defer recoverOp("intersection", nil, &res)
	return a.Intersection(b).(geom.Polygon)
}

func recoverOp(op string, fallback geom.Polygon, res *geom.Polygon) {
	if r := recover(); r != nil {
		logger.Named("clip").Warn("boolean operation failed",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.Int("fallback_rings", len(fallback)))
		*res = fallback
	}
}

// unionAll merges every polygon of polys.
func unionAll(polys ...geom.Polygon) geom.Polygon {
	var acc geom.Polygon
	for _, p := range polys {
		acc = union(acc, p)
	}
	return acc
}

// shapeBounds returns the bounding rectangle of a snapped shape as an
// R-tree key. Zero extents are widened to one unit.
func shapeBounds(poly geom.Polygon) (rtreego.Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, path := range poly {
		for _, p := range path {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return rtreego.Rect{}, false
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// ringDepths returns, for every ring, how many other rings enclose it.
// Clipper output rings never cross, so one vertex off the other ring's
// boundary decides containment.
func ringDepths(rings [][]geometry.Point) []int {
	depths := make([]int, len(rings))
	for i, ring := range rings {
		for j, other := range rings {
			if i == j {
				continue
			}
			for _, v := range ring {
				if onRing(v, other) {
					continue
				}
				if PointInPolygon(v, other) {
					depths[i]++
				}
				break
			}
		}
	}
	return depths
}

func onRing(p geometry.Point, ring []geometry.Point) bool {
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if p.Equal(a) {
			return true
		}
		ab := b.Sub(a)
		length := ab.Length()
		if length < geometry.Epsilon {
			continue
		}
		t := p.Sub(a).Dot(ab) / (length * length)
		if t < 0 || t > 1 {
			continue
		}
		if math.Abs(ab.Cross(p.Sub(a)))/length < 1e-7 {
			return true
		}
	}
	return false
}

// orientRing returns ring wound counter-clockwise (outer) or clockwise
// (hole).
func orientRing(ring []geometry.Point, outer bool) []geometry.Point {
	r := toOrbRing(ring)
	want := orb.CCW
	if !outer {
		want = orb.CW
	}
	if r.Orientation() != want {
		r.Reverse()
	}
	out := make([]geometry.Point, len(ring))
	for i := range ring {
		out[i] = geometry.Point{X: r[i][0], Y: r[i][1]}
	}
	return out
}

func toOrbRing(ring []geometry.Point) orb.Ring {
	r := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		r = append(r, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 {
		r = append(r, r[0])
	}
	return r
}

// ringsArea returns the filled area of rings under nesting parity.
func ringsArea(rings [][]geometry.Point) float64 {
	depths := ringDepths(rings)
	total := 0.0
	for i, ring := range rings {
		a := math.Abs(planar.Area(toOrbRing(ring)))
		if depths[i]%2 == 0 {
			total += a
		} else {
			total -= a
		}
	}
	return total
}
