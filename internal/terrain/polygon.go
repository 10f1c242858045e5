package terrain

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/terramesh/internal/logger"
	"github.com/Faultbox/terramesh/internal/triangulate"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// interiorSteps is the number of shrinking perpendicular offsets tried per
// edge when looking for a hole's interior point. Each offset is tried on
// both sides of the edge.
const interiorSteps = 4

// Polygon accumulates outer contours and holes into the flat layout a
// triangulation backend consumes. Contours never repeat their first point.
type Polygon struct {
	Points   []float64
	Holes    []float64
	Segments []int
	Outers   []triangulate.Range
	Inners   []triangulate.Range
	Bounds   geometry.Rectangle

	log *zap.Logger
}

// NewPolygon creates an empty polygon.
func NewPolygon() *Polygon {
	return &Polygon{
		Bounds: geometry.EmptyRectangle(),
		log:    logger.Named("polygon"),
	}
}

// IsEmpty reports whether no outer contour was accepted.
func (p *Polygon) IsEmpty() bool {
	return len(p.Outers) == 0
}

// PointCount returns the number of stored points.
func (p *Polygon) PointCount() int {
	return len(p.Points) / 2
}

// AddContour adds an outer ring. It returns false when the ring has fewer
// than three distinct points or no area.
func (p *Polygon) AddContour(points []geometry.Point) bool {
	ring := normalizeRing(points)
	if ring == nil {
		return false
	}
	p.Outers = append(p.Outers, p.addRing(ring))
	return true
}

// AddHole adds a hole ring together with a point strictly inside it. The
// point is kept off every contour already added inside the hole, so add
// islands before the holes around them. Holes without a locatable interior
// point are dropped.
func (p *Polygon) AddHole(points []geometry.Point) bool {
	ring := normalizeRing(points)
	if ring == nil {
		return false
	}
	inside, ok := InteriorPoint(ring, p.islands(ring)...)
	if !ok {
		p.log.Warn("hole dropped", zap.Int("points", len(ring)))
		return false
	}
	p.Inners = append(p.Inners, p.addRing(ring))
	p.Holes = append(p.Holes, inside.X, inside.Y)
	return true
}

// OuterCentroid returns the vertex centroid of outer contour i.
func (p *Polygon) OuterCentroid(i int) geometry.Point {
	return geometry.Centroid(p.Input().Ring(p.Outers[i]))
}

// Input exposes the polygon to a triangulation backend.
func (p *Polygon) Input() *triangulate.Input {
	return &triangulate.Input{
		Points:   p.Points,
		Segments: p.Segments,
		Holes:    p.Holes,
		Outers:   p.Outers,
		Inners:   p.Inners,
	}
}

// islands returns the outer contours lying inside hole.
func (p *Polygon) islands(hole []geometry.Point) [][]geometry.Point {
	in := p.Input()
	var nested [][]geometry.Point
	for _, r := range p.Outers {
		outer := in.Ring(r)
		for _, v := range outer {
			if onRing(v, hole) {
				continue
			}
			if PointInPolygon(v, hole) {
				nested = append(nested, outer)
			}
			break
		}
	}
	return nested
}

func (p *Polygon) addRing(ring []geometry.Point) triangulate.Range {
	offset := p.PointCount()
	for i, pt := range ring {
		p.Points = append(p.Points, pt.X, pt.Y)
		p.Segments = append(p.Segments, offset+i, offset+(i+1)%len(ring))
	}
	p.Bounds.Expand(ring...)
	return triangulate.Range{Start: offset, End: offset + len(ring)}
}

// normalizeRing drops the closing duplicate and repeated consecutive points.
// It returns nil for rings that cannot bound an area.
func normalizeRing(points []geometry.Point) []geometry.Point {
	ring := make([]geometry.Point, 0, len(points))
	for _, pt := range points {
		if len(ring) > 0 && pt.Equal(ring[len(ring)-1]) {
			continue
		}
		ring = append(ring, pt)
	}
	for len(ring) > 1 && ring[0].Equal(ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 || math.Abs(geometry.SignedArea(ring)) < geometry.Epsilon*geometry.Epsilon {
		return nil
	}
	return ring
}

// PointInPolygon is a parity ray cast. An edge counts only when its
// endpoints straddle p.Y with one strictly above and one at or below, so
// shared vertices are never counted twice.
func PointInPolygon(p geometry.Point, ring []geometry.Point) bool {
	inside := false
	j := len(ring) - 1
	for i := range ring {
		pi, pj := ring[i], ring[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// InteriorPoint finds a point strictly inside ring and outside every avoid
// ring. Triangles try their centroid first; other rings are sampled
// perpendicular to each edge midpoint.
func InteriorPoint(ring []geometry.Point, avoid ...[]geometry.Point) (geometry.Point, bool) {
	if len(ring) < 3 {
		return geometry.Point{}, false
	}
	if math.Abs(geometry.SignedArea(ring)) < geometry.Epsilon*geometry.Epsilon {
		return geometry.Point{}, false
	}
	accept := func(c geometry.Point) bool {
		for _, a := range avoid {
			if PointInPolygon(c, a) || onRing(c, a) {
				return false
			}
		}
		return true
	}
	if len(ring) == 3 {
		if c := geometry.Centroid(ring); accept(c) {
			return c, true
		}
	}

	bounds := geometry.EmptyRectangle()
	bounds.Expand(ring...)
	extent := math.Min(bounds.Width(), bounds.Height())

	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		edge := b.Sub(a)
		length := edge.Length()
		if length < geometry.Epsilon {
			continue
		}
		mid := a.Add(b).Scale(0.5)
		normal := geometry.Point{X: -edge.Y, Y: edge.X}.Scale(1 / length)

		dist := math.Min(length, extent) / 2
		for range interiorSteps {
			for _, side := range [2]float64{1, -1} {
				candidate := mid.Add(normal.Scale(dist * side))
				if bounds.ContainsStrict(candidate) && PointInPolygon(candidate, ring) && accept(candidate) {
					return candidate, true
				}
			}
			dist /= 4
		}
	}
	return geometry.Point{}, false
}
