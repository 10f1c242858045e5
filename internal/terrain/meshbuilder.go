package terrain

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terramesh/internal/elevation"
	"github.com/Faultbox/terramesh/internal/gradient"
	"github.com/Faultbox/terramesh/internal/logger"
	"github.com/Faultbox/terramesh/internal/mesh"
	"github.com/Faultbox/terramesh/internal/noise"
	"github.com/Faultbox/terramesh/internal/triangulate"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// defaultColor is used when no gradient is configured.
const defaultColor uint32 = 0xffffffff

// MeshOptions configures one polygon or plane contribution.
type MeshOptions struct {
	// Area is the maximum triangle area; 0 keeps the coarse triangulation.
	Area           float64
	EleNoiseFreq   float64
	ColorNoiseFreq float64
	// HeightOffset lifts every vertex above the sampled elevation.
	HeightOffset float64
	// Elevation replaces the provider sample when FixedElevation is set.
	Elevation      float64
	FixedElevation bool
	Gradient       *gradient.Gradient
	SegmentSplit   triangulate.SegmentSplit
}

// MeshBuilder turns polygons and wall planes into colored 3D triangles.
// It holds only read-only collaborators.
type MeshBuilder struct {
	provider elevation.Provider
	backend  triangulate.Func
	log      *zap.Logger
}

// NewMeshBuilder creates a builder. A nil provider means flat terrain at 0,
// a nil backend means triangulate.Triangulate.
func NewMeshBuilder(provider elevation.Provider, backend triangulate.Func) *MeshBuilder {
	if provider == nil {
		provider = elevation.Flat{}
	}
	if backend == nil {
		backend = triangulate.Triangulate
	}
	return &MeshBuilder{
		provider: provider,
		backend:  backend,
		log:      logger.Named("meshbuilder"),
	}
}

// AddPolygon triangulates p and appends the result to m. Backend failures
// add nothing.
func (b *MeshBuilder) AddPolygon(m *mesh.Mesh, p *Polygon, opts MeshOptions) {
	if p.IsEmpty() {
		return
	}

	res, err := b.backend(p.Input(), triangulate.Options{
		MaxArea:      opts.Area,
		SegmentSplit: opts.SegmentSplit,
	})
	if err != nil {
		b.log.Warn("triangulation failed",
			zap.Error(err),
			zap.Int("points", p.PointCount()),
			zap.Int("holes", len(p.Inners)))
		return
	}
	if res.Truncated {
		b.log.Warn("refinement stopped at vertex limit",
			zap.Int("points", res.PointCount()),
			zap.Float64("area", opts.Area))
	}

	offset := m.VertexCount()
	for i := range res.PointCount() {
		x, y := res.Points[2*i], res.Points[2*i+1]
		ele := b.sample(x, y, b.baseElevation(x, y, opts), opts)
		m.AddVertex(x, y, ele+opts.HeightOffset, b.color(x, y, ele, opts))
	}
	for i := 0; i+2 < len(res.Triangles); i += 3 {
		m.AddTriangle(offset+res.Triangles[i+1], offset+res.Triangles[i], offset+res.Triangles[i+2])
	}
}

// AddPlane appends a vertical quad between p1 and p2 rising HeightOffset
// above the sampled terrain.
func (b *MeshBuilder) AddPlane(m *mesh.Mesh, p1, p2 geometry.Point, opts MeshOptions) {
	b.AddPlaneWithElevation(m, p1, p2,
		b.baseElevation(p1.X, p1.Y, opts),
		b.baseElevation(p2.X, p2.Y, opts),
		opts)
}

// AddPlaneWithElevation is AddPlane with caller supplied base elevations.
// Each endpoint is colored on its own; colors are not blended across the quad.
func (b *MeshBuilder) AddPlaneWithElevation(m *mesh.Mesh, p1, p2 geometry.Point, ele1, ele2 float64, opts MeshOptions) {
	ele1 = b.sample(p1.X, p1.Y, ele1, opts)
	ele2 = b.sample(p2.X, p2.Y, ele2, opts)
	c1 := b.color(p1.X, p1.Y, ele1, opts)
	c2 := b.color(p2.X, p2.Y, ele2, opts)

	i0 := m.AddVertex(p1.X, p1.Y, ele1, c1)
	i1 := m.AddVertex(p2.X, p2.Y, ele2, c2)
	i2 := m.AddVertex(p2.X, p2.Y, ele2+opts.HeightOffset, c2)
	i3 := m.AddVertex(p1.X, p1.Y, ele1+opts.HeightOffset, c1)

	m.AddTriangle(i0, i2, i1)
	m.AddTriangle(i0, i3, i2)
}

func (b *MeshBuilder) baseElevation(x, y float64, opts MeshOptions) float64 {
	if opts.FixedElevation {
		return opts.Elevation
	}
	return b.provider.Elevation(x, y)
}

// sample perturbs a base elevation with the elevation noise channel.
func (b *MeshBuilder) sample(x, y, ele float64, opts MeshOptions) float64 {
	return ele + noise.Elevation(x, ele, y, opts.EleNoiseFreq)
}

func (b *MeshBuilder) color(x, y, ele float64, opts MeshOptions) uint32 {
	if opts.Gradient == nil {
		return defaultColor
	}
	return opts.Gradient.Evaluate(noise.ColorTime(x, ele, y, opts.ColorNoiseFreq))
}
