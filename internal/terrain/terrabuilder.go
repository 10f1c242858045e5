package terrain

import (
	"errors"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/dhconnelly/rtreego"
	"go.uber.org/zap"

	"github.com/Faultbox/terramesh/internal/logger"
	"github.com/Faultbox/terramesh/internal/mesh"
	"github.com/Faultbox/terramesh/internal/tile"
	"github.com/Faultbox/terramesh/internal/triangulate"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// DefaultScale is the fixed-point factor used for clipping, 1e-7 degrees.
const DefaultScale = 1e7

// TerraBuilder errors.
var (
	ErrUnsupportedLOD = errors.New("unsupported level of detail")
	ErrAlreadyBuilt   = errors.New("tile already built")
)

// BuilderConfig configures one tile build.
type BuilderConfig struct {
	QuadKey tile.QuadKey
	// Bounds overrides the quadkey bounds when non-zero.
	Bounds     geometry.Rectangle
	Scale      float64
	GridSteps  LODTable
	Background Properties
	MeshName   string
}

// Layer kinds in priority order.
const (
	LayerWater      = "water"
	LayerCarRoad    = "car_road"
	LayerWalkRoad   = "walk_road"
	LayerSurface    = "surface"
	LayerBackground = "background"
)

// layer is one clipped shape set and the properties it is meshed with.
type layer struct {
	kind  string
	shape geom.Polygon
	props Properties
}

type roadGroups struct {
	widths  []float64
	regions map[float64][]Region
}

func (g *roadGroups) add(r Region, width float64) {
	if g.regions == nil {
		g.regions = make(map[float64][]Region)
	}
	if _, ok := g.regions[width]; !ok {
		g.widths = append(g.widths, width)
	}
	g.regions[width] = append(g.regions[width], r)
}

func (g *roadGroups) first() (Properties, bool) {
	if len(g.widths) == 0 {
		return Properties{}, false
	}
	return g.regions[g.widths[0]][0].Properties, true
}

type surfaceGroup struct {
	key     string
	regions []Region
}

// surfaceItem indexes an emitted surface shape in the R-tree.
type surfaceItem struct {
	rect  rtreego.Rect
	shape geom.Polygon
}

func (s *surfaceItem) Bounds() rtreego.Rect { return s.rect }

// TerraBuilder composes the layers of one tile into a single mesh. It is
// single-use: collect regions, then call Build once.
type TerraBuilder struct {
	cfg      BuilderConfig
	bounds   geometry.Rectangle
	mb       *MeshBuilder
	onBuilt  func(*mesh.Mesh)
	splitter *LineGridSplitter
	log      *zap.Logger

	water     []Region
	carRoads  roadGroups
	walkRoads roadGroups
	surfaces  []*surfaceGroup
	surfaceAt map[string]int

	built bool
}

// NewTerraBuilder creates a builder for cfg. onBuilt receives the finished
// mesh exactly once.
func NewTerraBuilder(cfg BuilderConfig, mb *MeshBuilder, onBuilt func(*mesh.Mesh)) *TerraBuilder {
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.GridSteps == nil {
		cfg.GridSteps = DefaultLODTable()
	}
	if mb == nil {
		mb = NewMeshBuilder(nil, nil)
	}
	bounds := cfg.Bounds
	if bounds == (geometry.Rectangle{}) {
		bounds = cfg.QuadKey.Bounds()
	}
	return &TerraBuilder{
		cfg:       cfg,
		bounds:    bounds,
		mb:        mb,
		onBuilt:   onBuilt,
		surfaceAt: make(map[string]int),
		log:       logger.Named("terrabuilder").With(zap.String("quadkey", cfg.QuadKey.String())),
	}
}

// Bounds returns the tile rectangle.
func (b *TerraBuilder) Bounds() geometry.Rectangle {
	return b.bounds
}

// AddWater adds a water area. All water regions merge into one shape.
func (b *TerraBuilder) AddWater(r Region) {
	b.water = append(b.water, r)
}

// AddCarRoad adds road center lines stroked with width.
func (b *TerraBuilder) AddCarRoad(r Region, width float64) {
	b.carRoads.add(r, width)
}

// AddWalkRoad adds footway center lines stroked with width.
func (b *TerraBuilder) AddWalkRoad(r Region, width float64) {
	b.walkRoads.add(r, width)
}

// AddSurface adds a surface area. Surfaces are grouped by gradient key and
// groups are drawn in first-seen order; an earlier group wins overlaps.
func (b *TerraBuilder) AddSurface(r Region) {
	key := r.Properties.GradientKey
	i, ok := b.surfaceAt[key]
	if !ok {
		i = len(b.surfaces)
		b.surfaceAt[key] = i
		b.surfaces = append(b.surfaces, &surfaceGroup{key: key})
	}
	b.surfaces[i].regions = append(b.surfaces[i].regions, r)
}

// Build composes all layers, meshes them and hands the mesh to the
// callback. Only an unsupported level of detail fails the build.
func (b *TerraBuilder) Build() error {
	if b.built {
		return ErrAlreadyBuilt
	}

	layers, err := b.buildLayers()
	if err != nil {
		return err
	}
	b.built = true

	m := mesh.New(b.cfg.MeshName)
	for _, l := range layers {
		b.populate(m, l)
	}

	b.log.Info("tile built",
		zap.Int("layers", len(layers)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()))

	if b.onBuilt != nil {
		b.onBuilt(m)
	}
	return nil
}

// buildLayers runs the boolean composition and returns the non-empty layers
// in priority order.
func (b *TerraBuilder) buildLayers() ([]layer, error) {
	lod := b.cfg.QuadKey.LevelOfDetail
	step, ok := b.cfg.GridSteps.Step(lod)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLOD, lod)
	}
	b.splitter = NewLineGridSplitter(b.cfg.Scale, step)

	tileShape := rectShape(b.bounds, b.cfg.Scale)
	var layers []layer

	water := intersection(b.unionRegions(b.water), tileShape)
	if len(b.water) > 0 {
		layers = append(layers, layer{LayerWater, water, b.water[0].Properties})
	}

	car := intersection(b.bufferRoads(&b.carRoads), tileShape)
	walk := intersection(b.bufferRoads(&b.walkRoads), tileShape)
	walk = difference(walk, car)
	car = difference(car, water)
	walk = difference(walk, water)
	if props, ok := b.carRoads.first(); ok {
		layers = append(layers, layer{LayerCarRoad, car, props})
	}
	if props, ok := b.walkRoads.first(); ok {
		layers = append(layers, layer{LayerWalkRoad, walk, props})
	}

	occupied := unionAll(water, car, walk)
	tree := rtreego.NewTree(2, 25, 50)
	var surfaces geom.Polygon
	for _, g := range b.surfaces {
		shape := intersection(b.unionRegions(g.regions), tileShape)
		shape = difference(shape, occupied)
		if rect, ok := shapeBounds(shape); ok {
			for _, hit := range tree.SearchIntersect(rect) {
				shape = difference(shape, hit.(*surfaceItem).shape)
			}
		}
		rect, ok := shapeBounds(shape)
		if !ok {
			b.log.Debug("surface fully covered", zap.String("gradient", g.key))
			continue
		}
		tree.Insert(&surfaceItem{rect: rect, shape: shape})
		surfaces = union(surfaces, shape)
		layers = append(layers, layer{LayerSurface, shape, g.regions[0].Properties})
	}

	background := difference(tileShape, union(occupied, surfaces))
	bg := b.cfg.Background
	bg.HeightOffset = 0
	layers = append(layers, layer{LayerBackground, background, bg})

	nonEmpty := layers[:0]
	for _, l := range layers {
		if len(l.shape) > 0 {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return nonEmpty, nil
}

// unionRegions merges regions; holes are removed from their own region.
func (b *TerraBuilder) unionRegions(regions []Region) geom.Polygon {
	var acc geom.Polygon
	for _, r := range regions {
		var outer geom.Polygon
		for _, ring := range r.Outers {
			outer = union(outer, snap([][]geometry.Point{ring}, b.cfg.Scale))
		}
		for _, hole := range r.Holes {
			outer = difference(outer, snap([][]geometry.Point{hole}, b.cfg.Scale))
		}
		acc = union(acc, outer)
	}
	return acc
}

// bufferRoads strokes every width group and unions the results.
func (b *TerraBuilder) bufferRoads(g *roadGroups) geom.Polygon {
	var acc geom.Polygon
	for _, width := range g.widths {
		var paths [][]geometry.Point
		for _, r := range g.regions[width] {
			paths = append(paths, r.Outers...)
		}
		acc = union(acc, bufferPaths(paths, width, b.cfg.Scale))
	}
	return acc
}

// restoreRings converts a clipped shape back to real coordinates, walking
// every edge through the splitter so tile seams get grid vertices.
func (b *TerraBuilder) restoreRings(shape geom.Polygon) [][]geometry.Point {
	var rings [][]geometry.Point
	for _, ir := range intRings(shape) {
		var ring []geometry.Point
		for i := range ir {
			points := b.splitter.Split(ir[i], ir[(i+1)%len(ir)])
			for _, p := range points[:len(points)-1] {
				if len(ring) == 0 || !p.Equal(ring[len(ring)-1]) {
					ring = append(ring, p)
				}
			}
		}
		if len(ring) > 1 && ring[0].Equal(ring[len(ring)-1]) {
			ring = ring[:len(ring)-1]
		}
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// populate meshes one layer into m.
func (b *TerraBuilder) populate(m *mesh.Mesh, l layer) {
	rings := b.restoreRings(l.shape)
	depths := ringDepths(rings)

	opts := l.props.meshOptions()
	opts.SegmentSplit = triangulate.SplitNone

	// Outers go first so hole points can avoid islands inside the holes.
	poly := NewPolygon()
	var contours, holes [][]geometry.Point
	for i, ring := range rings {
		if depths[i]%2 != 0 {
			holes = append(holes, orientRing(ring, false))
			continue
		}
		ring = orientRing(ring, true)
		if poly.AddContour(ring) {
			contours = append(contours, ring)
		}
	}
	for _, hole := range holes {
		poly.AddHole(hole)
	}

	before := m.VertexCount()
	b.mb.AddPolygon(m, poly, opts)

	walls := 0
	if opts.HeightOffset > 0 {
		for _, ring := range rings {
			for i := range ring {
				p, q := ring[i], ring[(i+1)%len(ring)]
				if b.onSeam(p, q) {
					continue
				}
				b.mb.AddPlane(m, p, q, opts)
				walls++
			}
		}
	}
	if l.props.SideEffect != nil {
		for _, c := range contours {
			l.props.SideEffect(c, m)
		}
	}

	b.log.Debug("layer meshed",
		zap.String("layer", l.kind),
		zap.String("gradient", l.props.GradientKey),
		zap.Int("rings", len(rings)),
		zap.Int("walls", walls),
		zap.Int("vertices", m.VertexCount()-before))
}

// onSeam reports whether edge p-q runs along one tile border. Such edges
// are cuts made by the tile, not region boundaries, and get no wall.
func (b *TerraBuilder) onSeam(p, q geometry.Point) bool {
	if !b.bounds.OnBorder(p) || !b.bounds.OnBorder(q) {
		return false
	}
	for _, border := range b.bounds.Borders() {
		if border.Contains(p) && border.Contains(q) {
			return true
		}
	}
	return false
}
