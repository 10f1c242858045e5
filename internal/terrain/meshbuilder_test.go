package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/terramesh/internal/elevation"
	"github.com/Faultbox/terramesh/internal/gradient"
	"github.com/Faultbox/terramesh/internal/mesh"
	"github.com/Faultbox/terramesh/internal/triangulate"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// fixedBackend returns one triangle regardless of input.
func fixedBackend(in *triangulate.Input, _ triangulate.Options) (*triangulate.Result, error) {
	return &triangulate.Result{
		Points:    []float64{0, 0, 1, 0, 0, 1},
		Triangles: []int{0, 1, 2},
	}, nil
}

func failingBackend(*triangulate.Input, triangulate.Options) (*triangulate.Result, error) {
	return nil, triangulate.ErrDegenerate
}

func squarePolygon() *Polygon {
	p := NewPolygon()
	p.AddContour(pts(0, 0, 10, 0, 10, 10, 0, 10))
	return p
}

func TestAddPolygonWindingAndOffset(t *testing.T) {
	m := mesh.New("test")
	m.AddVertex(9, 9, 9, 0)

	b := NewMeshBuilder(elevation.Flat{}, fixedBackend)
	b.AddPolygon(m, squarePolygon(), MeshOptions{})

	if m.VertexCount() != 4 {
		t.Fatalf("expected 4 vertices, got %d", m.VertexCount())
	}
	want := []int{2, 1, 3}
	for i, idx := range m.Triangles {
		if idx != want[i] {
			t.Errorf("Triangles[%d] = %d, want %d", i, idx, want[i])
		}
	}
}

func TestAddPolygonElevation(t *testing.T) {
	red := gradient.Solid(colorful.Color{R: 1})
	tests := []struct {
		name  string
		opts  MeshOptions
		wantZ float64
	}{
		{"provider", MeshOptions{Gradient: red}, 5},
		{"height offset", MeshOptions{Gradient: red, HeightOffset: 2}, 7},
		{"fixed elevation", MeshOptions{Gradient: red, Elevation: -3, FixedElevation: true}, -3},
		{"fixed elevation with offset", MeshOptions{Gradient: red, Elevation: 1, FixedElevation: true, HeightOffset: 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mesh.New("test")
			b := NewMeshBuilder(elevation.Flat{Height: 5}, nil)
			b.AddPolygon(m, squarePolygon(), tt.opts)

			if m.TriangleCount() != 2 {
				t.Fatalf("expected 2 triangles, got %d", m.TriangleCount())
			}
			if err := m.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			for i := range m.VertexCount() {
				if _, _, z := m.Vertex(i); z != tt.wantZ {
					t.Errorf("vertex %d z = %g, want %g", i, z, tt.wantZ)
				}
				if m.Colors[i] != 0xff0000ff {
					t.Errorf("vertex %d color = %08x, want ff0000ff", i, m.Colors[i])
				}
			}
		})
	}
}

func TestAddPolygonRefined(t *testing.T) {
	m := mesh.New("test")
	b := NewMeshBuilder(elevation.Flat{}, nil)
	b.AddPolygon(m, squarePolygon(), MeshOptions{Area: 5, SegmentSplit: triangulate.SplitNone, EleNoiseFreq: 0.3, ColorNoiseFreq: 0.3})

	if m.VertexCount() <= 4 {
		t.Errorf("expected refinement to add vertices, got %d", m.VertexCount())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAddPolygonBackendFailure(t *testing.T) {
	m := mesh.New("test")
	b := NewMeshBuilder(nil, failingBackend)
	b.AddPolygon(m, squarePolygon(), MeshOptions{})

	if m.VertexCount() != 0 || m.TriangleCount() != 0 {
		t.Errorf("expected empty contribution, got %d vertices", m.VertexCount())
	}
}

func TestAddPolygonEmpty(t *testing.T) {
	m := mesh.New("test")
	b := NewMeshBuilder(nil, func(*triangulate.Input, triangulate.Options) (*triangulate.Result, error) {
		return nil, errors.New("backend must not be called")
	})
	b.AddPolygon(m, NewPolygon(), MeshOptions{})
	if !m.IsEmpty() {
		t.Error("expected no triangles for an empty polygon")
	}
}

func TestAddPlane(t *testing.T) {
	provider := elevation.ProviderFunc(func(x, _ float64) float64 { return x })
	b := NewMeshBuilder(provider, nil)
	m := mesh.New("wall")

	b.AddPlane(m, geometry.Point{X: 1, Y: 0}, geometry.Point{X: 3, Y: 0}, MeshOptions{HeightOffset: 4})

	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("expected 4 vertices and 2 triangles, got %d and %d", m.VertexCount(), m.TriangleCount())
	}
	wantZ := []float64{1, 3, 7, 5}
	for i, want := range wantZ {
		if _, _, z := m.Vertex(i); z != want {
			t.Errorf("vertex %d z = %g, want %g", i, z, want)
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAddPlaneWithElevationColorsEndpoints(t *testing.T) {
	g, err := gradient.FromHex(map[float64]string{0: "#000000", 1: "#ffffff"})
	if err != nil {
		t.Fatal(err)
	}
	b := NewMeshBuilder(nil, nil)
	m := mesh.New("wall")
	b.AddPlaneWithElevation(m, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 7.3, Y: 2.9}, 10, 20,
		MeshOptions{HeightOffset: 1, ColorNoiseFreq: 0.5, Gradient: g})

	if m.Colors[0] != m.Colors[3] || m.Colors[1] != m.Colors[2] {
		t.Errorf("base and top colors differ per endpoint: %08x", m.Colors)
	}
	if _, _, z := m.Vertex(0); z != 10 {
		t.Errorf("base z = %g, want 10", z)
	}
	if _, _, z := m.Vertex(2); z != 21 {
		t.Errorf("top z = %g, want 21", z)
	}
}

// meshArea sums the unsigned planar area of every mesh triangle.
func meshArea(m *mesh.Mesh) float64 {
	total := 0.0
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		ax, ay, _ := m.Vertex(m.Triangles[i])
		bx, by, _ := m.Vertex(m.Triangles[i+1])
		cx, cy, _ := m.Vertex(m.Triangles[i+2])
		total += math.Abs((bx-ax)*(cy-ay)-(by-ay)*(cx-ax)) / 2
	}
	return total
}

func TestAddPolygonIslandInLake(t *testing.T) {
	tile := pts(0, 0, 10, 0, 10, 10, 0, 10)
	island := pts(4, 4, 6, 4, 6, 6, 4, 6)
	lake := pts(2, 2, 2, 8, 8, 8, 8, 2)

	for name, outers := range map[string][][]geometry.Point{
		"tile first":   {tile, island},
		"island first": {island, tile},
	} {
		t.Run(name, func(t *testing.T) {
			p := NewPolygon()
			for _, o := range outers {
				p.AddContour(o)
			}
			p.AddHole(lake)

			m := mesh.New("lake")
			NewMeshBuilder(nil, nil).AddPolygon(m, p, MeshOptions{})
			if a := meshArea(m); math.Abs(a-68) > 1e-9 {
				t.Errorf("meshed area = %g, want 68", a)
			}
		})
	}
}
