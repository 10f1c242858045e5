// Package mesh holds the terrain mesh artifact produced for one tile.
package mesh

import (
	"errors"
	"fmt"
	"math"
)

// Mesh validation errors.
var (
	ErrBufferMismatch = errors.New("vertex and color buffers differ in length")
	ErrInvalidIndex   = errors.New("triangle index out of range")
)

// noCopy makes go vet's copylocks check flag accidental value copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Mesh is a flat triangle mesh: vertex triples (x, y, elevation), triangle
// index triples and one packed 0xRRGGBBAA color per vertex.
//
// A Mesh can be large and is move-only: pass *Mesh around, never Mesh.
type Mesh struct {
	noCopy noCopy

	Name      string
	Vertices  []float64
	Triangles []int
	Colors    []uint32
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// New creates an empty named mesh.
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Colors)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// IsEmpty reports whether the mesh holds no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(x, y, z float64, color uint32) int {
	m.Vertices = append(m.Vertices, x, y, z)
	m.Colors = append(m.Colors, color)
	return len(m.Colors) - 1
}

// AddTriangle appends one triangle of absolute vertex indices.
func (m *Mesh) AddTriangle(a, b, c int) {
	m.Triangles = append(m.Triangles, a, b, c)
}

// Vertex returns the coordinates of vertex i.
func (m *Mesh) Vertex(i int) (x, y, z float64) {
	return m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]
}

// Append moves the contents of other into m, offsetting its triangle
// indices by the current vertex count. other is left empty.
func (m *Mesh) Append(other *Mesh) {
	offset := m.VertexCount()
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Colors = append(m.Colors, other.Colors...)
	for _, idx := range other.Triangles {
		m.Triangles = append(m.Triangles, idx+offset)
	}
	other.Vertices, other.Colors, other.Triangles = nil, nil, nil
}

// Validate checks the buffer invariants.
func (m *Mesh) Validate() error {
	if len(m.Vertices) != 3*len(m.Colors) {
		return fmt.Errorf("%w: %d coordinates, %d colors", ErrBufferMismatch, len(m.Vertices), len(m.Colors))
	}
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidIndex, len(m.Triangles))
	}
	n := len(m.Colors)
	for i, idx := range m.Triangles {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: triangles[%d] = %d, vertex count %d", ErrInvalidIndex, i, idx, n)
		}
	}
	return nil
}

// Bounds returns the bounding box of all vertices.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for k := range 3 {
			v := m.Vertices[i+k]
			if v < b.Min[k] {
				b.Min[k] = v
			}
			if v > b.Max[k] {
				b.Max[k] = v
			}
		}
	}
	return b
}

// PackColor packs 8-bit channels into 0xRRGGBBAA.
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// UnpackColor splits a packed 0xRRGGBBAA color.
func UnpackColor(c uint32) (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}
