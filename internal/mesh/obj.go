package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the mesh as Wavefront OBJ with per-vertex colors
// ("v x y z r g b"). OBJ indices are 1-based.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for i := range m.VertexCount() {
		x, y, z := m.Vertex(i)
		r, g, b, _ := UnpackColor(m.Colors[i])
		fmt.Fprintf(bw, "v %.9f %.9f %.4f %.4f %.4f %.4f\n",
			x, y, z, float64(r)/255, float64(g)/255, float64(b)/255)
	}
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Triangles[i]+1, m.Triangles[i+1]+1, m.Triangles[i+2]+1)
	}

	return bw.Flush()
}
