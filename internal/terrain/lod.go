package terrain

import "math"

// Supported level-of-detail range of DefaultLODTable.
const (
	MinLOD = 1
	MaxLOD = 19
)

// LODTable maps a level of detail to the splitter grid step.
type LODTable map[int]float64

// DefaultLODTable halves the grid step with every level, 0.0005 at LOD 16.
func DefaultLODTable() LODTable {
	t := make(LODTable, MaxLOD-MinLOD+1)
	for lod := MinLOD; lod <= MaxLOD; lod++ {
		t[lod] = 0.0005 * math.Pow(2, float64(16-lod))
	}
	return t
}

// Step returns the grid step for lod.
func (t LODTable) Step(lod int) (float64, bool) {
	step, ok := t[lod]
	if !ok || step <= 0 {
		return 0, false
	}
	return step, true
}
