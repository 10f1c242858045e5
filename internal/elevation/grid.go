package elevation

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// ErrInvalidGrid is returned for heightmaps that cannot be sampled.
var ErrInvalidGrid = errors.New("invalid elevation grid")

// Grid is a regular heightmap covering a rectangle. Rows run from the
// rectangle's YMin edge to its YMax edge, columns from XMin to XMax.
type Grid struct {
	bounds  geometry.Rectangle
	heights [][]float64
	rows    int
	cols    int
}

// NewGrid creates a grid provider. Every row must have the same length and
// the grid needs at least 2x2 samples.
func NewGrid(bounds geometry.Rectangle, heights [][]float64) (*Grid, error) {
	rows := len(heights)
	if rows < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows, got %d", ErrInvalidGrid, rows)
	}
	cols := len(heights[0])
	if cols < 2 {
		return nil, fmt.Errorf("%w: need at least 2 columns, got %d", ErrInvalidGrid, cols)
	}
	for i, row := range heights {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidGrid, i, len(row), cols)
		}
	}
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %+v", ErrInvalidGrid, bounds)
	}
	return &Grid{bounds: bounds, heights: heights, rows: rows, cols: cols}, nil
}

// Elevation returns the bilinearly interpolated height at (x, y).
// Coordinates outside the grid are clamped to its border.
func (g *Grid) Elevation(x, y float64) float64 {
	cellW := g.bounds.Width() / float64(g.cols-1)
	cellH := g.bounds.Height() / float64(g.rows-1)

	fx := (x - g.bounds.XMin) / cellW
	fy := (y - g.bounds.YMin) / cellH

	col := int(fx)
	row := int(fy)

	// Clamp to valid range
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	if col >= g.cols-1 {
		col = g.cols - 2
	}
	if row >= g.rows-1 {
		row = g.rows - 2
	}

	fracX := clamp(fx-float64(col), 0, 1)
	fracY := clamp(fy-float64(row), 0, 1)

	// South edge: lerp between SW and SE, north edge between NW and NE.
	south := g.heights[row][col]*(1-fracX) + g.heights[row][col+1]*fracX
	north := g.heights[row+1][col]*(1-fracX) + g.heights[row+1][col+1]*fracX

	return south*(1-fracY) + north*fracY
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
