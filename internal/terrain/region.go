package terrain

import (
	"github.com/Faultbox/terramesh/internal/gradient"
	"github.com/Faultbox/terramesh/internal/mesh"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// Properties is the resolved styling of one drawable region.
type Properties struct {
	// GradientKey groups surfaces that are unioned before clipping.
	GradientKey    string
	Gradient       *gradient.Gradient
	EleNoiseFreq   float64
	ColorNoiseFreq float64
	// HeightOffset extrudes the region above terrain; 0 keeps it flat.
	HeightOffset float64
	MaxArea      float64
	// SideEffect, when set, is called with every restored outer contour
	// and the tile mesh.
	SideEffect func(contour []geometry.Point, m *mesh.Mesh)
}

// meshOptions converts properties to builder options.
func (p Properties) meshOptions() MeshOptions {
	return MeshOptions{
		Area:           p.MaxArea,
		EleNoiseFreq:   p.EleNoiseFreq,
		ColorNoiseFreq: p.ColorNoiseFreq,
		HeightOffset:   p.HeightOffset,
		Gradient:       p.Gradient,
	}
}

// Region is one styled contribution to a tile. Outers are rings for area
// layers and open paths for roads.
type Region struct {
	Outers     [][]geometry.Point
	Holes      [][]geometry.Point
	Properties Properties
}
