// Package elevation provides terrain height lookups in planar coordinates.
package elevation

// Provider returns the terrain elevation at a planar coordinate.
// Implementations must be pure and safe for concurrent reads.
type Provider interface {
	Elevation(x, y float64) float64
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(x, y float64) float64

// Elevation calls f(x, y).
func (f ProviderFunc) Elevation(x, y float64) float64 {
	return f(x, y)
}

// Flat is a constant-height provider.
type Flat struct {
	Height float64
}

// Elevation returns the constant height.
func (f Flat) Elevation(_, _ float64) float64 {
	return f.Height
}
