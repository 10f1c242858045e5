package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terramesh/internal/elevation"
	"github.com/Faultbox/terramesh/internal/gradient"
	"github.com/Faultbox/terramesh/internal/terrain"
	"github.com/Faultbox/terramesh/internal/triangulate"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// Configuration errors.
var (
	ErrUnknownStyle     = errors.New("unknown style")
	ErrInvalidElevation = errors.New("invalid elevation config")
	ErrInvalidTerrain   = errors.New("invalid terrain config")
)

// Validate checks values that would otherwise fail deep inside a build.
func (c *Config) Validate() error {
	if c.Terrain.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidTerrain, c.Terrain.Scale)
	}
	for lod, step := range c.Terrain.GridSteps {
		if step <= 0 {
			return fmt.Errorf("%w: grid step for LOD %d must be positive", ErrInvalidTerrain, lod)
		}
	}
	if _, ok := c.Styles[c.Terrain.Background]; !ok {
		return fmt.Errorf("%w: background %q", ErrUnknownStyle, c.Terrain.Background)
	}
	if _, err := c.Triangulator(); err != nil {
		return err
	}
	switch c.Elevation.Type {
	case "", "flat", "grid":
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidElevation, c.Elevation.Type)
	}
	return nil
}

// Properties resolves a style into mesh properties keyed by name.
func (s StyleConfig) Properties(name string) (terrain.Properties, error) {
	props := terrain.Properties{
		GradientKey:    name,
		EleNoiseFreq:   s.EleNoiseFreq,
		ColorNoiseFreq: s.ColorNoiseFreq,
		HeightOffset:   s.HeightOffset,
		MaxArea:        s.MaxArea,
	}
	if len(s.Gradient) == 0 {
		return props, nil
	}

	stops := make(map[float64]string, len(s.Gradient))
	for _, stop := range s.Gradient {
		stops[stop.At] = stop.Color
	}
	g, err := gradient.FromHex(stops)
	if err != nil {
		return terrain.Properties{}, fmt.Errorf("style %s: %w", name, err)
	}
	props.Gradient = g
	return props, nil
}

// StyleTable resolves every configured style.
func (c *Config) StyleTable() (map[string]terrain.Properties, error) {
	table := make(map[string]terrain.Properties, len(c.Styles))
	for name, style := range c.Styles {
		props, err := style.Properties(name)
		if err != nil {
			return nil, err
		}
		table[name] = props
	}
	return table, nil
}

// Background resolves the background style.
func (c *Config) Background() (terrain.Properties, error) {
	style, ok := c.Styles[c.Terrain.Background]
	if !ok {
		return terrain.Properties{}, fmt.Errorf("%w: background %q", ErrUnknownStyle, c.Terrain.Background)
	}
	return style.Properties(c.Terrain.Background)
}

// Triangulator returns the configured triangulation backend.
func (c *Config) Triangulator() (triangulate.Func, error) {
	switch c.Terrain.Backend {
	case "", "triangle":
		return triangulate.Triangulate, nil
	case "earcut":
		return triangulate.Earcut, nil
	default:
		return nil, fmt.Errorf("%w: backend %q", ErrInvalidTerrain, c.Terrain.Backend)
	}
}

// GridSteps returns the default LOD table with configured overrides.
func (c *Config) GridSteps() terrain.LODTable {
	table := terrain.DefaultLODTable()
	for lod, step := range c.Terrain.GridSteps {
		table[lod] = step
	}
	return table
}

// ElevationProvider builds the configured elevation provider.
func (c *Config) ElevationProvider() (elevation.Provider, error) {
	switch c.Elevation.Type {
	case "", "flat":
		return elevation.Flat{Height: c.Elevation.Height}, nil
	case "grid":
		b := c.Elevation.Bounds
		if len(b) != 4 {
			return nil, fmt.Errorf("%w: grid bounds need 4 values, got %d", ErrInvalidElevation, len(b))
		}
		grid, err := elevation.NewGrid(geometry.NewRectangle(b[0], b[1], b[2], b[3]), c.Elevation.Rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidElevation, err)
		}
		return grid, nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrInvalidElevation, c.Elevation.Type)
	}
}
