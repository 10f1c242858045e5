// Package regions loads styled tile regions from GeoJSON.
//
// Every feature carries a "layer" property (water, car_road, walk_road or
// surface), a "style" property naming a configured style and, for roads,
// an optional "width" in planar units.
package regions

import (
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"github.com/Faultbox/terramesh/internal/logger"
	"github.com/Faultbox/terramesh/internal/terrain"
	"github.com/Faultbox/terramesh/pkg/geometry"
)

// Feature errors.
var (
	ErrUnknownLayer        = errors.New("unknown layer")
	ErrUnknownStyle        = errors.New("unknown style")
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
)

// Layer names accepted in the "layer" property.
const (
	LayerWater    = terrain.LayerWater
	LayerCarRoad  = terrain.LayerCarRoad
	LayerWalkRoad = terrain.LayerWalkRoad
	LayerSurface  = terrain.LayerSurface
)

// DefaultRoadWidth is used for roads without a "width" property.
const DefaultRoadWidth = 0.0001

// Sink receives decoded regions. *terrain.TerraBuilder implements it.
type Sink interface {
	AddWater(r terrain.Region)
	AddCarRoad(r terrain.Region, width float64)
	AddWalkRoad(r terrain.Region, width float64)
	AddSurface(r terrain.Region)
}

// Styles maps style names to resolved properties.
type Styles map[string]terrain.Properties

// Stats counts loaded regions per layer.
type Stats struct {
	Water     int
	CarRoads  int
	WalkRoads int
	Surfaces  int
	Skipped   int
}

// Total returns the number of regions handed to the sink.
func (s Stats) Total() int {
	return s.Water + s.CarRoads + s.WalkRoads + s.Surfaces
}

// LoadFile reads a GeoJSON feature collection from path.
func LoadFile(path string, styles Styles, sink Sink) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("reading regions: %w", err)
	}
	return Load(data, styles, sink)
}

// Load decodes a GeoJSON feature collection and feeds every feature to
// sink. Features that cannot be decoded are logged and skipped.
func Load(data []byte, styles Styles, sink Sink) (Stats, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Stats{}, fmt.Errorf("parsing regions: %w", err)
	}

	log := logger.Named("regions")
	var stats Stats
	for i, f := range fc.Features {
		if err := add(f, styles, sink, &stats); err != nil {
			stats.Skipped++
			log.Warn("feature skipped", zap.Int("index", i), zap.Error(err))
		}
	}

	log.Debug("regions loaded",
		zap.Int("water", stats.Water),
		zap.Int("car_roads", stats.CarRoads),
		zap.Int("walk_roads", stats.WalkRoads),
		zap.Int("surfaces", stats.Surfaces),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

func add(f *geojson.Feature, styles Styles, sink Sink, stats *Stats) error {
	layer, err := f.PropertyString("layer")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownLayer, err)
	}
	styleName, err := f.PropertyString("style")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownStyle, err)
	}
	props, ok := styles[styleName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}
	if props.GradientKey == "" {
		props.GradientKey = styleName
	}

	switch layer {
	case LayerWater, LayerSurface:
		regions, err := areas(f.Geometry)
		if err != nil {
			return err
		}
		for _, r := range regions {
			r.Properties = props
			if layer == LayerWater {
				sink.AddWater(r)
				stats.Water++
			} else {
				sink.AddSurface(r)
				stats.Surfaces++
			}
		}
	case LayerCarRoad, LayerWalkRoad:
		r, err := paths(f.Geometry)
		if err != nil {
			return err
		}
		r.Properties = props
		width, err := f.PropertyFloat64("width")
		if err != nil || width <= 0 {
			width = DefaultRoadWidth
		}
		if layer == LayerCarRoad {
			sink.AddCarRoad(r, width)
			stats.CarRoads++
		} else {
			sink.AddWalkRoad(r, width)
			stats.WalkRoads++
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
	return nil
}

// areas converts Polygon and MultiPolygon geometries, one region per polygon.
func areas(g *geojson.Geometry) ([]terrain.Region, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: missing geometry", ErrUnsupportedGeometry)
	}
	switch g.Type {
	case geojson.GeometryPolygon:
		return []terrain.Region{polygonRegion(g.Polygon)}, nil
	case geojson.GeometryMultiPolygon:
		regions := make([]terrain.Region, 0, len(g.MultiPolygon))
		for _, p := range g.MultiPolygon {
			regions = append(regions, polygonRegion(p))
		}
		return regions, nil
	default:
		return nil, fmt.Errorf("%w: %s for an area layer", ErrUnsupportedGeometry, g.Type)
	}
}

// paths converts LineString and MultiLineString geometries.
func paths(g *geojson.Geometry) (terrain.Region, error) {
	if g == nil {
		return terrain.Region{}, fmt.Errorf("%w: missing geometry", ErrUnsupportedGeometry)
	}
	switch g.Type {
	case geojson.GeometryLineString:
		return terrain.Region{Outers: [][]geometry.Point{toPoints(g.LineString)}}, nil
	case geojson.GeometryMultiLineString:
		var r terrain.Region
		for _, line := range g.MultiLineString {
			r.Outers = append(r.Outers, toPoints(line))
		}
		return r, nil
	default:
		return terrain.Region{}, fmt.Errorf("%w: %s for a road layer", ErrUnsupportedGeometry, g.Type)
	}
}

func polygonRegion(rings [][][]float64) terrain.Region {
	var r terrain.Region
	for i, ring := range rings {
		if i == 0 {
			r.Outers = append(r.Outers, toPoints(ring))
		} else {
			r.Holes = append(r.Holes, toPoints(ring))
		}
	}
	return r
}

func toPoints(coords [][]float64) []geometry.Point {
	points := make([]geometry.Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		points = append(points, geometry.Point{X: c[0], Y: c[1]})
	}
	return points
}
