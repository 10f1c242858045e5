// Package config handles terramesh configuration loading and management.
package config

// Config holds all build settings.
type Config struct {
	Logging   LoggingConfig          `yaml:"logging"`
	Terrain   TerrainConfig          `yaml:"terrain"`
	Elevation ElevationConfig        `yaml:"elevation"`
	Styles    map[string]StyleConfig `yaml:"styles"`
	Input     InputConfig            `yaml:"input"`
	Output    OutputConfig           `yaml:"output"`
}

// TerrainConfig holds tile composition settings.
type TerrainConfig struct {
	QuadKey    string          `yaml:"quadkey"`
	Scale      float64         `yaml:"scale"`                // fixed-point factor for clipping
	GridSteps  map[int]float64 `yaml:"grid_steps,omitempty"` // LOD -> seam grid step
	Background string          `yaml:"background"`           // style name
	MeshName   string          `yaml:"mesh_name"`
	Backend    string          `yaml:"backend"` // triangle | earcut
}

// ElevationConfig selects the elevation provider.
type ElevationConfig struct {
	Type   string      `yaml:"type"` // flat | grid
	Height float64     `yaml:"height"`
	Bounds []float64   `yaml:"bounds,omitempty"` // xmin, ymin, xmax, ymax of the grid
	Rows   [][]float64 `yaml:"rows,omitempty"`   // south to north
}

// StyleConfig describes how one region style is meshed.
type StyleConfig struct {
	Gradient       []StopConfig `yaml:"gradient"`
	EleNoiseFreq   float64      `yaml:"ele_noise_freq"`
	ColorNoiseFreq float64      `yaml:"color_noise_freq"`
	HeightOffset   float64      `yaml:"height_offset"`
	MaxArea        float64      `yaml:"max_area"`
}

// StopConfig is one gradient stop.
type StopConfig struct {
	At    float64 `yaml:"at"`
	Color string  `yaml:"color"` // #rrggbb
}

// InputConfig holds source data paths.
type InputConfig struct {
	Regions string `yaml:"regions"` // GeoJSON feature collection
}

// OutputConfig holds output paths.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Terrain: TerrainConfig{
			Scale:      1e7,
			Background: "background",
			MeshName:   "terrain",
			Backend:    "triangle",
		},
		Elevation: ElevationConfig{
			Type: "flat",
		},
		Styles: map[string]StyleConfig{
			"background": {
				Gradient:       []StopConfig{{0, "#6b8e23"}, {1, "#8fbc8f"}},
				EleNoiseFreq:   0.05,
				ColorNoiseFreq: 0.1,
			},
			"water": {
				Gradient:       []StopConfig{{0, "#1e3f66"}, {1, "#2e5984"}},
				ColorNoiseFreq: 0.2,
			},
			"road": {
				Gradient: []StopConfig{{0, "#4a4a4a"}, {1, "#5a5a5a"}},
			},
			"footway": {
				Gradient: []StopConfig{{0, "#a0886e"}, {1, "#b09878"}},
			},
			"grass": {
				Gradient:       []StopConfig{{0, "#3c7a3c"}, {0.5, "#4f9a4f"}, {1, "#6fb46f"}},
				EleNoiseFreq:   0.05,
				ColorNoiseFreq: 0.3,
			},
		},
		Output: OutputConfig{
			Path: "tile.obj",
		},
	}
}
