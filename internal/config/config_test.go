package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/terramesh/internal/elevation"
	"github.com/Faultbox/terramesh/internal/gradient"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test terrain defaults
	if cfg.Terrain.Scale != 1e7 {
		t.Errorf("expected scale 1e7, got %g", cfg.Terrain.Scale)
	}
	if cfg.Terrain.Background != "background" {
		t.Errorf("expected background style 'background', got %s", cfg.Terrain.Background)
	}
	if cfg.Terrain.MeshName != "terrain" {
		t.Errorf("expected mesh name 'terrain', got %s", cfg.Terrain.MeshName)
	}
	if cfg.Terrain.Backend != "triangle" {
		t.Errorf("expected triangle backend, got %s", cfg.Terrain.Backend)
	}

	// Test elevation and output defaults
	if cfg.Elevation.Type != "flat" {
		t.Errorf("expected flat elevation, got %s", cfg.Elevation.Type)
	}
	if cfg.Output.Path != "tile.obj" {
		t.Errorf("expected output tile.obj, got %s", cfg.Output.Path)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terramesh.yaml")

	yamlContent := `
terrain:
  quadkey: "1202102332221212"
  scale: 1000000
  grid_steps:
    16: 0.001
  background: sand
  mesh_name: island

elevation:
  type: grid
  bounds: [0, 0, 1, 1]
  rows:
    - [0, 10]
    - [20, 30]

styles:
  sand:
    gradient:
      - {at: 0, color: "#c2b280"}
      - {at: 1, color: "#e0d5a8"}
    ele_noise_freq: 0.2
    max_area: 0.5

input:
  regions: island.geojson

output:
  path: island.obj

logging:
  level: "debug"
  log_file: "terramesh.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.QuadKey != "1202102332221212" {
		t.Errorf("expected quadkey from file, got %s", cfg.Terrain.QuadKey)
	}
	if cfg.Terrain.Scale != 1e6 {
		t.Errorf("expected scale 1e6, got %g", cfg.Terrain.Scale)
	}
	if cfg.Terrain.GridSteps[16] != 0.001 {
		t.Errorf("expected grid step override, got %v", cfg.Terrain.GridSteps)
	}
	if cfg.Terrain.MeshName != "island" {
		t.Errorf("expected mesh name island, got %s", cfg.Terrain.MeshName)
	}
	if cfg.Elevation.Type != "grid" || len(cfg.Elevation.Rows) != 2 {
		t.Errorf("expected 2-row grid elevation, got %+v", cfg.Elevation)
	}
	if _, ok := cfg.Styles["sand"]; !ok {
		t.Error("expected sand style from file")
	}
	if _, ok := cfg.Styles["water"]; !ok {
		t.Error("default styles should survive a file merge")
	}
	if cfg.Styles["sand"].MaxArea != 0.5 {
		t.Errorf("expected sand max_area 0.5, got %g", cfg.Styles["sand"].MaxArea)
	}
	if cfg.Input.Regions != "island.geojson" {
		t.Errorf("expected regions island.geojson, got %s", cfg.Input.Regions)
	}
	if cfg.Output.Path != "island.obj" {
		t.Errorf("expected output island.obj, got %s", cfg.Output.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terramesh.log" {
		t.Errorf("expected log file 'terramesh.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
terrain:
  scale: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/terramesh.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "terramesh.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  scale: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find terramesh.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "regions flag",
			setup: func() { *flagRegions = "city.geojson" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Input.Regions != "city.geojson" {
					t.Errorf("expected regions city.geojson, got %s", cfg.Input.Regions)
				}
			},
			teardown: func() { *flagRegions = "" },
		},
		{
			name:  "out flag",
			setup: func() { *flagOut = "city.obj" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Path != "city.obj" {
					t.Errorf("expected output city.obj, got %s", cfg.Output.Path)
				}
			},
			teardown: func() { *flagOut = "" },
		},
		{
			name:  "quadkey flag",
			setup: func() { *flagQuadKey = "0231" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.QuadKey != "0231" {
					t.Errorf("expected quadkey 0231, got %s", cfg.Terrain.QuadKey)
				}
			},
			teardown: func() { *flagQuadKey = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terramesh.yaml")

	yamlContent := `
terrain:
  quadkey: "0"
  mesh_name: fromfile
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagQuadKey = "0123"
	defer func() {
		*flagConfig = ""
		*flagQuadKey = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Quadkey should be from flag, not file
	if cfg.Terrain.QuadKey != "0123" {
		t.Errorf("expected quadkey 0123 from flag, got %s", cfg.Terrain.QuadKey)
	}
	// Mesh name should be from file since no flag override
	if cfg.Terrain.MeshName != "fromfile" {
		t.Errorf("expected mesh name from file, got %s", cfg.Terrain.MeshName)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero scale", func(c *Config) { c.Terrain.Scale = 0 }, ErrInvalidTerrain},
		{"bad grid step", func(c *Config) { c.Terrain.GridSteps = map[int]float64{16: -1} }, ErrInvalidTerrain},
		{"unknown background", func(c *Config) { c.Terrain.Background = "lava" }, ErrUnknownStyle},
		{"unknown elevation", func(c *Config) { c.Elevation.Type = "srtm" }, ErrInvalidElevation},
		{"unknown backend", func(c *Config) { c.Terrain.Backend = "delaunator" }, ErrInvalidTerrain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStyleTable(t *testing.T) {
	cfg := Default()
	table, err := cfg.StyleTable()
	if err != nil {
		t.Fatalf("StyleTable() error = %v", err)
	}
	grass, ok := table["grass"]
	if !ok {
		t.Fatal("missing grass style")
	}
	if grass.GradientKey != "grass" || grass.Gradient == nil || grass.Gradient.Len() != 3 {
		t.Errorf("grass properties = %+v", grass)
	}

	cfg.Styles["broken"] = StyleConfig{Gradient: []StopConfig{{0, "not a color"}}}
	if _, err := cfg.StyleTable(); !errors.Is(err, gradient.ErrInvalidColor) {
		t.Errorf("StyleTable() error = %v, want ErrInvalidColor", err)
	}
}

func TestGridSteps(t *testing.T) {
	cfg := Default()
	cfg.Terrain.GridSteps = map[int]float64{16: 0.002, 20: 0.0001}
	table := cfg.GridSteps()

	if step, _ := table.Step(16); step != 0.002 {
		t.Errorf("Step(16) = %g, want override 0.002", step)
	}
	if step, ok := table.Step(20); !ok || step != 0.0001 {
		t.Errorf("Step(20) = %g, %v", step, ok)
	}
	if _, ok := table.Step(10); !ok {
		t.Error("default LOD 10 should remain")
	}
}

func TestElevationProvider(t *testing.T) {
	cfg := Default()
	cfg.Elevation.Height = 12
	p, err := cfg.ElevationProvider()
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Elevation(3, 4); got != 12 {
		t.Errorf("flat elevation = %g, want 12", got)
	}

	cfg.Elevation = ElevationConfig{Type: "grid", Bounds: []float64{0, 0, 1, 1}, Rows: [][]float64{{0, 10}, {20, 30}}}
	p, err = cfg.ElevationProvider()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*elevation.Grid); !ok {
		t.Errorf("expected *elevation.Grid, got %T", p)
	}

	cfg.Elevation.Bounds = []float64{0, 0}
	if _, err := cfg.ElevationProvider(); !errors.Is(err, ErrInvalidElevation) {
		t.Errorf("ElevationProvider() error = %v, want ErrInvalidElevation", err)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "terramesh.yaml")
	if err := Default().WriteFile(path, false); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.HasPrefix(string(data), fileHeader) {
		t.Errorf("written config lacks header:\n%s", data)
	}

	cfg := &Config{}
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written config does not validate: %v", err)
	}
}

func TestWriteFileExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terramesh.yaml")
	if err := os.WriteFile(path, []byte("terrain:\n  mesh_name: mine\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Default().WriteFile(path, false); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("WriteFile() error = %v, want ErrConfigExists", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatal(err)
	}
	if cfg.Terrain.MeshName != "mine" {
		t.Errorf("existing file was modified, mesh name %s", cfg.Terrain.MeshName)
	}

	if err := Default().WriteFile(path, true); err != nil {
		t.Fatalf("WriteFile(overwrite) error = %v", err)
	}
	cfg = Default()
	cfg.Terrain.MeshName = ""
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatal(err)
	}
	if cfg.Terrain.MeshName != "terrain" {
		t.Errorf("overwrite kept old mesh name %s", cfg.Terrain.MeshName)
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(); filepath.Base(got) != "terramesh.yaml" || filepath.Dir(got) != ConfigDir() {
		t.Errorf("DefaultPath() = %s", got)
	}
}

func TestTriangulator(t *testing.T) {
	for _, backend := range []string{"", "triangle", "earcut"} {
		cfg := Default()
		cfg.Terrain.Backend = backend
		if fn, err := cfg.Triangulator(); err != nil || fn == nil {
			t.Errorf("Triangulator(%q) = %v, %v", backend, fn != nil, err)
		}
	}

	cfg := Default()
	cfg.Terrain.Backend = "mapbox"
	if _, err := cfg.Triangulator(); !errors.Is(err, ErrInvalidTerrain) {
		t.Errorf("Triangulator(mapbox) error = %v, want ErrInvalidTerrain", err)
	}
}
