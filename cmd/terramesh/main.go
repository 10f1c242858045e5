// terramesh builds colored 3D terrain meshes for map tiles.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/terramesh/internal/config"
	"github.com/Faultbox/terramesh/internal/logger"
	"github.com/Faultbox/terramesh/internal/mesh"
	"github.com/Faultbox/terramesh/internal/regions"
	"github.com/Faultbox/terramesh/internal/terrain"
	"github.com/Faultbox/terramesh/internal/tile"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		cmdBuild(args)
	case "info":
		cmdInfo(args)
	case "init":
		cmdInit(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terramesh - terrain mesh builder for map tiles

Usage:
  terramesh <command> [options]

Commands:
  build [flags] [quadkey...]   Build tile meshes and write OBJ files
  info <quadkey>               Show tile bounds and seam grid step
  init [-force] [path]         Write the default config (default: user config dir)

Build flags:
  -config <file>     Config file (default ./terramesh.yaml)
  -quadkey <key>     Tile to build
  -regions <file>    GeoJSON regions (layer, style, width properties)
  -out <file>        Output OBJ path
  -debug             Enable debug logging

Examples:
  terramesh info 1202102332221212
  terramesh init ./terramesh.yaml
  terramesh build -quadkey 1202102332221212 -regions city.geojson -out city.obj
  terramesh build -regions city.geojson 120210233222121 120210233222122`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: terramesh info <quadkey>")
		os.Exit(1)
	}

	qk, err := tile.ParseQuadKey(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	b := qk.Bounds()
	fmt.Printf("QuadKey: %s\n", qk)
	fmt.Printf("LOD:     %d\n", qk.LevelOfDetail)
	fmt.Printf("Tile:    %d/%d\n", qk.TileX, qk.TileY)
	fmt.Printf("Bounds:  lon %.7f .. %.7f, lat %.7f .. %.7f\n", b.XMin, b.XMax, b.YMin, b.YMax)
	if step, ok := terrain.DefaultLODTable().Step(qk.LevelOfDetail); ok {
		fmt.Printf("Grid:    %g (%d x %d cells)\n", step, cells(b.Width(), step), cells(b.Height(), step))
	} else {
		fmt.Println("Grid:    unsupported level of detail")
	}
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := config.DefaultPath()
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if err := config.Default().WriteFile(path, *force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(os.Stderr, "Error: %v (use -force to overwrite)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func cells(extent, step float64) int {
	return int(extent/step) + 1
}

func cmdBuild(args []string) {
	if err := config.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	keys := config.Flags.Args()
	if cfg.Terrain.QuadKey != "" {
		keys = append([]string{cfg.Terrain.QuadKey}, keys...)
	}
	if len(keys) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: terramesh build -quadkey <key> [-regions file] [-out file]")
		os.Exit(1)
	}

	b, err := newBuild(cfg)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Tiles share only read-only collaborators and build independently.
	var wg sync.WaitGroup
	errs := make([]error, len(keys))
	for i, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = b.tile(key, outputPath(cfg.Output.Path, key, len(keys) > 1))
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		logger.Error("build failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// build holds everything shared between tile builds.
type build struct {
	cfg        *config.Config
	styles     regions.Styles
	background terrain.Properties
	mb         *terrain.MeshBuilder
}

func newBuild(cfg *config.Config) (*build, error) {
	styles, err := cfg.StyleTable()
	if err != nil {
		return nil, err
	}
	background, err := cfg.Background()
	if err != nil {
		return nil, err
	}
	provider, err := cfg.ElevationProvider()
	if err != nil {
		return nil, err
	}
	triangulator, err := cfg.Triangulator()
	if err != nil {
		return nil, err
	}
	return &build{
		cfg:        cfg,
		styles:     styles,
		background: background,
		mb:         terrain.NewMeshBuilder(provider, triangulator),
	}, nil
}

// tile builds one quadkey and writes its mesh to out.
func (b *build) tile(key, out string) error {
	qk, err := tile.ParseQuadKey(key)
	if err != nil {
		return err
	}
	log := logger.Named("build").With(zap.String("quadkey", key))

	var result *mesh.Mesh
	tb := terrain.NewTerraBuilder(terrain.BuilderConfig{
		QuadKey:    qk,
		Scale:      b.cfg.Terrain.Scale,
		GridSteps:  b.cfg.GridSteps(),
		Background: b.background,
		MeshName:   b.cfg.Terrain.MeshName,
	}, b.mb, func(m *mesh.Mesh) { result = m })

	if path := b.cfg.Input.Regions; path != "" {
		stats, err := regions.LoadFile(path, b.styles, tb)
		if err != nil {
			return fmt.Errorf("tile %s: %w", key, err)
		}
		log.Info("regions loaded", zap.Int("regions", stats.Total()), zap.Int("skipped", stats.Skipped))
	}

	if err := tb.Build(); err != nil {
		return fmt.Errorf("tile %s: %w", key, err)
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("tile %s: %w", key, err)
	}

	if err := writeOBJ(out, result); err != nil {
		return fmt.Errorf("tile %s: %w", key, err)
	}
	log.Info("mesh written",
		zap.String("path", out),
		zap.Int("vertices", result.VertexCount()),
		zap.Int("triangles", result.TriangleCount()))
	return nil
}

// outputPath inserts the quadkey into path when several tiles are built.
func outputPath(path, key string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + key + ext
}

func writeOBJ(path string, m *mesh.Mesh) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteOBJ(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
