package config

import "flag"

// Flags is the flag set shared by commands that load a Config.
var Flags = flag.NewFlagSet("terramesh", flag.ExitOnError)

var (
	flagConfig  = Flags.String("config", "", "Path to config file")
	flagDebug   = Flags.Bool("debug", false, "Enable debug logging")
	flagRegions = Flags.String("regions", "", "GeoJSON region file")
	flagOut     = Flags.String("out", "", "Output OBJ path")
	flagQuadKey = Flags.String("quadkey", "", "Tile quadkey")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags(args []string) error {
	return Flags.Parse(args)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRegions != "" {
		cfg.Input.Regions = *flagRegions
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagQuadKey != "" {
		cfg.Terrain.QuadKey = *flagQuadKey
	}
}
