package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned when writing would replace an existing file.
var ErrConfigExists = errors.New("config file already exists")

// fileHeader opens every written config file.
const fileHeader = "# terramesh configuration; values left out fall back to defaults.\n"

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "terramesh.yaml")
}

// WriteFile stores the config as YAML at path, creating parent directories.
// An existing file is kept unless overwrite is set.
func (c *Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append([]byte(fileHeader), data...), 0644)
}
