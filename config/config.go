/*
config.go - Server configuration model and YAML loading

PURPOSE:
  Defines the server's configuration file format and its load behavior,
  including first-run config creation and defaulting of missing fields.

FORMAT: YAML
  listen: ":8080"
  database: "./data/almanac.db"
  preload:
    - preset: gregorian
      id: gregorian

SEE ALSO:
  - cmd/server/main.go: Consumes this configuration
  - factory/presets.go: Preset IDs referenced by preload entries
*/
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PreloadConfig names one calendar to create on startup when it does
// not already exist.
type PreloadConfig struct {
	// Preset is a built-in configuration ID (e.g. "gregorian").
	Preset string `yaml:"preset" json:"preset"`
	// ID is the calendar ID to store it under. Defaults to the preset ID.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`
	// File, when set instead of Preset, points at a JSON configuration
	// document on disk.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Config is the top-level server configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Database is the SQLite database path. ":memory:" is accepted.
	Database string `yaml:"database" json:"database"`

	// Preload lists calendars to create on startup if missing.
	Preload []PreloadConfig `yaml:"preload" json:"preload"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		Database: "./data/almanac.db",
		Preload: []PreloadConfig{
			{Preset: "gregorian", ID: "gregorian"},
		},
	}
}

// Normalize fills in missing values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Database == "" {
		c.Database = "./data/almanac.db"
	}
	for i := range c.Preload {
		if c.Preload[i].ID == "" {
			c.Preload[i].ID = c.Preload[i].Preset
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: write a default config and return it.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the given configuration to the specified path, creating
// the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
