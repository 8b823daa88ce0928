// Package config loads the optional lodestone config file. Flags override
// file values; the file overrides built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-level settings read from ~/.lodestone/config.yaml.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`

	// Format is the default output format: "text" or "json".
	Format string `yaml:"format"`

	// SeedOnFirstRun populates a small starter graph when the database
	// has no tasks yet.
	SeedOnFirstRun bool `yaml:"seed_on_first_run"`
}

// Default returns the built-in configuration. The database lives under
// the user's home directory; callers that cannot resolve a home directory
// fall back to the working directory.
func Default() Config {
	cfg := Config{
		DBPath:         "lodestone.db",
		Format:         "text",
		SeedOnFirstRun: true,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".lodestone", "lodestone.db")
	}
	return cfg
}

// DefaultPath returns the conventional config file location, or "" when no
// home directory is resolvable.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lodestone", "config.yaml")
}

// Load reads a config file and merges it over the defaults. A missing file
// is not an error: the defaults apply. A present but malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// Pointer fields distinguish "absent" from zero values so a sparse
	// file only overrides what it names.
	var file struct {
		DBPath         *string `yaml:"db_path"`
		Format         *string `yaml:"format"`
		SeedOnFirstRun *bool   `yaml:"seed_on_first_run"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if file.DBPath != nil && *file.DBPath != "" {
		cfg.DBPath = *file.DBPath
	}
	if file.Format != nil && *file.Format != "" {
		cfg.Format = *file.Format
	}
	if file.SeedOnFirstRun != nil {
		cfg.SeedOnFirstRun = *file.SeedOnFirstRun
	}

	return cfg, nil
}
