// Package config loads per-project compiler settings from .cccp.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file searched for from the target
// file's directory upward.
const FileName = ".cccp.yaml"

// Config holds project-level settings. Zero values fall back to defaults;
// CLI flags override whatever is loaded here.
type Config struct {
	// CC is the C compiler command used to build emitted code.
	CC string `yaml:"cc"`
	// OutputDir receives emitted .c files and built binaries.
	OutputDir string `yaml:"output"`
	// ShortcodesDir overrides the embedded shortcode scripts.
	ShortcodesDir string `yaml:"shortcodes"`
	// DB is the build cache path, relative to the project root.
	DB string `yaml:"db"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`

	// Root is the directory the config was found in (or the start directory
	// when no config file exists). Not serialized.
	Root string `yaml:"-"`
}

// Default returns the built-in settings rooted at dir.
func Default(dir string) *Config {
	return &Config{
		CC:        "cc",
		OutputDir: "output",
		DB:        filepath.Join(".cccp", "cache.db"),
		Root:      dir,
	}
}

// Load reads the config file at path and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default(filepath.Dir(path))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.CC == "" {
		cfg.CC = "cc"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.DB == "" {
		cfg.DB = filepath.Join(".cccp", "cache.db")
	}
	return cfg, nil
}

// Find walks from startDir upward looking for .cccp.yaml and loads the first
// hit. When no config file exists anywhere up the tree, it returns defaults
// rooted at startDir.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			abs, _ := filepath.Abs(startDir)
			return Default(abs), nil
		}
		dir = parent
	}
}

// DBPath returns the absolute build cache path.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DB) {
		return c.DB
	}
	return filepath.Join(c.Root, c.DB)
}
