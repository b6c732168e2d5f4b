// Package config loads the export configuration and resolves the directory
// exported visualization data is written to.
//
// Resolution of paths.interim_viz_dir:
//   - $AVCP_INTERIM_VIZ_DIR if set (explicit override)
//   - paths.interim_viz_dir from the YAML file
//   - data/interim_viz
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the conventional config location relative to the
	// repository root.
	DefaultConfigPath = "config/config.yaml"

	// DefaultInterimVizDir is used when the config does not name an output
	// directory.
	DefaultInterimVizDir = "data/interim_viz"
)

var (
	// ErrNotFound is returned when the config file does not exist.
	// It also matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("config file not found: %w", fs.ErrNotExist)

	// ErrMalformed is returned when the config is not a YAML mapping of the
	// expected shape.
	ErrMalformed = errors.New("malformed config")
)

// Config is the export configuration.
type Config struct {
	Paths Paths `yaml:"paths"`
}

// Paths holds configured filesystem locations.
type Paths struct {
	InterimVizDir string `yaml:"interim_viz_dir" env:"AVCP_INTERIM_VIZ_DIR"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{Paths: Paths{InterimVizDir: DefaultInterimVizDir}}
}

// Load reads the YAML config at path and applies environment overrides.
// An empty file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if err := ParseEnv(&cfg.Paths); err != nil {
		return nil, err
	}
	if cfg.Paths.InterimVizDir == "" {
		cfg.Paths.InterimVizDir = DefaultInterimVizDir
	}
	return cfg, nil
}

// Parse decodes YAML bytes without environment overrides. source is used in
// error messages.
func Parse(data []byte, source string) (*Config, error) {
	var shape any
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, source, err)
	}
	if shape == nil {
		return Default(), nil
	}
	if _, ok := shape.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: %s: top level must be a mapping", ErrMalformed, source)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, source, err)
	}
	return cfg, nil
}

// ParseEnv loads environment overrides into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ResolveOutputDir returns the absolute output directory for cfg.
//
// A relative interim_viz_dir is joined to, in order of preference:
//   - repoRoot, when given
//   - the grandparent of configPath, when it ends in config/config.yaml
//   - the current working directory
func ResolveOutputDir(cfg *Config, configPath, repoRoot string) string {
	dir := DefaultInterimVizDir
	if cfg != nil && cfg.Paths.InterimVizDir != "" {
		dir = cfg.Paths.InterimVizDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}

	var root string
	switch {
	case repoRoot != "":
		root = repoRoot
	case strings.HasSuffix(filepath.ToSlash(configPath), DefaultConfigPath):
		if abs, err := filepath.Abs(configPath); err == nil {
			root = filepath.Dir(filepath.Dir(abs))
		}
	}

	resolved, err := filepath.Abs(filepath.Join(root, dir))
	if err != nil {
		return filepath.Join(root, dir)
	}
	return resolved
}
