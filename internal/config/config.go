// Package config loads renderer configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arxival/reportgen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Field limits guard against pathological inputs in shared environments.
const (
	MaxQueryLength = 500
	MaxPathLength  = 4096
)

// Config holds all configuration for report generation.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Artifact directory (empty = outputs/reports)
}

// RenderConfig defines rendering options.
type RenderConfig struct {
	Formats []string `yaml:"formats"` // Default formats when none given on the command line
	Timeout string   `yaml:"timeout"` // PDF generation timeout, e.g. "30s", "2m"
	Workers int      `yaml:"workers"` // Parallel workers for batch mode (0 = auto)
}

// CatalogConfig defines artifact catalog options.
type CatalogConfig struct {
	Enabled bool   `yaml:"enabled"` // Record artifacts (default true; --no-catalog also disables)
	Path    string `yaml:"path"`    // Database path (empty = <output.dir>/reports.db)
}

// Validate checks field values and lengths.
func (c *Config) Validate() error {
	if len(c.Output.Dir) > MaxPathLength {
		return fmt.Errorf("output.dir: %d chars exceeds max %d", len(c.Output.Dir), MaxPathLength)
	}
	if len(c.Catalog.Path) > MaxPathLength {
		return fmt.Errorf("catalog.path: %d chars exceeds max %d", len(c.Catalog.Path), MaxPathLength)
	}
	if c.Render.Timeout != "" {
		d, err := time.ParseDuration(c.Render.Timeout)
		if err != nil {
			return fmt.Errorf("render.timeout: %v", err)
		}
		if d <= 0 {
			return fmt.Errorf("render.timeout: must be positive, got %s", c.Render.Timeout)
		}
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers: must be >= 0, got %d", c.Render.Workers)
	}
	return nil
}

// Timeout returns the parsed render timeout, or zero when unset.
// Call Validate first; invalid durations parse as zero here.
func (c *Config) Timeout() time.Duration {
	if c.Render.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// DefaultConfig returns a neutral configuration. The catalog is on until a
// config file or --no-catalog turns it off.
func DefaultConfig() *Config {
	return &Config{
		Output:  OutputConfig{Dir: ""},
		Render:  RenderConfig{Formats: nil, Timeout: "", Workers: 0},
		Catalog: CatalogConfig{Enabled: true, Path: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Decode over the defaults so omitted keys keep their default values,
	// notably catalog.enabled.
	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/reportgen/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "reportgen", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
