// Package config provides configuration loading and management for
// morphogrid. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// Preset is the user-facing label of the chamfer weight set,
		// e.g. "Borgefors (3,4,5)"
		Preset string `yaml:"preset"`

		// Connectivity selects the labeling adjacency: 4 or 8 for 2D
		// stacks of depth 1, 6 or 26 for 3D stacks
		Connectivity int `yaml:"connectivity"`

		// BitDepth selects the output width for distance and label
		// fields: 8, 16 or 32
		BitDepth int `yaml:"bitDepth"`

		// Normalize expresses distances in pixel/voxel units by
		// dividing by the orthogonal weight
		Normalize bool `yaml:"normalize"`

		// Threshold separates foreground from background when
		// binarizing input slices; cells strictly above it are
		// foreground
		Threshold float64 `yaml:"threshold"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Dir is the directory result slices are written to
		Dir string `yaml:"dir"`

		// Format is the slice image format, "png" or "tiff"
		Format string `yaml:"format"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.Preset = "Borgefors (3,4,5)"
	cfg.Processing.Connectivity = 26
	cfg.Processing.BitDepth = 16
	cfg.Processing.Normalize = true
	cfg.Processing.Threshold = 127

	// Set default output parameters
	cfg.Output.Dir = "results"
	cfg.Output.Format = "png"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
