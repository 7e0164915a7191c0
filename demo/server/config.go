package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings. Flags override values from the file.
type Config struct {
	Addr  string `yaml:"addr"`
	Input string `yaml:"input"` // .geojson or .fgb; empty serves the built-in sample
	Label string `yaml:"label"` // region label for GeoJSON input
	Name  string `yaml:"name"`  // layer name written to /data.fgb
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Addr:  ":8080",
		Label: "regions",
		Name:  "world_cities",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
