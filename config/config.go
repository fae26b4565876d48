package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDebounceMs is the quiet period applied to search input.
const DefaultDebounceMs = 300

// Config holds the catalog browser settings
type Config struct {
	Catalog struct {
		// Source is a URL or a local file path to the catalog JSON
		Source string `yaml:"source"`
	} `yaml:"catalog"`
	Search struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"search"`
	Analytics struct {
		Endpoint   string `yaml:"endpoint"`
		PropertyID string `yaml:"property_id"`
	} `yaml:"analytics"`
	Export struct {
		SpreadsheetURL string `yaml:"spreadsheet_url"`
	} `yaml:"export"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Search.DebounceMs <= 0 {
		cfg.Search.DebounceMs = DefaultDebounceMs
	}

	return &cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Catalog.Source = "tours.json"
	cfg.Search.DebounceMs = DefaultDebounceMs
	return cfg
}
