// Package config reads and writes recon.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/recon/internal/normalize"
)

// Config represents the top-level recon.yaml configuration.
type Config struct {
	Matching MatchingConfig      `yaml:"matching"`
	Output   OutputConfig        `yaml:"output"`
	Profiles []normalize.Profile `yaml:"profiles,omitempty"`
}

// MatchingConfig holds the engine tolerances.
type MatchingConfig struct {
	MatchThreshold float64 `yaml:"match_threshold"`  // max amount delta for a fuzzy match
	DateWindowDays int     `yaml:"date_window_days"` // max date offset for a fuzzy match
}

// OutputConfig controls where report artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads a recon.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard tolerances.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			MatchThreshold: 0.01,
			DateWindowDays: 3,
		},
		Output: OutputConfig{
			Dir: "reports",
		},
	}
}

// Registry builds the profile registry: built-in profiles plus any custom
// profiles from the config. A custom profile may not shadow a built-in.
func (c *Config) Registry() (*normalize.Registry, error) {
	r := normalize.DefaultRegistry()
	for _, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("custom profile: %w", err)
		}
		if _, exists := r.Get(p.Name); exists {
			return nil, fmt.Errorf("custom profile %s shadows a built-in profile", p.Name)
		}
		r.Register(p)
	}
	return r, nil
}
