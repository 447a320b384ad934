// Package config loads the DealStackr configuration file stored at
// ~/.dealstackr/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/score"
	"github.com/dealstackr/dealstackr/internal/stack"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".dealstackr"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// Config represents the contents of ~/.dealstackr/config.yaml. Every field
// is optional; absent fields keep their defaults.
type Config struct {
	// Feed is the default offers file for the rank command.
	Feed string `yaml:"feed"`

	Scoring score.Weights `yaml:"scoring"`

	// Point valuations in cents per point, keyed by program name. Screening
	// feeds the parser, redemption feeds the stack simulator; overriding one
	// never touches the other.
	ScreeningPoints  map[string]float64 `yaml:"screening_point_values"`
	RedemptionPoints map[string]float64 `yaml:"redemption_point_values"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{Scoring: score.DefaultWeights()}
}

// Load reads the config from path. An empty path falls back to
// ~/.dealstackr/config.yaml, where a missing file yields the defaults; an
// explicitly given path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultPath()
		if err != nil {
			// No home directory, nothing to read.
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Unmarshal over the defaults so partial files override only what they
	// name.
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ScreeningValues returns the parser valuation table with any configured
// overrides applied.
func (c Config) ScreeningValues() map[offer.Program]float64 {
	return mergeValues(offer.DefaultPointValue(), c.ScreeningPoints)
}

// RedemptionValues returns the simulator valuation table with any configured
// overrides applied.
func (c Config) RedemptionValues() map[offer.Program]float64 {
	return mergeValues(stack.DefaultPointValue(), c.RedemptionPoints)
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Unknown program keys are ignored rather than rejected so a config written
// for a newer build keeps loading on an older one.
func mergeValues(base map[offer.Program]float64, overrides map[string]float64) map[offer.Program]float64 {
	for name, v := range overrides {
		if p, ok := offer.ProgramFromString(name); ok {
			base[p] = v
		}
	}
	return base
}
