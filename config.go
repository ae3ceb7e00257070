package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds search tuning parameters. Adjust these to trade search
// completeness for speed.
type Config struct {
	// PowerPrune enables the power-dominance heuristic: once a solution is
	// known, branches whose power is not strictly above that solution's
	// final power are abandoned. The rule assumes lower remaining power
	// cannot lead to an equally short solution, which is NOT proven in
	// general; it may discard a valid alternative. Off by default so the
	// exhaustive mode is the reference.
	PowerPrune bool `yaml:"power_prune"`

	// MaxNodes caps the number of expanded search nodes; 0 means
	// unlimited. When the cap is hit the search stops and reports the best
	// solution found so far, which may not be minimal.
	MaxNodes int `yaml:"max_nodes"`

	// Verbose prints search progress and statistics to stderr.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the exhaustive, uncapped configuration.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxNodes < 0 {
		return cfg, fmt.Errorf("config %s: max_nodes must be >= 0", path)
	}
	return cfg, nil
}
