package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the planner and resolver cannot work with.
func (c *Config) Validate() error {
	if c.Navigation.SnapRadius < 0 {
		return fmt.Errorf("navigation.snap_radius must be >= 0, got %d", c.Navigation.SnapRadius)
	}
	if c.Navigation.SightStep <= 0 || c.Navigation.SightStep > 1 {
		return fmt.Errorf("navigation.sight_step must be in (0, 1], got %v", c.Navigation.SightStep)
	}
	switch c.Navigation.CornerRule {
	case "loose", "strict":
	default:
		return fmt.Errorf("navigation.corner_rule must be loose or strict, got %q", c.Navigation.CornerRule)
	}
	if c.Navigation.MinWalkable < 0 || c.Navigation.MinWalkable > 255 {
		return fmt.Errorf("navigation.min_walkable must be in [0, 255], got %d", c.Navigation.MinWalkable)
	}
	if c.Movement.Speed <= 0 {
		return fmt.Errorf("movement.speed must be > 0, got %v", c.Movement.Speed)
	}
	if c.Movement.ArrivalThreshold < 0 {
		return fmt.Errorf("movement.arrival_threshold must be >= 0, got %v", c.Movement.ArrivalThreshold)
	}
	if c.Collision.Radius <= 0 {
		return fmt.Errorf("collision.radius must be > 0, got %v", c.Collision.Radius)
	}
	switch c.Collision.Solver {
	case "greedy", "iterative":
	default:
		return fmt.Errorf("collision.solver must be greedy or iterative, got %q", c.Collision.Solver)
	}
	if c.Collision.MaxPasses < 1 {
		return fmt.Errorf("collision.max_passes must be >= 1, got %d", c.Collision.MaxPasses)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./navtool.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Walkbounds")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Walkbounds")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "walkbounds")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "walkbounds")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
