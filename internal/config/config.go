// Package config handles navtool configuration loading and management.
package config

// Config holds all navigation settings.
type Config struct {
	Navigation NavigationConfig `yaml:"navigation"`
	Collision  CollisionConfig  `yaml:"collision"`
	Movement   MovementConfig   `yaml:"movement"`
	Assets     AssetsConfig     `yaml:"assets"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// NavigationConfig holds walk map and path planner settings.
type NavigationConfig struct {
	SnapRadius  int     `yaml:"snap_radius"`  // Cells searched around an unwalkable endpoint
	SightStep   float32 `yaml:"sight_step"`   // Line-of-sight sample step, in cells
	CornerRule  string  `yaml:"corner_rule"`  // "loose" or "strict"
	MinWalkable int     `yaml:"min_walkable"` // 0 = only value 0 blocks; >0 = graded threshold
}

// CollisionConfig holds collider settings.
type CollisionConfig struct {
	Radius    float32 `yaml:"radius"`
	Solver    string  `yaml:"solver"`     // "greedy" or "iterative"
	MaxPasses int     `yaml:"max_passes"` // iterative solver only
}

// MovementConfig holds path-following settings.
type MovementConfig struct {
	Speed            float32 `yaml:"speed"`             // World units per second
	ArrivalThreshold float32 `yaml:"arrival_threshold"` // World units
}

// AssetsConfig holds asset search paths, searched in order.
type AssetsConfig struct {
	SearchPaths []string `yaml:"search_paths"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Navigation: NavigationConfig{
			SnapRadius:  8,
			SightStep:   0.25,
			CornerRule:  "loose",
			MinWalkable: 0,
		},
		Collision: CollisionConfig{
			Radius:    25,
			Solver:    "greedy",
			MaxPasses: 4,
		},
		Movement: MovementConfig{
			Speed:            150,
			ArrivalThreshold: 1,
		},
		Assets: AssetsConfig{
			SearchPaths: []string{"Assets/"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
