package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Navigation.SnapRadius != 8 {
		t.Errorf("expected snap radius 8, got %d", cfg.Navigation.SnapRadius)
	}
	if cfg.Navigation.SightStep != 0.25 {
		t.Errorf("expected sight step 0.25, got %v", cfg.Navigation.SightStep)
	}
	if cfg.Navigation.CornerRule != "loose" {
		t.Errorf("expected loose corner rule, got %s", cfg.Navigation.CornerRule)
	}
	if cfg.Collision.Radius != 25 {
		t.Errorf("expected collider radius 25, got %v", cfg.Collision.Radius)
	}
	if cfg.Collision.Solver != "greedy" {
		t.Errorf("expected greedy solver by default, got %s", cfg.Collision.Solver)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "navtool.yaml")

	yamlContent := `
navigation:
  snap_radius: 4
  sight_step: 0.5
  corner_rule: strict
  min_walkable: 128

collision:
  radius: 12.5
  solver: iterative
  max_passes: 8

movement:
  speed: 300

assets:
  search_paths: ["Assets/", "Assets/GK3/"]

logging:
  level: "debug"
  log_file: "navtool.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Navigation.SnapRadius != 4 {
		t.Errorf("expected snap radius 4, got %d", cfg.Navigation.SnapRadius)
	}
	if cfg.Navigation.CornerRule != "strict" {
		t.Errorf("expected strict corner rule, got %s", cfg.Navigation.CornerRule)
	}
	if cfg.Navigation.MinWalkable != 128 {
		t.Errorf("expected min walkable 128, got %d", cfg.Navigation.MinWalkable)
	}
	if cfg.Collision.Radius != 12.5 {
		t.Errorf("expected radius 12.5, got %v", cfg.Collision.Radius)
	}
	if cfg.Collision.Solver != "iterative" || cfg.Collision.MaxPasses != 8 {
		t.Errorf("expected iterative solver with 8 passes, got %s/%d", cfg.Collision.Solver, cfg.Collision.MaxPasses)
	}
	if cfg.Movement.Speed != 300 {
		t.Errorf("expected speed 300, got %v", cfg.Movement.Speed)
	}
	// Unset keys keep their defaults.
	if cfg.Movement.ArrivalThreshold != 1 {
		t.Errorf("expected default arrival threshold 1, got %v", cfg.Movement.ArrivalThreshold)
	}
	if len(cfg.Assets.SearchPaths) != 2 || cfg.Assets.SearchPaths[1] != "Assets/GK3/" {
		t.Errorf("unexpected search paths %v", cfg.Assets.SearchPaths)
	}
	if cfg.Logging.LogFile != "navtool.log" {
		t.Errorf("expected log file 'navtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
navigation:
  snap_radius: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/navtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative snap radius", func(c *Config) { c.Navigation.SnapRadius = -1 }},
		{"zero sight step", func(c *Config) { c.Navigation.SightStep = 0 }},
		{"sight step above one cell", func(c *Config) { c.Navigation.SightStep = 1.5 }},
		{"unknown corner rule", func(c *Config) { c.Navigation.CornerRule = "diagonal" }},
		{"min walkable out of range", func(c *Config) { c.Navigation.MinWalkable = 300 }},
		{"zero radius", func(c *Config) { c.Collision.Radius = 0 }},
		{"unknown solver", func(c *Config) { c.Collision.Solver = "sat" }},
		{"zero passes", func(c *Config) { c.Collision.MaxPasses = 0 }},
		{"zero speed", func(c *Config) { c.Movement.Speed = 0 }},
		{"negative arrival threshold", func(c *Config) { c.Movement.ArrivalThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "navtool.yaml"), []byte("collision:\n  radius: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find navtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "navigation flags",
			setup: func() {
				*flagSnapRadius = 3
				*flagSightStep = 0.1
			},
			verify: func(cfg *Config) {
				if cfg.Navigation.SnapRadius != 3 {
					t.Errorf("expected snap radius 3, got %d", cfg.Navigation.SnapRadius)
				}
				if cfg.Navigation.SightStep != float32(0.1) {
					t.Errorf("expected sight step 0.1, got %v", cfg.Navigation.SightStep)
				}
			},
			teardown: func() {
				*flagSnapRadius = -1
				*flagSightStep = 0
			},
		},
		{
			name:  "zero snap radius disables snapping",
			setup: func() { *flagSnapRadius = 0 },
			verify: func(cfg *Config) {
				if cfg.Navigation.SnapRadius != 0 {
					t.Errorf("expected snap radius 0, got %d", cfg.Navigation.SnapRadius)
				}
			},
			teardown: func() { *flagSnapRadius = -1 },
		},
		{
			name:  "unset snap radius keeps default",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Navigation.SnapRadius != 8 {
					t.Errorf("expected default snap radius 8, got %d", cfg.Navigation.SnapRadius)
				}
			},
			teardown: func() {},
		},
		{
			name: "collision flags",
			setup: func() {
				*flagRadius = 40
				*flagSolver = "iterative"
			},
			verify: func(cfg *Config) {
				if cfg.Collision.Radius != 40 {
					t.Errorf("expected radius 40, got %v", cfg.Collision.Radius)
				}
				if cfg.Collision.Solver != "iterative" {
					t.Errorf("expected iterative solver, got %s", cfg.Collision.Solver)
				}
			},
			teardown: func() {
				*flagRadius = 0
				*flagSolver = ""
			},
		},
		{
			name:  "assets flag prepends",
			setup: func() { *flagAssets = "/data/scenes" },
			verify: func(cfg *Config) {
				if cfg.Assets.SearchPaths[0] != "/data/scenes" {
					t.Errorf("expected /data/scenes first, got %v", cfg.Assets.SearchPaths)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "navtool.yaml")

	yamlContent := `
navigation:
  snap_radius: 5
collision:
  radius: 30
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagRadius = 18
	defer func() {
		*flagConfig = ""
		*flagRadius = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Radius from flag, not file
	if cfg.Collision.Radius != 18 {
		t.Errorf("expected radius 18 from flag, got %v", cfg.Collision.Radius)
	}
	// Snap radius from file, no flag override
	if cfg.Navigation.SnapRadius != 5 {
		t.Errorf("expected snap radius 5 from file, got %d", cfg.Navigation.SnapRadius)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "navtool.yaml")

	cfg := Default()
	cfg.Collision.Solver = "iterative"
	cfg.Navigation.SnapRadius = 6
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Collision.Solver != "iterative" || loaded.Navigation.SnapRadius != 6 {
		t.Errorf("saved values not restored: %+v", loaded)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navtool.yaml")

	cfg := Default()
	cfg.Collision.Solver = "bogus"
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected error for invalid solver")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("invalid config should not be written, stat err = %v", err)
	}
}
