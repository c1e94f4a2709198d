package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSnapRadius = flag.Int("snap-radius", -1, "Endpoint snap radius in cells (0 disables snapping)")
	flagSightStep  = flag.Float64("sight-step", 0, "Line-of-sight sample step in cells")
	flagRadius     = flag.Float64("radius", 0, "Collider radius in world units")
	flagSolver     = flag.String("solver", "", "Collision solver: greedy or iterative")
	flagAssets     = flag.String("assets", "", "Asset search path, prepended to configured paths")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSnapRadius >= 0 {
		cfg.Navigation.SnapRadius = *flagSnapRadius
	}
	if *flagSightStep > 0 {
		cfg.Navigation.SightStep = float32(*flagSightStep)
	}
	if *flagRadius > 0 {
		cfg.Collision.Radius = float32(*flagRadius)
	}
	if *flagSolver != "" {
		cfg.Collision.Solver = *flagSolver
	}
	if *flagAssets != "" {
		cfg.Assets.SearchPaths = append([]string{*flagAssets}, cfg.Assets.SearchPaths...)
	}
}
