// navtool is a CLI utility for inspecting scene walkability, planning paths and
// checking collision resolution.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/walkbounds/internal/assets"
	"github.com/Faultbox/walkbounds/internal/collision"
	"github.com/Faultbox/walkbounds/internal/config"
	"github.com/Faultbox/walkbounds/internal/debug"
	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/internal/scene"
	"github.com/Faultbox/walkbounds/internal/world"
	"github.com/Faultbox/walkbounds/pkg/math"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debug("navtool starting",
		zap.String("command", command),
		zap.Strings("search_paths", cfg.Assets.SearchPaths))

	app := &app{
		cfg:    cfg,
		assets: assets.NewManager(cfg.Assets.SearchPaths...),
	}
	rest := args[1:]

	switch command {
	case "info":
		err = app.cmdInfo(rest)
	case "walk":
		err = app.cmdWalk(rest)
	case "path":
		err = app.cmdPath(rest)
	case "resolve":
		err = app.cmdResolve(rest)
	case "bench":
		err = app.cmdBench(rest)
	case "watch":
		err = app.cmdWatch(rest)
	case "config":
		err = app.cmdConfig(rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`navtool - scene walkability and collision utility

Usage:
  navtool [global options] <command> [options]

Commands:
  info <scene>                          Show walk map and bounds model summary
  walk <scene> <x> <z>                  Check whether a world position is walkable
  path [-png file | -png-dir dir] <scene> <x1> <z1> <x2> <z2>
                                        Plan a path and print its waypoints
  resolve <scene> <x> <y> <z>           Push a position out of the bounds model
  bench [-n N] [-workers W] <scene>     Plan random paths concurrently
  watch <scene>                         Reload the scene when its files change
  config [file]                         Write the effective config (default user config dir)

Global options:
  -config <file>     Config file (default ./navtool.yaml)
  -assets <dir>      Extra asset search path, searched first
  -snap-radius <n>   Endpoint snap radius in cells (0 disables)
  -sight-step <f>    Line-of-sight sample step in cells
  -radius <f>        Collider radius
  -solver <name>     Collision solver: greedy or iterative
  -debug             Debug logging

Examples:
  navtool info R25
  navtool walk R25 120 -40
  navtool path -png r25.png R25 0 0 350 200
  navtool -solver iterative resolve R25 10 0 -20`)
}

type app struct {
	cfg    *config.Config
	assets *assets.Manager
}

func (a *app) loadScene(name string) (*scene.Scene, error) {
	return scene.Load(a.assets, name, a.cfg.Navigation)
}

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		return usageError("navtool info <scene>")
	}
	s, err := a.loadScene(args[0])
	if err != nil {
		return err
	}

	tr := s.WalkMap.Transform()
	size, offset, cell := tr.Size(), tr.Offset(), tr.CellSize()
	total := s.WalkMap.Width() * s.WalkMap.Height()
	walkable := s.WalkMap.WalkableCount()

	fmt.Printf("Scene:     %s (%s)\n", s.Name, s.Source)
	fmt.Printf("Raster:    %d x %d cells\n", s.WalkMap.Width(), s.WalkMap.Height())
	fmt.Printf("World:     %.1f x %.1f at (%.1f, %.1f)\n", size.X, size.Y, offset.X, offset.Y)
	fmt.Printf("Cell:      %.3f x %.3f\n", cell.X, cell.Y)
	fmt.Printf("Walkable:  %d / %d (%.1f%%)\n", walkable, total, 100*float64(walkable)/float64(total))
	if s.Bounds != nil {
		fmt.Printf("Bounds:    %d meshes, %d triangles\n", len(s.Bounds.Meshes), s.Bounds.TriangleCount())
		for _, m := range s.Bounds.Meshes {
			fmt.Printf("  %-20s %d triangles\n", m.Name, m.TriangleCount())
		}
	} else {
		fmt.Println("Bounds:    none")
	}
	if s.Floor != nil {
		fmt.Println("Floor:     per-cell heights")
	} else {
		fmt.Println("Floor:     none")
	}
	return nil
}

func (a *app) cmdWalk(args []string) error {
	if len(args) < 3 {
		return usageError("navtool walk <scene> <x> <z>")
	}
	s, err := a.loadScene(args[0])
	if err != nil {
		return err
	}
	coords, err := parseFloats(args[1:3])
	if err != nil {
		return err
	}

	p := math.Vec3{X: coords[0], Z: coords[1]}
	x, y, inside := s.WalkMap.Cell(p)
	switch {
	case !inside:
		fmt.Printf("(%.2f, %.2f): outside the walk map\n", p.X, p.Z)
	case s.WalkMap.CanWalkTo(p):
		fmt.Printf("(%.2f, %.2f): walkable, cell (%d, %d) value %d\n", p.X, p.Z, x, y, s.WalkMap.Raster().At(x, y))
	default:
		fmt.Printf("(%.2f, %.2f): blocked, cell (%d, %d) value %d\n", p.X, p.Z, x, y, s.WalkMap.Raster().At(x, y))
	}
	return nil
}

func (a *app) cmdPath(args []string) error {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	pngOut := fs.String("png", "", "Write an overlay of the path to this PNG file")
	pngDir := fs.String("png-dir", "", "Write a timestamped overlay into this directory")
	scale := fs.Int("scale", 4, "Overlay pixels per cell")
	fs.Parse(args)

	if fs.NArg() < 5 {
		return usageError("navtool path [-png file | -png-dir dir] <scene> <x1> <z1> <x2> <z2>")
	}
	s, err := a.loadScene(fs.Arg(0))
	if err != nil {
		return err
	}
	coords, err := parseFloats(fs.Args()[1:5])
	if err != nil {
		return err
	}

	from := math.Vec3{X: coords[0], Z: coords[1]}
	to := math.Vec3{X: coords[2], Z: coords[3]}
	path, err := s.PathFinder.FindPath(from, to)
	if err != nil {
		return err
	}

	var length float32
	for i, p := range path {
		if i > 0 {
			length += p.Distance(path[i-1])
		}
		fmt.Printf("%3d  (%.2f, %.2f)\n", i, p.X, p.Z)
	}
	fmt.Printf("%d waypoints, length %.2f\n", len(path), length)

	if *pngOut != "" || *pngDir != "" {
		name, err := saveOverlay(s.WalkMap, path, s.Name, *pngOut, *pngDir, *scale)
		if err != nil {
			return err
		}
		fmt.Printf("Overlay written to %s\n", name)
	}
	return nil
}

// saveOverlay renders path over walk and writes it to file, or when file is
// empty, to a timestamped <prefix>_<time>.png in dir.
func saveOverlay(walk *world.WalkMap, path []math.Vec3, prefix, file, dir string, scale int) (string, error) {
	img := debug.RenderOverlay(walk, path, scale)
	if file != "" {
		return file, debug.SavePNG(file, img)
	}
	return debug.NewCapture(dir, prefix).Save(img)
}

func (a *app) cmdResolve(args []string) error {
	if len(args) < 4 {
		return usageError("navtool resolve <scene> <x> <y> <z>")
	}
	s, err := a.loadScene(args[0])
	if err != nil {
		return err
	}
	coords, err := parseFloats(args[1:4])
	if err != nil {
		return err
	}

	solver, err := collision.NewSolver(a.cfg.Collision)
	if err != nil {
		return err
	}

	pos := math.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}
	resolved := solver.Resolve(pos, s.Bounds)
	fmt.Printf("Input:    (%.3f, %.3f, %.3f)\n", pos.X, pos.Y, pos.Z)
	fmt.Printf("Resolved: (%.3f, %.3f, %.3f)\n", resolved.X, resolved.Y, resolved.Z)
	fmt.Printf("Moved:    %.3f (solver %s, radius %.1f)\n",
		resolved.Distance(pos), a.cfg.Collision.Solver, a.cfg.Collision.Radius)
	if !s.WalkMap.CanWalkTo(resolved) {
		fmt.Println("Warning:  resolved position is not walkable")
	}
	return nil
}

func (a *app) cmdConfig(args []string) error {
	var (
		path string
		err  error
	)
	if len(args) > 0 {
		path = args[0]
		err = a.cfg.SaveTo(path)
	} else {
		path, err = a.cfg.Save()
	}
	if err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", path)
	return nil
}

// newController wires a movement controller for s from the config.
func (a *app) newController(s *scene.Scene) (*world.MovementController, error) {
	solver, err := collision.NewSolver(a.cfg.Collision)
	if err != nil {
		return nil, err
	}
	mc := world.NewMovementController(s.PathFinder, solver, s.Bounds)
	mc.Speed = a.cfg.Movement.Speed
	mc.ArrivalThreshold = a.cfg.Movement.ArrivalThreshold
	if s.Floor != nil {
		mc.SetFloor(s.Floor)
	}
	return mc, nil
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", s)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
