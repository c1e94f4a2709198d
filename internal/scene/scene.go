// Package scene builds the navigation view of a scene from its description
// file: the walk map, a path finder over it, and the bounds model.
package scene

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/walkbounds/internal/assets"
	"github.com/Faultbox/walkbounds/internal/collision"
	"github.com/Faultbox/walkbounds/internal/config"
	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/internal/world"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// ErrNoWalkerBoundary is returned for a scene description without a walker
// boundary.
var ErrNoWalkerBoundary = errors.New("scene has no walker boundary")

// File is the YAML scene description.
type File struct {
	Name           string        `yaml:"name"`
	WalkerBoundary *BoundaryFile `yaml:"walker_boundary"`
	BoundsModel    string        `yaml:"bounds_model"`
	Floor          string        `yaml:"floor"` // .gat heights placed over the walker boundary
}

// BoundaryFile places a walker-boundary raster in the world.
type BoundaryFile struct {
	Source string     `yaml:"source"`
	Size   []float32  `yaml:"size"`   // World X/Z extent; optional for .gat and .tmx
	Offset [2]float32 `yaml:"offset"` // World X/Z of the raster origin corner
	Layer  string     `yaml:"layer"`  // .tmx tile layer
}

// Scene is an immutable navigation snapshot. A reload builds a new Scene.
type Scene struct {
	Name       string
	Source     string // Asset name of the scene description
	WalkMap    *world.WalkMap
	PathFinder *world.PathFinder
	Bounds     *collision.BoundsModel // nil when the scene has none
	Floor      *world.HeightField     // nil when no source carries heights

	files map[string]string // filesystem path -> asset name
}

// Load reads a scene description through mgr and builds its walk map and
// bounds model. A name without an extension gets ".yaml".
func Load(mgr *assets.Manager, name string, nav config.NavigationConfig) (*Scene, error) {
	if path.Ext(name) == "" {
		name += ".yaml"
	}
	log := logger.Named("scene")

	data, err := mgr.Load(name)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", name, err)
	}
	if f.WalkerBoundary == nil || f.WalkerBoundary.Source == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrNoWalkerBoundary)
	}

	s := &Scene{
		Name:   f.Name,
		Source: name,
		files:  make(map[string]string),
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(path.Base(filepath.ToSlash(name)), path.Ext(name))
	}
	s.track(mgr, name)

	boundaryName := sibling(mgr, name, f.WalkerBoundary.Source)
	src, err := mgr.LoadBoundary(boundaryName, f.WalkerBoundary.Layer)
	if err != nil {
		return nil, fmt.Errorf("scene %s walker boundary: %w", s.Name, err)
	}
	s.track(mgr, boundaryName)

	size, err := boundarySize(f.WalkerBoundary, src)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	offset := math.Vec2{X: f.WalkerBoundary.Offset[0], Y: f.WalkerBoundary.Offset[1]}

	walkMap, err := world.NewWalkMap(src.Raster, size, offset, Predicate(nav))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	s.WalkMap = walkMap
	s.PathFinder = world.NewPathFinder(walkMap, PathOptions(nav))

	floorSrc := src
	if f.Floor != "" {
		floorName := sibling(mgr, name, f.Floor)
		floorSrc, err = mgr.LoadBoundary(floorName, "")
		if err != nil {
			return nil, fmt.Errorf("scene %s floor: %w", s.Name, err)
		}
		if floorSrc.Floor == nil {
			return nil, fmt.Errorf("scene %s floor: %s carries no heights", s.Name, f.Floor)
		}
		s.track(mgr, floorName)
	}
	if s.Floor, err = floorSrc.FloorField(size, offset); err != nil {
		return nil, fmt.Errorf("scene %s floor: %w", s.Name, err)
	}

	if f.BoundsModel != "" {
		boundsName := sibling(mgr, name, f.BoundsModel)
		model, err := mgr.LoadBoundsModel(boundsName)
		if err != nil {
			return nil, fmt.Errorf("scene %s bounds model: %w", s.Name, err)
		}
		s.Bounds = model
		s.track(mgr, boundsName)
	}

	log.Info("scene loaded",
		zap.String("scene", s.Name),
		zap.Int("width", src.Raster.Width),
		zap.Int("height", src.Raster.Height),
		zap.Int("walkable", walkMap.WalkableCount()),
		zap.Int("triangles", s.Bounds.TriangleCount()),
		zap.Bool("floor", s.Floor != nil))
	return s, nil
}

// Reload invalidates every file prev was built from and loads it again.
func Reload(mgr *assets.Manager, prev *Scene, nav config.NavigationConfig) (*Scene, error) {
	for _, name := range prev.files {
		mgr.Invalidate(name)
	}
	return Load(mgr, prev.Source, nav)
}

// Uses reports whether the file at path fed into this scene.
func (s *Scene) Uses(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := s.files[abs]
	return ok
}

// Dirs returns the directories holding the scene's files, sorted.
func (s *Scene) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for p := range s.files {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Predicate returns the walkability predicate configured by nav.
func Predicate(nav config.NavigationConfig) world.Predicate {
	if nav.MinWalkable > 0 {
		return world.MinValue(uint8(nav.MinWalkable))
	}
	return world.DefaultPredicate
}

// PathOptions returns planner options configured by nav.
func PathOptions(nav config.NavigationConfig) world.Options {
	opts := world.DefaultOptions()
	opts.SnapRadius = nav.SnapRadius
	if nav.SightStep > 0 {
		opts.SightStep = nav.SightStep
	}
	if rule, ok := world.ParseCornerRule(nav.CornerRule); ok {
		opts.Corners = rule
	}
	return opts
}

func (s *Scene) track(mgr *assets.Manager, name string) {
	p, err := mgr.Path(name)
	if err != nil {
		return
	}
	if abs, err := filepath.Abs(p); err == nil {
		s.files[abs] = name
	}
}

// sibling resolves ref next to the scene file when it exists there, and as a
// plain asset name otherwise.
func sibling(mgr *assets.Manager, sceneName, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	candidate := path.Join(path.Dir(filepath.ToSlash(sceneName)), ref)
	if _, _, err := mgr.Locate(candidate); err == nil {
		return candidate
	}
	return ref
}

func boundarySize(b *BoundaryFile, src *assets.BoundarySource) (math.Vec2, error) {
	switch len(b.Size) {
	case 2:
		return math.Vec2{X: b.Size[0], Y: b.Size[1]}, nil
	case 0:
		if src.NaturalSize.X > 0 && src.NaturalSize.Y > 0 {
			return src.NaturalSize, nil
		}
		return math.Vec2{}, fmt.Errorf("walker boundary %s needs a size", b.Source)
	default:
		return math.Vec2{}, fmt.Errorf("walker boundary size must be [x, z], got %v", b.Size)
	}
}
