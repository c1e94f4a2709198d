package collision

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/walkbounds/internal/config"
	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// DefaultColliderRadius is the camera collider radius in world units.
const DefaultColliderRadius = 25

// DefaultMaxPasses bounds the iterative solver.
const DefaultMaxPasses = 4

// Solver corrects a candidate position against a bounds model.
type Solver interface {
	Resolve(pos math.Vec3, model *BoundsModel) math.Vec3
}

// Resolver pushes a sphere out of every penetrated triangle in one ordered pass.
// Each push is applied immediately, so later triangles are tested against the
// already corrected position and the result depends on triangle order. There is
// no swept test: a step large enough to cross a triangle is not caught.
type Resolver struct {
	Radius float32
}

// NewResolver creates a greedy resolver. A non-positive radius selects
// DefaultColliderRadius.
func NewResolver(radius float32) *Resolver {
	if radius <= 0 {
		radius = DefaultColliderRadius
	}
	return &Resolver{Radius: radius}
}

// Resolve returns pos corrected so the collider does not penetrate model. A nil
// model returns pos unchanged.
func (r *Resolver) Resolve(pos math.Vec3, model *BoundsModel) math.Vec3 {
	pos, _ = resolvePass(pos, r.Radius, model)
	return pos
}

// ResolveContacts is Resolve that also reports how many pushes were applied.
func (r *Resolver) ResolveContacts(pos math.Vec3, model *BoundsModel) (math.Vec3, int) {
	return resolvePass(pos, r.Radius, model)
}

// IterativeResolver repeats greedy passes until a pass applies no push or
// MaxPasses is reached. It settles contacts the single pass leaves behind when
// one push moves the sphere into an earlier triangle.
type IterativeResolver struct {
	Radius    float32
	MaxPasses int
}

// Resolve runs up to MaxPasses greedy passes.
func (r *IterativeResolver) Resolve(pos math.Vec3, model *BoundsModel) math.Vec3 {
	passes := r.MaxPasses
	if passes < 1 {
		passes = 1
	}
	for i := 0; i < passes; i++ {
		var contacts int
		pos, contacts = resolvePass(pos, r.Radius, model)
		if contacts == 0 {
			break
		}
	}
	return pos
}

// NewSolver selects a solver by config name. Unknown names are an error.
func NewSolver(cfg config.CollisionConfig) (Solver, error) {
	radius := cfg.Radius
	if radius <= 0 {
		radius = DefaultColliderRadius
	}

	var solver Solver
	switch cfg.Solver {
	case "greedy", "":
		solver = &Resolver{Radius: radius}
	case "iterative":
		passes := cfg.MaxPasses
		if passes < 1 {
			passes = DefaultMaxPasses
		}
		solver = &IterativeResolver{Radius: radius, MaxPasses: passes}
	default:
		return nil, fmt.Errorf("unknown collision solver %q", cfg.Solver)
	}

	logger.Named("collision").Debug("solver selected",
		zap.String("solver", cfg.Solver),
		zap.Float32("radius", radius))
	return solver, nil
}

func resolvePass(pos math.Vec3, radius float32, model *BoundsModel) (math.Vec3, int) {
	if model == nil {
		return pos, 0
	}

	contacts := 0
	for _, mesh := range model.Meshes {
		local := mesh.ToLocal(pos)
		moved := false

		for i := range mesh.Submeshes {
			sub := &mesh.Submeshes[i]
			if !sub.bounds.Grow(radius).Contains(local) {
				continue
			}
			for _, tri := range sub.Triangles {
				push, hit := IntersectSphereTriangle(Sphere{Center: local, Radius: radius}, tri)
				if !hit {
					continue
				}
				local = local.Add(push)
				moved = true
				contacts++
			}
		}

		if moved {
			pos = mesh.ToModel(local)
		}
	}
	return pos, contacts
}
