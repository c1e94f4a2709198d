package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/walkbounds/internal/collision"
	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// Movement defaults.
const (
	DefaultMoveSpeed        = 150 // World units per second
	DefaultArrivalThreshold = 1   // World units
)

// MovementController moves a single entity: along planned paths, or freely by
// deltas. Every committed position goes through the collision solver when one
// is set. With a floor, the entity keeps its height above the ground: the
// candidate is lifted to floor + height before collision, and the height is
// re-derived from where the solver left it. It is owned by one goroutine.
type MovementController struct {
	pathFinder *PathFinder
	solver     collision.Solver
	bounds     *collision.BoundsModel
	floor      Floor

	position math.Vec3
	height   float32 // Above the floor; meaningful only with a floor

	Speed            float32 // World units per second
	ArrivalThreshold float32 // Distance at which a waypoint counts as reached

	// Current path
	path      []math.Vec3
	pathIndex int

	// Movement state
	IsFollowingPath bool
}

// NewMovementController creates a new movement controller. solver and bounds
// may be nil, in which case positions are committed unchanged.
func NewMovementController(pathFinder *PathFinder, solver collision.Solver, bounds *collision.BoundsModel) *MovementController {
	return &MovementController{
		pathFinder:       pathFinder,
		solver:           solver,
		bounds:           bounds,
		Speed:            DefaultMoveSpeed,
		ArrivalThreshold: DefaultArrivalThreshold,
	}
}

// SetFloor sets the ground the entity keeps its height above, or removes it
// when f is nil. The height is taken from the current position.
func (mc *MovementController) SetFloor(f Floor) {
	mc.floor = f
	mc.deriveHeight()
}

// SetPosition teleports the entity. No collision is applied and the current
// path is dropped.
func (mc *MovementController) SetPosition(p math.Vec3) {
	mc.position = p
	mc.deriveHeight()
	mc.ClearPath()
}

// Height returns the height above the floor.
func (mc *MovementController) Height() float32 {
	return mc.height
}

// Position returns the current position.
func (mc *MovementController) Position() math.Vec3 {
	return mc.position
}

// MoveTo plans a route from the current position to dest and starts following
// it. On failure the previous path is cleared and the error is returned.
func (mc *MovementController) MoveTo(dest math.Vec3) ([]math.Vec3, error) {
	mc.ClearPath()

	path, err := mc.pathFinder.FindPath(mc.position, dest)
	if err != nil {
		return nil, err
	}

	// First waypoint is the current position
	mc.path = path
	mc.pathIndex = 1
	mc.IsFollowingPath = len(path) > 1

	logger.Debug("following path",
		zap.Int("waypoints", len(path)),
		zap.Any("dest", dest))
	return path, nil
}

// Update advances along the current path by Speed for deltaMs milliseconds.
// Distance left after reaching a waypoint carries on toward the next one. A
// tick ends early when collision holds the entity short of its waypoint.
func (mc *MovementController) Update(deltaMs float32) {
	if !mc.IsFollowingPath || deltaMs <= 0 {
		return
	}

	remaining := mc.Speed * deltaMs / 1000.0
	for mc.IsFollowingPath {
		target := mc.path[mc.pathIndex]
		delta := target.XZ().Sub(mc.position.XZ())
		dist := delta.Length()

		if dist > mc.ArrivalThreshold {
			if remaining <= 0 {
				return
			}
			moveAmount := min(remaining, dist)
			step := delta.Scale(moveAmount / dist)
			mc.commit(math.Vec3{
				X: mc.position.X + step.X,
				Y: mc.position.Y,
				Z: mc.position.Z + step.Y,
			})
			remaining -= moveAmount
			dist = target.XZ().Distance(mc.position.XZ())
			if dist > mc.ArrivalThreshold {
				return
			}
		}

		mc.pathIndex++
		if mc.pathIndex >= len(mc.path) {
			mc.IsFollowingPath = false
		}
	}
}

// Step moves freely by delta, resolving collisions, and returns the committed
// position. With a floor, delta.Y changes the height above it. The current
// path, if any, is kept.
func (mc *MovementController) Step(delta math.Vec3) math.Vec3 {
	mc.commit(mc.position.Add(delta))
	return mc.position
}

// ClearPath stops the current path following.
func (mc *MovementController) ClearPath() {
	mc.path = nil
	mc.pathIndex = 0
	mc.IsFollowingPath = false
}

// Path returns the current path.
func (mc *MovementController) Path() []math.Vec3 {
	return mc.path
}

// PathIndex returns the index of the waypoint being walked toward.
func (mc *MovementController) PathIndex() int {
	return mc.pathIndex
}

func (mc *MovementController) commit(candidate math.Vec3) {
	if mc.floor != nil {
		if floorY, ok := mc.floor.FloorY(candidate); ok {
			candidate.Y = floorY + mc.height + (candidate.Y - mc.position.Y)
		}
	}
	if mc.solver != nil {
		candidate = mc.solver.Resolve(candidate, mc.bounds)
	}
	mc.position = candidate
	mc.deriveHeight()
}

// deriveHeight measures the height above the floor at the current position.
// Off the floor the last height is kept.
func (mc *MovementController) deriveHeight() {
	if mc.floor == nil {
		return
	}
	if floorY, ok := mc.floor.FloorY(mc.position); ok {
		mc.height = mc.position.Y - floorY
	}
}
