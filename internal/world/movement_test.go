package world

import (
	"errors"
	"testing"

	"github.com/Faultbox/walkbounds/internal/collision"
	"github.com/Faultbox/walkbounds/pkg/math"
)

type countingSolver struct {
	calls int
}

func (s *countingSolver) Resolve(pos math.Vec3, _ *collision.BoundsModel) math.Vec3 {
	s.calls++
	return pos
}

// slopeFloor rises half a unit per unit of X.
type slopeFloor struct{}

func (slopeFloor) FloorY(p math.Vec3) (float32, bool) {
	return p.X * 0.5, true
}

// followPath starts mc on waypoints without planning.
func followPath(mc *MovementController, waypoints ...math.Vec3) {
	mc.SetPosition(waypoints[0])
	mc.path = waypoints
	mc.pathIndex = 1
	mc.IsFollowingPath = true
}

func TestMovementController_FollowsPath(t *testing.T) {
	pf := NewPathFinder(newTestMap(t, 10, 10, 10, [][2]int{{4, 4}, {5, 5}, {4, 5}, {5, 4}}), DefaultOptions())
	solver := &countingSolver{}
	mc := NewMovementController(pf, solver, nil)
	mc.SetPosition(math.Vec3{X: 5, Y: 2, Z: 5})

	dest := math.Vec3{X: 95, Y: 2, Z: 95}
	path, err := mc.MoveTo(dest)
	if err != nil {
		t.Fatalf("MoveTo error: %v", err)
	}
	if len(path) < 2 || !mc.IsFollowingPath {
		t.Fatalf("expected to follow a path, got %v", path)
	}

	for i := 0; i < 200 && mc.IsFollowingPath; i++ {
		mc.Update(100)
	}

	if mc.IsFollowingPath {
		t.Fatal("path not completed")
	}
	if mc.Position().Distance(dest) > mc.ArrivalThreshold {
		t.Errorf("final position %v, want within %v of %v", mc.Position(), mc.ArrivalThreshold, dest)
	}
	if solver.calls == 0 {
		t.Error("movement should be committed through the solver")
	}
}

func TestMovementController_SpeedLimit(t *testing.T) {
	pf := NewPathFinder(newTestMap(t, 10, 10, 10, nil), DefaultOptions())
	mc := NewMovementController(pf, nil, nil)
	mc.SetPosition(math.Vec3{X: 5, Z: 5})
	mc.Speed = 100

	if _, err := mc.MoveTo(math.Vec3{X: 95, Z: 5}); err != nil {
		t.Fatalf("MoveTo error: %v", err)
	}
	mc.Update(100) // 10 units

	if got := mc.Position(); !got.ApproxEqual(math.Vec3{X: 15, Z: 5}, 1e-3) {
		t.Errorf("after one update position = %v, want (15, 0, 5)", got)
	}
}

func TestMovementController_Unreachable(t *testing.T) {
	var blocked [][2]int
	for y := 0; y < 10; y++ {
		blocked = append(blocked, [2]int{5, y})
	}
	pf := NewPathFinder(newTestMap(t, 10, 10, 10, blocked), DefaultOptions())
	mc := NewMovementController(pf, nil, nil)
	mc.SetPosition(math.Vec3{X: 5, Z: 5})

	if _, err := mc.MoveTo(math.Vec3{X: 95, Z: 5}); !errors.Is(err, ErrUnreachable) {
		t.Errorf("MoveTo error = %v, want ErrUnreachable", err)
	}
	if mc.IsFollowingPath || mc.Path() != nil {
		t.Error("failed MoveTo should leave no path")
	}
}

func TestMovementController_StepResolvesCollisions(t *testing.T) {
	wall := collision.Triangle{
		P0: math.Vec3{X: -100, Y: -100, Z: 0},
		P1: math.Vec3{X: 100, Y: -100, Z: 0},
		P2: math.Vec3{X: 0, Y: 100, Z: 0},
	}
	bounds := collision.NewBoundsModel(
		collision.NewMesh("wall", math.Identity(), []collision.Submesh{collision.NewSubmesh([]collision.Triangle{wall})}),
	)
	mc := NewMovementController(nil, collision.NewResolver(25), bounds)
	mc.SetPosition(math.Vec3{Z: -50})

	for i := 0; i < 5; i++ {
		mc.Step(math.Vec3{Z: 10})
	}
	if got := mc.Position(); !got.ApproxEqual(math.Vec3{Z: -25}, 1e-3) {
		t.Errorf("position after stepping into the wall = %v, want (0, 0, -25)", got)
	}
}

func TestMovementController_ClearPath(t *testing.T) {
	pf := NewPathFinder(newTestMap(t, 10, 10, 10, nil), DefaultOptions())
	mc := NewMovementController(pf, nil, nil)
	mc.SetPosition(math.Vec3{X: 5, Z: 5})

	if _, err := mc.MoveTo(math.Vec3{X: 95, Z: 95}); err != nil {
		t.Fatalf("MoveTo error: %v", err)
	}
	mc.ClearPath()
	before := mc.Position()
	mc.Update(100)

	if mc.IsFollowingPath || mc.PathIndex() != 0 || mc.Position() != before {
		t.Error("cleared controller should not move")
	}

	// Teleporting also drops the path
	if _, err := mc.MoveTo(math.Vec3{X: 95, Z: 95}); err != nil {
		t.Fatalf("MoveTo error: %v", err)
	}
	mc.SetPosition(math.Vec3{X: 50, Z: 50})
	if mc.IsFollowingPath {
		t.Error("SetPosition should clear the path")
	}
}

func TestMovementController_CarriesDistancePastWaypoints(t *testing.T) {
	mc := NewMovementController(nil, nil, nil)
	mc.Speed = 100
	mc.ArrivalThreshold = 0.01
	followPath(mc, math.Vec3{}, math.Vec3{X: 10}, math.Vec3{X: 10, Z: 40})

	mc.Update(150) // 15 units: 10 to the corner, 5 beyond it

	if got := mc.Position(); !got.ApproxEqual(math.Vec3{X: 10, Z: 5}, 1e-3) {
		t.Errorf("position after turning the corner = %v, want (10, 0, 5)", got)
	}
	if mc.PathIndex() != 2 || !mc.IsFollowingPath {
		t.Errorf("path index = %d, following = %v; want 2, true", mc.PathIndex(), mc.IsFollowingPath)
	}

	mc.Update(1000) // far more than the 35 units left
	if got := mc.Position(); !got.ApproxEqual(math.Vec3{X: 10, Z: 40}, 1e-3) || mc.IsFollowingPath {
		t.Errorf("position = %v, following = %v; want stopped at (10, 0, 40)", got, mc.IsFollowingPath)
	}
}

func TestMovementController_ZeroSpeedDoesNotMove(t *testing.T) {
	mc := NewMovementController(nil, nil, nil)
	mc.Speed = 0
	followPath(mc, math.Vec3{}, math.Vec3{X: 10})

	mc.Update(100)
	if mc.Position() != (math.Vec3{}) || !mc.IsFollowingPath {
		t.Errorf("zero speed moved to %v", mc.Position())
	}
}

func TestMovementController_KeepsHeightAboveFloor(t *testing.T) {
	mc := NewMovementController(nil, nil, nil)
	mc.SetFloor(slopeFloor{})
	mc.SetPosition(math.Vec3{Y: 20})

	if mc.Height() != 20 {
		t.Fatalf("Height = %v, want 20", mc.Height())
	}

	// Moving up the slope lifts the entity with the floor
	if got := mc.Step(math.Vec3{X: 10}); !got.ApproxEqual(math.Vec3{X: 10, Y: 25}, 1e-4) {
		t.Errorf("Step on slope = %v, want (10, 25, 0)", got)
	}
	// Vertical movement changes the height above the floor
	mc.Step(math.Vec3{Y: 5})
	if mc.Height() != 25 {
		t.Errorf("Height after rising = %v, want 25", mc.Height())
	}

	followPath(mc, mc.Position(), math.Vec3{X: 30})
	mc.Update(10000)
	if got := mc.Position(); !got.ApproxEqual(math.Vec3{X: 30, Y: 40}, 1e-3) {
		t.Errorf("position after following path = %v, want (30, 40, 0)", got)
	}
}

func TestMovementController_CollisionUpdatesHeight(t *testing.T) {
	ground := collision.Triangle{
		P0: math.Vec3{X: -100, Z: -100},
		P1: math.Vec3{X: 0, Z: 100},
		P2: math.Vec3{X: 100, Z: -100},
	}
	bounds := collision.NewBoundsModel(
		collision.NewMesh("ground", math.Identity(), []collision.Submesh{collision.NewSubmesh([]collision.Triangle{ground})}),
	)
	floor, err := NewHeightField(1, 1, [][4]float32{{}}, math.Vec2{X: 200, Y: 200}, math.Vec2{X: -100, Y: -100})
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}

	mc := NewMovementController(nil, collision.NewResolver(25), bounds)
	mc.SetFloor(floor)
	mc.SetPosition(math.Vec3{Y: 40})

	// Descending below the collider radius is pushed back up
	got := mc.Step(math.Vec3{Y: -30})
	if !got.ApproxEqual(math.Vec3{Y: 25}, 1e-3) {
		t.Fatalf("Step down = %v, want (0, 25, 0)", got)
	}
	if h := mc.Height(); h < 24.999 || h > 25.001 {
		t.Errorf("Height after collision = %v, want 25", h)
	}

	if got := mc.Step(math.Vec3{X: 10}); !got.ApproxEqual(math.Vec3{X: 10, Y: 25}, 1e-3) {
		t.Errorf("Step along ground = %v, want (10, 25, 0)", got)
	}
}

func TestMovementController_OffFloorKeepsY(t *testing.T) {
	floor, err := NewHeightField(1, 1, [][4]float32{{10, 10, 10, 10}}, math.Vec2{X: 10, Y: 10}, math.Vec2{})
	if err != nil {
		t.Fatalf("NewHeightField: %v", err)
	}
	mc := NewMovementController(nil, nil, nil)
	mc.SetFloor(floor)
	mc.SetPosition(math.Vec3{X: 5, Y: 12, Z: 5})

	got := mc.Step(math.Vec3{X: 100})
	if !got.ApproxEqual(math.Vec3{X: 105, Y: 12, Z: 5}, 1e-4) {
		t.Errorf("Step off the floor = %v, want Y unchanged at 12", got)
	}
	if mc.Height() != 2 {
		t.Errorf("Height = %v, want last known 2", mc.Height())
	}
}
