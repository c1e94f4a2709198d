package world

import (
	"container/heap"
	"errors"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// Path planning errors.
var (
	// ErrUnreachable covers both an endpoint with no walkable cell nearby and
	// endpoints in disconnected walkable regions.
	ErrUnreachable = errors.New("destination unreachable")

	errNilRaster = errors.New("walk map needs a raster")
)

// Planner defaults.
const (
	DefaultSnapRadius = 8    // cells
	DefaultSightStep  = 0.25 // cells
)

// CornerRule selects which diagonal steps the grid search allows.
type CornerRule int

const (
	// CornerLoose rejects a diagonal only when both orthogonal neighbors are blocked.
	CornerLoose CornerRule = iota
	// CornerStrict rejects a diagonal when either orthogonal neighbor is blocked.
	CornerStrict
)

// ParseCornerRule converts a config name to a CornerRule.
func ParseCornerRule(name string) (CornerRule, bool) {
	switch name {
	case "loose", "":
		return CornerLoose, true
	case "strict":
		return CornerStrict, true
	default:
		return CornerLoose, false
	}
}

// Options tune the path finder.
type Options struct {
	SnapRadius int        // Window half-size, in cells, searched for a walkable endpoint
	SightStep  float32    // Line-of-sight sample spacing, in cells
	Corners    CornerRule // Diagonal corner rule
}

// DefaultOptions returns the documented planner defaults.
func DefaultOptions() Options {
	return Options{
		SnapRadius: DefaultSnapRadius,
		SightStep:  DefaultSightStep,
		Corners:    CornerLoose,
	}
}

// PathNode represents a node in the A* search.
type PathNode struct {
	X, Y   int     // Cell coordinates
	G      float64 // Cost from start
	H      float64 // Straight-line distance to goal
	F      float64 // G + H
	Parent *PathNode
	Index  int // Index in heap
	seq    int // Insertion order, last tie-breaker
}

// PathHeap implements a priority queue for A* pathfinding.
// Ties on F prefer the node nearer the goal, then the earlier-inserted node.
type PathHeap []*PathNode

func (h PathHeap) Len() int { return len(h) }
func (h PathHeap) Less(i, j int) bool {
	if h[i].F != h[j].F {
		return h[i].F < h[j].F
	}
	if h[i].H != h[j].H {
		return h[i].H < h[j].H
	}
	return h[i].seq < h[j].seq
}
func (h PathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *PathHeap) Push(x interface{}) {
	n := len(*h)
	node := x.(*PathNode)
	node.Index = n
	*h = append(*h, node)
}

func (h *PathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[0 : n-1]
	return node
}

// Directions: 8-way movement in fixed compass order S, SW, W, NW, N, NE, E, SE.
// Odd indices are diagonals.
var directions = [8][2]int{
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
}

// PathFinder plans routes over a WalkMap's raster. It holds no per-query state
// and is safe for concurrent use.
type PathFinder struct {
	walk *WalkMap
	opts Options
}

// NewPathFinder creates a new pathfinder. Non-positive option values fall back
// to the defaults.
func NewPathFinder(walk *WalkMap, opts Options) *PathFinder {
	if walk == nil {
		return nil
	}
	if opts.SnapRadius < 0 {
		opts.SnapRadius = DefaultSnapRadius
	}
	if opts.SightStep <= 0 {
		opts.SightStep = DefaultSightStep
	}
	return &PathFinder{walk: walk, opts: opts}
}

// WalkMap returns the map this finder plans over.
func (pf *PathFinder) WalkMap() *WalkMap {
	return pf.walk
}

// Options returns the finder's options.
func (pf *PathFinder) Options() Options {
	return pf.opts
}

// FindPath returns world-space waypoints from `from` to `to`. The first waypoint
// is `from` and the last is `to`, exactly as given; the points between are
// simplified cell centers at from's height. When both endpoints are walkable,
// every segment between consecutive waypoints is walkable under LineWalkable.
func (pf *PathFinder) FindPath(from, to math.Vec3) ([]math.Vec3, error) {
	if pf == nil || pf.walk == nil {
		return nil, ErrUnreachable
	}

	sx, sy, ok := pf.Snap(from)
	if !ok {
		logger.Debug("path start has no walkable cell nearby", zap.Any("from", from))
		return nil, ErrUnreachable
	}
	gx, gy, ok := pf.Snap(to)
	if !ok {
		logger.Debug("path goal has no walkable cell nearby", zap.Any("to", to))
		return nil, ErrUnreachable
	}

	if sx == gx && sy == gy {
		return []math.Vec3{from, to}, nil
	}

	cells := pf.FindCellPath(sx, sy, gx, gy)
	if cells == nil {
		logger.Debug("no connected route",
			zap.Ints("start", []int{sx, sy}), zap.Ints("goal", []int{gx, gy}))
		return nil, ErrUnreachable
	}

	dense := make([]math.Vec3, 0, len(cells)+2)
	dense = append(dense, from)
	for i, c := range cells {
		if i > 0 {
			if x, y, ok := pf.squeezedCorner(cells[i-1], c); ok {
				dense = append(dense, pf.walk.CellCenter(x, y, from.Y))
			}
		}
		dense = append(dense, pf.walk.CellCenter(c[0], c[1], from.Y))
	}
	dense = append(dense, to)

	return pf.Simplify(dense), nil
}

// FindCellPath finds a cell route from start to goal using A*.
// Returns nil if either cell is unwalkable or no route exists.
func (pf *PathFinder) FindCellPath(startX, startY, goalX, goalY int) [][2]int {
	if !pf.walk.WalkableCell(startX, startY) || !pf.walk.WalkableCell(goalX, goalY) {
		return nil
	}

	width := pf.walk.Width()
	nodes := make([]*PathNode, width*pf.walk.Height())
	closed := make([]bool, len(nodes))

	openSet := &PathHeap{}
	heap.Init(openSet)
	seq := 0

	start := &PathNode{X: startX, Y: startY, H: heuristic(startX, startY, goalX, goalY)}
	start.F = start.H
	heap.Push(openSet, start)
	nodes[startY*width+startX] = start

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*PathNode)
		if current.X == goalX && current.Y == goalY {
			return reconstructPath(current)
		}
		closed[current.Y*width+current.X] = true

		for i, dir := range directions {
			nx, ny := current.X+dir[0], current.Y+dir[1]
			if !pf.walk.WalkableCell(nx, ny) || closed[ny*width+nx] {
				continue
			}

			moveCost := 1.0
			if i%2 == 1 {
				if !pf.diagonalAllowed(current.X, current.Y, dir) {
					continue
				}
				moveCost = gomath.Sqrt2
			}

			g := current.G + moveCost
			key := ny*width + nx
			neighbor := nodes[key]
			if neighbor == nil {
				seq++
				neighbor = &PathNode{
					X:      nx,
					Y:      ny,
					G:      g,
					H:      heuristic(nx, ny, goalX, goalY),
					Parent: current,
					seq:    seq,
				}
				neighbor.F = neighbor.G + neighbor.H
				nodes[key] = neighbor
				heap.Push(openSet, neighbor)
			} else if g < neighbor.G {
				neighbor.G = g
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nil
}

// Snap returns the walkable cell nearest to p within the snap radius. A point
// already on a walkable cell snaps to that cell. Ties go to the first cell in
// row-major order.
func (pf *PathFinder) Snap(p math.Vec3) (x, y int, ok bool) {
	r := pf.walk.Transform().WorldToRaster(p)
	rx, ry := float64(r.X), float64(r.Y)
	if gomath.IsNaN(rx) || gomath.IsNaN(ry) {
		return 0, 0, false
	}

	if cx, cy, inside := pf.walk.Cell(p); inside && pf.walk.WalkableCell(cx, cy) {
		return cx, cy, true
	}

	radius := pf.opts.SnapRadius
	limitX := float64(pf.walk.Width() + radius + 1)
	limitY := float64(pf.walk.Height() + radius + 1)
	if rx < -float64(radius+1) || ry < -float64(radius+1) || rx > limitX || ry > limitY {
		return 0, 0, false
	}

	cx := int(gomath.Floor(rx))
	cy := int(gomath.Floor(ry))
	best := gomath.Inf(1)
	for yy := cy - radius; yy <= cy+radius; yy++ {
		for xx := cx - radius; xx <= cx+radius; xx++ {
			if !pf.walk.WalkableCell(xx, yy) {
				continue
			}
			dx := float64(xx) + 0.5 - rx
			dy := float64(yy) + 0.5 - ry
			if d := dx*dx + dy*dy; d < best {
				best = d
				x, y, ok = xx, yy, true
			}
		}
	}
	return x, y, ok
}

// LineWalkable samples the straight segment from a to b every SightStep cells,
// both endpoints included, with the same test CanWalkTo uses.
func (pf *PathFinder) LineWalkable(a, b math.Vec3) bool {
	cell := pf.walk.Transform().CellSize()
	step := pf.opts.SightStep * min(cell.X, cell.Y)

	length := b.XZ().Distance(a.XZ())
	n := int(gomath.Ceil(float64(length / step)))
	if n < 1 {
		n = 1
	}

	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		p := math.Vec3{
			X: a.X + (b.X-a.X)*t,
			Y: a.Y,
			Z: a.Z + (b.Z-a.Z)*t,
		}
		if !pf.walk.CanWalkTo(p) {
			return false
		}
	}
	return true
}

// Simplify removes waypoints by string pulling: from the current waypoint it
// keeps the farthest-ahead waypoint with a walkable straight segment, dropping
// everything in between. The immediate successor is always accepted.
func (pf *PathFinder) Simplify(points []math.Vec3) []math.Vec3 {
	if len(points) <= 2 {
		return points
	}

	out := []math.Vec3{points[0]}
	last := len(points) - 1
	for i := 0; i < last; {
		next := i + 1
		for j := last; j > i+1; j-- {
			if pf.LineWalkable(points[i], points[j]) {
				next = j
				break
			}
		}
		out = append(out, points[next])
		i = next
	}
	return out
}

func (pf *PathFinder) diagonalAllowed(x, y int, dir [2]int) bool {
	horiz := pf.walk.WalkableCell(x+dir[0], y)
	vert := pf.walk.WalkableCell(x, y+dir[1])
	if pf.opts.Corners == CornerStrict {
		return horiz && vert
	}
	return horiz || vert
}

// squeezedCorner reports the open orthogonal neighbor to route through when the
// step from a to b is a diagonal past a blocked cell. The straight diagonal
// between cell centers crosses the shared corner point, which the sampler may
// attribute to the blocked cell.
func (pf *PathFinder) squeezedCorner(a, b [2]int) (x, y int, ok bool) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if dx == 0 || dy == 0 {
		return 0, 0, false
	}
	horiz := pf.walk.WalkableCell(a[0]+dx, a[1])
	vert := pf.walk.WalkableCell(a[0], a[1]+dy)
	switch {
	case horiz && vert:
		return 0, 0, false
	case horiz:
		return a[0] + dx, a[1], true
	default:
		return a[0], a[1] + dy, true
	}
}

// heuristic is the straight-line distance between cells.
func heuristic(x1, y1, x2, y2 int) float64 {
	return gomath.Hypot(float64(x2-x1), float64(y2-y1))
}

func reconstructPath(node *PathNode) [][2]int {
	var path [][2]int
	for node != nil {
		path = append(path, [2]int{node.X, node.Y})
		node = node.Parent
	}
	// Built from goal to start
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
