// Package world answers where an entity may walk in a scene: point walkability
// against a rasterized walker boundary, grid path planning over that raster, and
// a movement controller that follows planned paths under collision constraints.
package world

import (
	gomath "math"

	"github.com/Faultbox/walkbounds/pkg/math"
)

// WalkMap is a rasterized walkable-area classification placed in world space.
// It is immutable after construction and safe for concurrent readers.
type WalkMap struct {
	raster    *Raster
	transform RasterTransform
	walkable  Predicate
}

// NewWalkMap places raster over the world rectangle starting at offset with
// extent size. A nil predicate selects DefaultPredicate.
func NewWalkMap(raster *Raster, size, offset math.Vec2, walkable Predicate) (*WalkMap, error) {
	if raster == nil {
		return nil, errNilRaster
	}
	transform, err := NewRasterTransform(size, offset, raster.Width, raster.Height)
	if err != nil {
		return nil, err
	}
	if walkable == nil {
		walkable = DefaultPredicate
	}
	return &WalkMap{
		raster:    raster,
		transform: transform,
		walkable:  walkable,
	}, nil
}

// CanWalkTo reports whether a world position is walkable. The vertical axis is
// ignored. Positions outside the map are never walkable.
func (m *WalkMap) CanWalkTo(p math.Vec3) bool {
	x, y, ok := m.Cell(p)
	if !ok {
		return false
	}
	return m.walkable(m.raster.At(x, y))
}

// Cell returns the raster cell containing p. Points inside the world rectangle
// whose raster coordinate rounds onto the far edge are clamped to the last cell.
func (m *WalkMap) Cell(p math.Vec3) (x, y int, ok bool) {
	if m == nil || !m.transform.Contains(p) {
		return 0, 0, false
	}
	r := m.transform.WorldToRaster(p)
	x = clampInt(int(gomath.Floor(float64(r.X))), 0, m.raster.Width-1)
	y = clampInt(int(gomath.Floor(float64(r.Y))), 0, m.raster.Height-1)
	return x, y, true
}

// WalkableCell reports whether a raster cell is in bounds and walkable.
func (m *WalkMap) WalkableCell(x, y int) bool {
	if m == nil || !m.raster.InBounds(x, y) {
		return false
	}
	return m.walkable(m.raster.At(x, y))
}

// CellCenter returns the world position of a cell's center at height y.
func (m *WalkMap) CellCenter(x, y int, height float32) math.Vec3 {
	return m.transform.RasterToWorld(math.Vec2{X: float32(x) + 0.5, Y: float32(y) + 0.5}, height)
}

// Transform returns the world/raster transform.
func (m *WalkMap) Transform() RasterTransform {
	return m.transform
}

// Raster returns the underlying raster. Callers must not modify it.
func (m *WalkMap) Raster() *Raster {
	return m.raster
}

// Width returns the raster width in cells.
func (m *WalkMap) Width() int {
	return m.raster.Width
}

// Height returns the raster height in cells.
func (m *WalkMap) Height() int {
	return m.raster.Height
}

// WalkableCount returns the number of walkable cells.
func (m *WalkMap) WalkableCount() int {
	return m.raster.Count(m.walkable)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
