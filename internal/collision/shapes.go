// Package collision keeps a point-sized mover out of static scene geometry by
// treating it as a sphere and pushing it out of the triangles of a bounds model.
package collision

import "github.com/Faultbox/walkbounds/pkg/math"

// Sphere is a transient collider.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// Triangle is three positions in mesh-local space.
type Triangle struct {
	P0, P1, P2 math.Vec3
}

// Normal returns the unit face normal (counter-clockwise winding), or zero for a
// degenerate triangle.
func (t Triangle) Normal() math.Vec3 {
	return t.P1.Sub(t.P0).Cross(t.P2.Sub(t.P0)).Normalize()
}

// Degenerate reports whether the triangle has (near) zero area.
func (t Triangle) Degenerate() bool {
	return t.P1.Sub(t.P0).Cross(t.P2.Sub(t.P0)).LengthSq() < 1e-12
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// BoundsOf returns the box enclosing every vertex of tris. An empty slice gives
// an inverted box that contains nothing.
func BoundsOf(tris []Triangle) AABB {
	const inf = float32(3.4e38)
	box := AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
	for _, t := range tris {
		for _, p := range [3]math.Vec3{t.P0, t.P1, t.P2} {
			box.Min = box.Min.Min(p)
			box.Max = box.Max.Max(p)
		}
	}
	return box
}

// Grow returns the box expanded by d on every side.
func (b AABB) Grow(d float32) AABB {
	e := math.Vec3{X: d, Y: d, Z: d}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// Contains reports whether p is inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
