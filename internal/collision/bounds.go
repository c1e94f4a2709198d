package collision

import "github.com/Faultbox/walkbounds/pkg/math"

// Submesh is an ordered run of triangles in mesh-local space.
type Submesh struct {
	Triangles []Triangle
	bounds    AABB
}

// NewSubmesh caches the local bounds of tris.
func NewSubmesh(tris []Triangle) Submesh {
	return Submesh{Triangles: tris, bounds: BoundsOf(tris)}
}

// Bounds returns the local AABB of the submesh's vertices.
func (s *Submesh) Bounds() AABB {
	return s.bounds
}

// Mesh is a piece of collision geometry placed in the model by a local
// transform.
type Mesh struct {
	Name      string
	Submeshes []Submesh

	transform math.Mat4
	inverse   math.Mat4
}

// NewMesh builds a mesh with the given mesh-to-model transform. The inverse is
// computed once here.
func NewMesh(name string, transform math.Mat4, submeshes []Submesh) *Mesh {
	return &Mesh{
		Name:      name,
		Submeshes: submeshes,
		transform: transform,
		inverse:   transform.Inverse(),
	}
}

// Transform returns the mesh-to-model transform.
func (m *Mesh) Transform() math.Mat4 {
	return m.transform
}

// ToLocal converts a model-space point into mesh-local space.
func (m *Mesh) ToLocal(p math.Vec3) math.Vec3 {
	return m.inverse.TransformPoint(p)
}

// ToModel converts a mesh-local point into model space.
func (m *Mesh) ToModel(p math.Vec3) math.Vec3 {
	return m.transform.TransformPoint(p)
}

// TriangleCount returns the number of triangles across all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for i := range m.Submeshes {
		n += len(m.Submeshes[i].Triangles)
	}
	return n
}

// BoundsModel is the invisible collision geometry of a scene. The model is
// placed at the world origin with identity transform. It is read-only after
// construction.
type BoundsModel struct {
	Meshes []*Mesh
}

// NewBoundsModel creates a model from meshes, dropping nil entries.
func NewBoundsModel(meshes ...*Mesh) *BoundsModel {
	model := &BoundsModel{Meshes: make([]*Mesh, 0, len(meshes))}
	for _, m := range meshes {
		if m != nil {
			model.Meshes = append(model.Meshes, m)
		}
	}
	return model
}

// TriangleCount returns the number of triangles in the model.
func (b *BoundsModel) TriangleCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, m := range b.Meshes {
		n += m.TriangleCount()
	}
	return n
}
