package assets

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/walkbounds/internal/collision"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// boundsFile is the YAML layout of a bounds model.
type boundsFile struct {
	Meshes []meshFile `yaml:"meshes"`
}

type meshFile struct {
	Name      string        `yaml:"name"`
	Position  [3]float32    `yaml:"position"`
	Rotation  *rotationFile `yaml:"rotation"`
	Scale     *[3]float32   `yaml:"scale"`
	Submeshes []submeshFile `yaml:"submeshes"`
}

type rotationFile struct {
	Axis    [3]float32 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
}

type submeshFile struct {
	Triangles [][3][3]float32 `yaml:"triangles"`
}

// DecodeBoundsModel parses a YAML bounds model. Mesh and triangle order is kept
// as written; it decides the order collisions are resolved in.
func DecodeBoundsModel(data []byte) (*collision.BoundsModel, error) {
	var f boundsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing bounds model: %w", err)
	}

	meshes := make([]*collision.Mesh, 0, len(f.Meshes))
	for i, mf := range f.Meshes {
		mesh, err := mf.build()
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, mf.Name, err)
		}
		meshes = append(meshes, mesh)
	}
	return collision.NewBoundsModel(meshes...), nil
}

func (mf meshFile) build() (*collision.Mesh, error) {
	scale := math.Vec3{X: 1, Y: 1, Z: 1}
	if mf.Scale != nil {
		scale = vec3(*mf.Scale)
		if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
			return nil, fmt.Errorf("zero scale %v", scale)
		}
	}

	rotation := math.QuatIdentity()
	if mf.Rotation != nil {
		rotation = math.QuatFromAxisAngle(vec3(mf.Rotation.Axis), mf.Rotation.Degrees*degToRad)
	}

	submeshes := make([]collision.Submesh, 0, len(mf.Submeshes))
	for _, sf := range mf.Submeshes {
		tris := make([]collision.Triangle, len(sf.Triangles))
		for i, t := range sf.Triangles {
			tris[i] = collision.Triangle{P0: vec3(t[0]), P1: vec3(t[1]), P2: vec3(t[2])}
		}
		submeshes = append(submeshes, collision.NewSubmesh(tris))
	}

	transform := math.Compose(vec3(mf.Position), rotation, scale)
	return collision.NewMesh(mf.Name, transform, submeshes), nil
}

const degToRad = 3.14159265358979323846 / 180

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
