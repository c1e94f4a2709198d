package world

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/walkbounds/pkg/math"
)

// Floor reports the ground height under a world position. ok is false where
// the floor is unknown.
type Floor interface {
	FloorY(p math.Vec3) (y float32, ok bool)
}

// HeightField is a grid of per-cell corner heights placed in world space the
// same way as a WalkMap. Heights are world Y, up positive.
type HeightField struct {
	width, height int
	corners       [][4]float32 // bottom-left, bottom-right, top-left, top-right
	transform     RasterTransform
}

// NewHeightField places width x height cells of corner heights over the world
// rectangle starting at offset with extent size. "Bottom" corners are on the
// low-Z edge of a cell.
func NewHeightField(width, height int, corners [][4]float32, size, offset math.Vec2) (*HeightField, error) {
	if len(corners) != width*height {
		return nil, fmt.Errorf("height field has %d cells, want %dx%d", len(corners), width, height)
	}
	transform, err := NewRasterTransform(size, offset, width, height)
	if err != nil {
		return nil, err
	}
	return &HeightField{
		width:     width,
		height:    height,
		corners:   corners,
		transform: transform,
	}, nil
}

// FloorY returns the bilinearly interpolated height of the cell under p.
// Positions outside the field have no floor.
func (h *HeightField) FloorY(p math.Vec3) (float32, bool) {
	if h == nil || !h.transform.Contains(p) {
		return 0, false
	}
	r := h.transform.WorldToRaster(p)
	x := clampInt(int(gomath.Floor(float64(r.X))), 0, h.width-1)
	y := clampInt(int(gomath.Floor(float64(r.Y))), 0, h.height-1)
	fx := clamp01(r.X - float32(x))
	fz := clamp01(r.Y - float32(y))

	c := h.corners[y*h.width+x]
	south := c[0]*(1-fx) + c[1]*fx
	north := c[2]*(1-fx) + c[3]*fx
	return south*(1-fz) + north*fz, true
}

// Transform returns the world/raster transform of the field.
func (h *HeightField) Transform() RasterTransform {
	return h.transform
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
