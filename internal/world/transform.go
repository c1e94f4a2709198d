package world

import (
	"fmt"

	"github.com/Faultbox/walkbounds/pkg/math"
)

// RasterTransform maps between world space (X/Z ground plane) and raster space.
// It is derived once from the map's world size and offset so both directions use
// the same scale factors:
//
//	raster = (world.XZ - offset) / size * (width, height)
type RasterTransform struct {
	size     math.Vec2
	offset   math.Vec2
	width    int
	height   int
	toRaster math.Vec2
	toWorld  math.Vec2
}

// NewRasterTransform builds the transform for a width x height raster covering
// size world units starting at offset.
func NewRasterTransform(size, offset math.Vec2, width, height int) (RasterTransform, error) {
	if size.X <= 0 || size.Y <= 0 {
		return RasterTransform{}, fmt.Errorf("invalid world size %v", size)
	}
	if width <= 0 || height <= 0 {
		return RasterTransform{}, fmt.Errorf("invalid raster dimensions: %dx%d", width, height)
	}
	return RasterTransform{
		size:     size,
		offset:   offset,
		width:    width,
		height:   height,
		toRaster: math.Vec2{X: float32(width) / size.X, Y: float32(height) / size.Y},
		toWorld:  math.Vec2{X: size.X / float32(width), Y: size.Y / float32(height)},
	}, nil
}

// WorldToRaster converts a world position to continuous raster coordinates.
// The vertical axis is ignored.
func (t RasterTransform) WorldToRaster(p math.Vec3) math.Vec2 {
	return p.XZ().Sub(t.offset).Mul(t.toRaster)
}

// RasterToWorld converts raster coordinates back to world space at height y.
func (t RasterTransform) RasterToWorld(r math.Vec2, y float32) math.Vec3 {
	w := r.Mul(t.toWorld).Add(t.offset)
	return math.Vec3{X: w.X, Y: y, Z: w.Y}
}

// Contains reports whether p lies in the half-open world rectangle
// [offset, offset+size). NaN coordinates are never contained.
func (t RasterTransform) Contains(p math.Vec3) bool {
	return p.X >= t.offset.X && p.X < t.offset.X+t.size.X &&
		p.Z >= t.offset.Y && p.Z < t.offset.Y+t.size.Y
}

// CellSize returns the world extent of one cell.
func (t RasterTransform) CellSize() math.Vec2 {
	return t.toWorld
}

// Size returns the world extent covered by the raster.
func (t RasterTransform) Size() math.Vec2 {
	return t.size
}

// Offset returns the world position of the raster origin corner.
func (t RasterTransform) Offset() math.Vec2 {
	return t.offset
}
