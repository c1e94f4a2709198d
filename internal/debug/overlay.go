// Package debug renders walk maps and planned paths to images for inspection.
package debug

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Faultbox/walkbounds/internal/world"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// Overlay colors.
var (
	BlockedColor  = color.RGBA{R: 40, G: 40, B: 48, A: 255}
	PathColor     = color.RGBA{R: 230, G: 60, B: 40, A: 255}
	WaypointColor = color.RGBA{R: 250, G: 210, B: 40, A: 255}
)

// RenderOverlay draws the walk map with one cell per scale x scale pixels and
// the path on top. The image is oriented with world +Z up, so raster row 0 is
// the bottom image row.
func RenderOverlay(walk *world.WalkMap, path []math.Vec3, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	cells := rasterImage(walk)
	b := cells.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), cells, b, draw.Src, nil)

	drawPath(out, walk, path, scale)
	return out
}

// rasterImage is the unscaled map: walkable cells in gray by value, blocked
// cells in BlockedColor.
func rasterImage(walk *world.WalkMap) *image.RGBA {
	w, h := walk.Width(), walk.Height()
	r := walk.Raster()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c color.RGBA
			if walk.WalkableCell(x, y) {
				v := 128 + r.At(x, y)/2
				c = color.RGBA{R: v, G: v, B: v, A: 255}
			} else {
				c = BlockedColor
			}
			img.SetRGBA(x, h-1-y, c)
		}
	}
	return img
}

func drawPath(img *image.RGBA, walk *world.WalkMap, path []math.Vec3, scale int) {
	if len(path) == 0 {
		return
	}
	tr := walk.Transform()
	height := img.Bounds().Dy()

	toPixel := func(p math.Vec3) image.Point {
		r := tr.WorldToRaster(p).Scale(float32(scale))
		return image.Point{X: int(r.X), Y: height - 1 - int(r.Y)}
	}

	for i := 0; i+1 < len(path); i++ {
		drawLine(img, toPixel(path[i]), toPixel(path[i+1]), PathColor)
	}
	for _, p := range path {
		pt := toPixel(p)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				setIn(img, pt.X+dx, pt.Y+dy, WaypointColor)
			}
		}
	}
}

// drawLine rasterizes a segment with Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	for {
		setIn(img, x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func setIn(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
