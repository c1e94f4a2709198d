package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG decoder

	_ "golang.org/x/image/bmp" // register BMP decoder

	"github.com/Faultbox/walkbounds/internal/world"
)

// DecodeImageRaster decodes a BMP or PNG walker-boundary image into a raster of
// per-pixel luminance. The bottom image row becomes raster row 0.
func DecodeImageRaster(data []byte) (*world.Raster, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding walker boundary image: %w", err)
	}
	r := ImageRaster(img)
	if r == nil {
		return nil, fmt.Errorf("empty %s image", format)
	}
	return r, nil
}

// ImageRaster converts an image to a luminance raster, flipping rows so the
// image's bottom edge lies at the raster origin. Only pure black (or fully
// transparent) pixels become 0; any other color keeps at least value 1, so a
// dark pixel is never mistaken for the blocked value. Returns nil for an empty
// image.
func ImageRaster(img image.Image) *world.Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	r := &world.Raster{Width: w, Height: h, Cells: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			r.Cells[row+x] = pixelValue(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return r
}

func pixelValue(c color.Color) uint8 {
	red, green, blue, _ := c.RGBA()
	if red == 0 && green == 0 && blue == 0 {
		return 0
	}
	return max(color.GrayModel.Convert(c).(color.Gray).Y, 1)
}
