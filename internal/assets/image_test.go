package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

// testImage is 2x2 with a black top-left pixel; the rest is white.
func testImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 255})
	img.SetGray(1, 1, color.Gray{Y: 200})
	return img
}

func checkFlipped(t *testing.T, cells []uint8) {
	t.Helper()
	// Bottom image row first
	want := []uint8{255, 200, 0, 255}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("cells = %v, want %v", cells, want)
		}
	}
}

func TestDecodeImageRasterPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	r, err := DecodeImageRaster(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImageRaster: %v", err)
	}
	if r.Width != 2 || r.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", r.Width, r.Height)
	}
	checkFlipped(t, r.Cells)
}

func TestDecodeImageRasterBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testImage()); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}

	r, err := DecodeImageRaster(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImageRaster: %v", err)
	}
	checkFlipped(t, r.Cells)
}

func TestDecodeImageRasterColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	r := ImageRaster(img)
	if r.Cells[0] != 0 || r.Cells[1] != 255 {
		t.Errorf("luminance = %v, want [0 255]", r.Cells)
	}
}

func TestDecodeImageRasterDarkIsNotBlack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 1, A: 255})
	img.Set(1, 0, color.RGBA{B: 2, A: 255})
	img.Set(2, 0, color.RGBA{}) // transparent

	r := ImageRaster(img)
	if r.Cells[0] != 1 || r.Cells[1] != 1 {
		t.Errorf("dark pixels = %v, want value 1", r.Cells[:2])
	}
	if r.Cells[2] != 0 {
		t.Errorf("transparent pixel = %d, want 0", r.Cells[2])
	}
}

func TestDecodeImageRasterInvalid(t *testing.T) {
	if _, err := DecodeImageRaster([]byte("not an image")); err == nil {
		t.Error("expected error for garbage input")
	}
}
