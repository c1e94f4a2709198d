package world

import "fmt"

// Predicate decides whether a raster cell classification is walkable.
type Predicate func(value uint8) bool

// BlockedValue returns a predicate where exactly one reserved value blocks movement
// and every other value is open.
func BlockedValue(blocked uint8) Predicate {
	return func(value uint8) bool {
		return value != blocked
	}
}

// MinValue returns a graded predicate: cells at or above threshold are walkable.
func MinValue(threshold uint8) Predicate {
	return func(value uint8) bool {
		return value >= threshold
	}
}

// DefaultPredicate treats value 0 (black in walker-boundary bitmaps) as blocked.
var DefaultPredicate = BlockedValue(0)

// Raster is a width x height grid of cell classifications, row-major.
// Row 0 is the row nearest the map offset (lowest world Z).
type Raster struct {
	Width  int
	Height int
	Cells  []uint8
}

// NewRaster creates a raster with every cell set to value.
func NewRaster(width, height int, value uint8) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions: %dx%d", width, height)
	}
	cells := make([]uint8, width*height)
	if value != 0 {
		for i := range cells {
			cells[i] = value
		}
	}
	return &Raster{Width: width, Height: height, Cells: cells}, nil
}

// InBounds reports whether (x, y) is a valid cell.
func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// At returns the classification of a cell. Out-of-bounds cells read as 0.
func (r *Raster) At(x, y int) uint8 {
	if !r.InBounds(x, y) {
		return 0
	}
	return r.Cells[y*r.Width+x]
}

// Set writes a cell classification. Loaders use it while building a raster;
// a raster handed to a WalkMap must not be modified afterwards.
func (r *Raster) Set(x, y int, value uint8) {
	if r.InBounds(x, y) {
		r.Cells[y*r.Width+x] = value
	}
}

// Count returns how many cells satisfy the predicate.
func (r *Raster) Count(walkable Predicate) int {
	n := 0
	for _, v := range r.Cells {
		if walkable(v) {
			n++
		}
	}
	return n
}
