package assets

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/walkbounds/internal/world"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
)

// GATCellSize is the world extent of one GAT cell.
const GATCellSize = 5

// Raster classifications produced from GAT cell types.
const (
	GATValueOpen  uint8 = 255
	GATValueShore uint8 = 128
	GATValueBlock uint8 = 0
)

const (
	gatHeaderSize = 14
	gatCellBytes  = 20 // four float32 corner heights + uint32 type
)

// GATCellType is the walkability type of a GAT cell.
type GATCellType uint32

// Cell type constants.
const (
	GATWalkable      GATCellType = 0 // Normal walkable ground
	GATBlocked       GATCellType = 1 // Cannot walk through
	GATWater         GATCellType = 2 // Deep water
	GATWalkableWater GATCellType = 3 // Shore/shallow water
	GATSnipeable     GATCellType = 4 // Cliffs: blocks walking, not projectiles
	GATBlockedSnipe  GATCellType = 5
)

// Value returns the raster classification for the cell type.
func (t GATCellType) Value() uint8 {
	switch t {
	case GATWalkable:
		return GATValueOpen
	case GATWalkableWater:
		return GATValueShore
	default:
		return GATValueBlock
	}
}

// GAT is a parsed Ground Altitude Table reduced to what walkability needs.
type GAT struct {
	Major, Minor uint8
	Width        int
	Height       int
	Types        []GATCellType

	// Heights holds the corner altitudes of each cell: [0] = bottom-left,
	// [1] = bottom-right, [2] = top-left, [3] = top-right. RO altitudes grow
	// downward.
	Heights [][4]float32
}

// AverageHeight returns the mean corner altitude of cell i.
func (g *GAT) AverageHeight(i int) float32 {
	h := g.Heights[i]
	return (h[0] + h[1] + h[2] + h[3]) / 4
}

// ParseGAT parses a GAT file from raw bytes. Row 0 is the southern edge of the
// map, matching raster row order.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < gatHeaderSize {
		return nil, ErrTruncatedGATData
	}
	if string(data[0:4]) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}

	// Version is stored as [minor, major]
	g := &GAT{Minor: data[4], Major: data[5]}
	if g.Major < 1 || g.Major > 3 {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedGATVersion, g.Major, g.Minor)
	}

	width := binary.LittleEndian.Uint32(data[6:10])
	height := binary.LittleEndian.Uint32(data[10:14])
	if width == 0 || height == 0 || width > 4096 || height > 4096 {
		return nil, fmt.Errorf("invalid GAT dimensions: %dx%d", width, height)
	}
	g.Width, g.Height = int(width), int(height)

	count := g.Width * g.Height
	body := data[gatHeaderSize:]
	if len(body) < count*gatCellBytes {
		return nil, fmt.Errorf("%w: %d cells need %d bytes, have %d",
			ErrTruncatedGATData, count, count*gatCellBytes, len(body))
	}

	g.Types = make([]GATCellType, count)
	g.Heights = make([][4]float32, count)
	for i := 0; i < count; i++ {
		cell := body[i*gatCellBytes : (i+1)*gatCellBytes]
		for c := 0; c < 4; c++ {
			g.Heights[i][c] = gomath.Float32frombits(binary.LittleEndian.Uint32(cell[c*4:]))
		}
		g.Types[i] = GATCellType(binary.LittleEndian.Uint32(cell[16:20]))
	}
	return g, nil
}

// Raster converts cell types to raster classifications.
func (g *GAT) Raster() *world.Raster {
	r := &world.Raster{Width: g.Width, Height: g.Height, Cells: make([]uint8, len(g.Types))}
	for i, t := range g.Types {
		r.Cells[i] = t.Value()
	}
	return r
}

// WorldSize returns the world extent covered by the table.
func (g *GAT) WorldSize() (x, z float32) {
	return float32(g.Width * GATCellSize), float32(g.Height * GATCellSize)
}

// FloorHeights returns the corner heights as world Y, up positive.
func (g *GAT) FloorHeights() [][4]float32 {
	out := make([][4]float32, len(g.Heights))
	for i, h := range g.Heights {
		out[i] = [4]float32{-h[0], -h[1], -h[2], -h[3]}
	}
	return out
}
