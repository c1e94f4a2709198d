package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/walkbounds/internal/collision"
	"github.com/Faultbox/walkbounds/internal/world"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// BoundarySource is a decoded walker boundary. NaturalSize is the world extent
// implied by the file format itself, zero for plain images. Floor holds
// world-up corner heights per cell for formats that carry them (GAT) and is nil
// otherwise.
type BoundarySource struct {
	Raster      *world.Raster
	NaturalSize math.Vec2
	Floor       [][4]float32
}

// FloorField places the source's floor heights over the world rectangle. It
// returns nil without error when the source has no heights.
func (b *BoundarySource) FloorField(size, offset math.Vec2) (*world.HeightField, error) {
	if b.Floor == nil {
		return nil, nil
	}
	return world.NewHeightField(b.Raster.Width, b.Raster.Height, b.Floor, size, offset)
}

// IsBoundaryFile reports whether path has an extension LoadBoundary decodes.
func IsBoundaryFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp", ".png", ".gat", ".tmx":
		return true
	}
	return false
}

// LoadBoundary decodes a walker boundary by file extension. layer selects the
// tile layer of a TMX map and is ignored otherwise.
func (m *Manager) LoadBoundary(name, layer string) (*BoundarySource, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bmp", ".png":
		data, err := m.Load(name)
		if err != nil {
			return nil, err
		}
		r, err := DecodeImageRaster(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &BoundarySource{Raster: r}, nil

	case ".gat":
		data, err := m.Load(name)
		if err != nil {
			return nil, err
		}
		g, err := ParseGAT(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		x, z := g.WorldSize()
		return &BoundarySource{
			Raster:      g.Raster(),
			NaturalSize: math.Vec2{X: x, Y: z},
			Floor:       g.FloorHeights(),
		}, nil

	case ".tmx":
		fsys, rel, err := m.FS(name)
		if err != nil {
			return nil, err
		}
		t, err := LoadTMXRaster(fsys, rel, layer)
		if err != nil {
			return nil, err
		}
		return &BoundarySource{Raster: t.Raster, NaturalSize: math.Vec2{X: t.Width, Y: t.Height}}, nil

	default:
		return nil, fmt.Errorf("unsupported walker boundary format: %s", name)
	}
}

// LoadBoundsModel reads and decodes a YAML bounds model.
func (m *Manager) LoadBoundsModel(name string) (*collision.BoundsModel, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	model, err := DecodeBoundsModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return model, nil
}
