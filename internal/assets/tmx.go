package assets

import (
	"fmt"
	"io/fs"

	"github.com/lafriks/go-tiled"

	"github.com/Faultbox/walkbounds/internal/world"
)

// TMXRaster is a walk raster read from a Tiled map, with the map's pixel
// extent as its natural world size.
type TMXRaster struct {
	Raster *world.Raster
	Width  float32
	Height float32
}

// LoadTMXRaster reads the tile layer named layer (the first tile layer when
// empty) from a TMX file. Non-empty tiles are open (255), empty tiles blocked.
// The map's bottom row becomes raster row 0.
func LoadTMXRaster(fsys fs.FS, tmxPath, layer string) (*TMXRaster, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.Width <= 0 || levelMap.Height <= 0 {
		return nil, fmt.Errorf("TMX %s: empty map", tmxPath)
	}

	var found *tiled.Layer
	for _, l := range levelMap.Layers {
		if layer == "" || l.Name == layer {
			found = l
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("TMX %s: no tile layer %q", tmxPath, layer)
	}

	w, h := levelMap.Width, levelMap.Height
	if len(found.Tiles) < w*h {
		return nil, fmt.Errorf("TMX %s: layer %q has %d tiles, want %d", tmxPath, found.Name, len(found.Tiles), w*h)
	}

	r := &world.Raster{Width: w, Height: h, Cells: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			if !found.Tiles[y*w+x].IsNil() {
				r.Cells[row+x] = 255
			}
		}
	}

	return &TMXRaster{
		Raster: r,
		Width:  float32(w * levelMap.TileWidth),
		Height: float32(h * levelMap.TileHeight),
	}, nil
}
