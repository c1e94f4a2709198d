package assets

import (
	"os"
	"testing"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="1">
 <tileset firstgid="1" name="floor" tilewidth="16" tileheight="16" tilecount="1" columns="1">
  <image source="floor.png" width="16" height="16"/>
 </tileset>
 <layer id="1" name="decor" width="3" height="2">
  <data encoding="csv">
0,0,0,
0,0,0
</data>
 </layer>
 <layer id="2" name="walkable" width="3" height="2">
  <data encoding="csv">
1,0,1,
1,1,0
</data>
 </layer>
</map>
`

func TestLoadTMXRaster(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "level.tmx", []byte(testTMX))

	tr, err := LoadTMXRaster(os.DirFS(dir), "level.tmx", "walkable")
	if err != nil {
		t.Fatalf("LoadTMXRaster: %v", err)
	}
	if tr.Width != 48 || tr.Height != 32 {
		t.Errorf("natural size = %v x %v, want 48 x 32", tr.Width, tr.Height)
	}

	// Bottom map row first
	want := []uint8{255, 255, 0, 255, 0, 255}
	for i := range want {
		if tr.Raster.Cells[i] != want[i] {
			t.Fatalf("cells = %v, want %v", tr.Raster.Cells, want)
		}
	}
}

func TestLoadTMXRasterMissingLayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "level.tmx", []byte(testTMX))

	if _, err := LoadTMXRaster(os.DirFS(dir), "level.tmx", "nope"); err == nil {
		t.Error("expected error for missing layer")
	}
}

func TestLoadBoundaryTMXFirstLayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "maps/level.tmx", []byte(testTMX))

	src, err := NewManager(dir).LoadBoundary("maps/level.tmx", "")
	if err != nil {
		t.Fatalf("LoadBoundary: %v", err)
	}
	// First layer is empty: everything blocked
	for _, c := range src.Raster.Cells {
		if c != 0 {
			t.Fatalf("cells = %v, want all blocked", src.Raster.Cells)
		}
	}
}
