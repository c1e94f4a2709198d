package main

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/walkbounds/internal/world"
	"github.com/Faultbox/walkbounds/pkg/math"
)

func TestParseFloats(t *testing.T) {
	got, err := parseFloats([]string{"1.5", "-20", "0"})
	if err != nil {
		t.Fatalf("parseFloats: %v", err)
	}
	want := []float32{1.5, -20, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := parseFloats([]string{"1", "east"}); err == nil {
		t.Error("expected error for non-numeric coordinate")
	}
}

func testMap(t *testing.T, open bool) *world.WalkMap {
	t.Helper()
	r, err := world.NewRaster(4, 4, 0)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	if open {
		r.Set(1, 2, 255)
		r.Set(3, 0, 255)
	}
	m, err := world.NewWalkMap(r, math.Vec2{X: 40, Y: 40}, math.Vec2{}, nil)
	if err != nil {
		t.Fatalf("NewWalkMap: %v", err)
	}
	return m
}

func TestRandomPairsWalkable(t *testing.T) {
	m := testMap(t, true)
	pairs, err := randomPairs(m, 50, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("randomPairs: %v", err)
	}
	if len(pairs) != 50 {
		t.Fatalf("got %d pairs, want 50", len(pairs))
	}
	for i, p := range pairs {
		if !m.CanWalkTo(p[0]) || !m.CanWalkTo(p[1]) {
			t.Errorf("pair %d has a blocked endpoint: %v", i, p)
		}
	}
}

func TestRandomPairsNoWalkableCells(t *testing.T) {
	if _, err := randomPairs(testMap(t, false), 5, rand.New(rand.NewPCG(1, 2))); err == nil {
		t.Error("expected error for a fully blocked map")
	}
}

func TestSaveOverlayTimestamped(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "overlays")
	m := testMap(t, true)
	path := []math.Vec3{m.CellCenter(1, 2, 0), m.CellCenter(3, 0, 0)}

	name, err := saveOverlay(m, path, "R25", "", dir, 2)
	if err != nil {
		t.Fatalf("saveOverlay: %v", err)
	}
	if filepath.Dir(name) != dir {
		t.Errorf("overlay written to %q, want inside %q", name, dir)
	}
	if !strings.HasPrefix(filepath.Base(name), "R25_") || filepath.Ext(name) != ".png" {
		t.Errorf("unexpected overlay name %q", name)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("overlay not written: %v", err)
	}
}

func TestSaveOverlayExplicitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.png")

	name, err := saveOverlay(testMap(t, true), nil, "R25", file, "ignored", 1)
	if err != nil {
		t.Fatalf("saveOverlay: %v", err)
	}
	if name != file {
		t.Errorf("name = %q, want %q", name, file)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("overlay not written: %v", err)
	}
}
