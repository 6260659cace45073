package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"mini-voxel/internal/instancing"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newWorld(t *testing.T) (*world.World, *registry.Registry) {
	t.Helper()
	reg, err := registry.Default(&instancing.MemoryAllocator{}, 8, quietLog)
	if err != nil {
		t.Fatal(err)
	}
	return world.New(world.Config{Log: quietLog}, reg), reg
}

func TestSampleKeepsTopBlock(t *testing.T) {
	w, reg := newWorld(t)
	grass := reg.MustMaterial(registry.MaterialGrass)
	dirt := reg.MustMaterial(registry.MaterialDirt)
	w.Place(world.BlockCoord{X: -2, Y: 5, Z: 1}, grass)
	w.Place(world.BlockCoord{X: -2, Y: 4, Z: 1}, dirt)
	w.Place(world.BlockCoord{X: 40, Y: 9, Z: 1}, dirt)

	h := Sample(w, world.Area{MinX: -4, MinZ: 0, MaxX: 4, MaxZ: 4})
	y, m, ok := h.At(-2, 1)
	if !ok || y != 5 || m != grass {
		t.Errorf("At(-2,1) = %d, %d, %v", y, m, ok)
	}
	if _, _, ok := h.At(40, 1); ok {
		t.Error("column outside the area was sampled")
	}
	if _, _, ok := h.At(0, 0); ok {
		t.Error("empty column reported a block")
	}
	if lo, hi, ok := h.Range(); !ok || lo != 5 || hi != 5 {
		t.Errorf("Range = %d, %d, %v", lo, hi, ok)
	}
}

func TestImagePixelMapping(t *testing.T) {
	w, reg := newWorld(t)
	w.Place(world.BlockCoord{X: 1, Y: 0, Z: 2}, reg.MustMaterial(registry.MaterialGrass))
	w.Place(world.BlockCoord{X: 3, Y: 0, Z: 0}, reg.MustMaterial(registry.MaterialDirt))

	h := Sample(w, world.Area{MinX: 0, MinZ: 0, MaxX: 4, MaxZ: 3})
	img := h.Image(reg, Options{})
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds %v", b)
	}
	grassTop, _ := reg.PlaneByName(registry.PlaneGrassTop)
	dirtPlane, _ := reg.PlaneByName(registry.PlaneDirt)
	if got := img.RGBAAt(1, 2); got != grassTop.Color {
		t.Errorf("pixel (1,2) = %v, want grass top %v", got, grassTop.Color)
	}
	if got := img.RGBAAt(3, 0); got != dirtPlane.Color {
		t.Errorf("pixel (3,0) = %v, want dirt %v", got, dirtPlane.Color)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("empty column drawn as %v", got)
	}
}

func TestImageShadeAndScale(t *testing.T) {
	w, reg := newWorld(t)
	dirt := reg.MustMaterial(registry.MaterialDirt)
	w.Place(world.BlockCoord{X: 0, Y: 0}, dirt)
	w.Place(world.BlockCoord{X: 1, Y: 10}, dirt)

	h := Sample(w, world.Area{MaxX: 2, MaxZ: 1})
	img := h.Image(reg, Options{Scale: 3, Shade: true})
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds %v", b)
	}
	low, high := img.RGBAAt(1, 1), img.RGBAAt(4, 1)
	if low.R >= high.R {
		t.Errorf("low column %v should be darker than high column %v", low, high)
	}
	if img.RGBAAt(0, 0) != low || img.RGBAAt(2, 2) != low {
		t.Error("upscaled block is not uniform")
	}
}

func TestWritePNG(t *testing.T) {
	w, reg := newWorld(t)
	w.Place(world.BlockCoord{}, reg.MustMaterial(registry.MaterialGrass))
	img := Sample(w, world.Area{MaxX: 2, MaxZ: 2}).Image(reg, Options{})

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds %v", decoded.Bounds())
	}
}
