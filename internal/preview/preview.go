// Package preview renders a top-down map of a world's surface.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
)

// HeightMap holds the topmost block of every column of an area.
type HeightMap struct {
	Area world.Area

	width, depth int
	heights      []int
	materials    []world.MaterialID
	minY, maxY   int
}

// Sample scans every block of w inside area.
func Sample(w *world.World, area world.Area) *HeightMap {
	defer profiling.Track("preview.Sample")()
	h := &HeightMap{
		Area:  area,
		width: max(area.MaxX-area.MinX, 0),
		depth: max(area.MaxZ-area.MinZ, 0),
		minY:  math.MaxInt,
		maxY:  math.MinInt,
	}
	h.heights = make([]int, h.width*h.depth)
	h.materials = make([]world.MaterialID, h.width*h.depth)

	for _, ch := range w.Index().Chunks() {
		for _, b := range ch.Blocks() {
			i, ok := h.index(b.Coord.X, b.Coord.Z)
			if !ok {
				continue
			}
			if h.materials[i] == world.MaterialNone || b.Coord.Y > h.heights[i] {
				h.heights[i] = b.Coord.Y
				h.materials[i] = b.Material
			}
		}
	}
	for i, m := range h.materials {
		if m != world.MaterialNone {
			h.minY = min(h.minY, h.heights[i])
			h.maxY = max(h.maxY, h.heights[i])
		}
	}
	return h
}

func (h *HeightMap) index(x, z int) (int, bool) {
	dx, dz := x-h.Area.MinX, z-h.Area.MinZ
	if dx < 0 || dz < 0 || dx >= h.width || dz >= h.depth {
		return 0, false
	}
	return dz*h.width + dx, true
}

// At returns the surface height and material of column (x, z).
func (h *HeightMap) At(x, z int) (int, world.MaterialID, bool) {
	i, ok := h.index(x, z)
	if !ok || h.materials[i] == world.MaterialNone {
		return 0, world.MaterialNone, false
	}
	return h.heights[i], h.materials[i], true
}

// Range returns the lowest and highest surface heights. ok is false for an
// empty map.
func (h *HeightMap) Range() (lo, hi int, ok bool) {
	return h.minY, h.maxY, h.minY <= h.maxY
}

// Options controls Image.
type Options struct {
	// Scale is the edge length in pixels of one column; values below 1 mean 1.
	Scale int
	// Shade darkens low columns relative to high ones.
	Shade bool
}

// Image draws one pixel per column, X to the right and Z downward, colored
// with the top face plane of the column's material. Empty columns are
// transparent.
func (h *HeightMap) Image(reg *registry.Registry, opts Options) *image.RGBA {
	defer profiling.Track("preview.Image")()
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.depth))
	lo, hi, _ := h.Range()
	for z := 0; z < h.depth; z++ {
		for x := 0; x < h.width; x++ {
			i := z*h.width + x
			m := h.materials[i]
			if m == world.MaterialNone {
				continue
			}
			c := color.RGBA{R: 0xff, A: 0xff}
			if p, ok := reg.PlaneFor(m, world.FaceTop); ok {
				c = p.Color
			}
			if opts.Shade && hi > lo {
				c = shade(c, 0.6+0.4*float64(h.heights[i]-lo)/float64(hi-lo))
			}
			img.SetRGBA(x, z, c)
		}
	}
	if opts.Scale > 1 {
		return Upscale(img, opts.Scale)
	}
	return img
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

// Upscale enlarges src by an integer factor without smoothing.
func Upscale(src image.Image, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img to out.
func WritePNG(out io.Writer, img image.Image) error {
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	return nil
}
