package world

import (
	"fmt"
	"math"

	"mini-voxel/internal/profiling"
)

// HeightSource returns the terrain surface height at a world column. It must
// be deterministic for a fixed configuration.
type HeightSource interface {
	HeightAt(x, z int) int
}

// NoiseParams configures a NoiseGenerator.
type NoiseParams struct {
	Seed        int64
	Scale       float64 // noise frequency per block
	BaseHeight  int
	Amplitude   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// DefaultNoiseParams returns gentle rolling hills around y=0.
func DefaultNoiseParams(seed int64) NoiseParams {
	return NoiseParams{
		Seed:        seed,
		Scale:       1.0 / 100.0,
		BaseHeight:  0,
		Amplitude:   10,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

// NoiseGenerator derives heights from seeded octave value noise.
type NoiseGenerator struct {
	p NoiseParams
}

// NewNoiseGenerator creates a generator; zero fields of p take the values of
// DefaultNoiseParams.
func NewNoiseGenerator(p NoiseParams) *NoiseGenerator {
	d := DefaultNoiseParams(p.Seed)
	if p.Scale == 0 {
		p.Scale = d.Scale
	}
	if p.Amplitude == 0 {
		p.Amplitude = d.Amplitude
	}
	if p.Octaves <= 0 {
		p.Octaves = d.Octaves
	}
	if p.Persistence == 0 {
		p.Persistence = d.Persistence
	}
	if p.Lacunarity == 0 {
		p.Lacunarity = d.Lacunarity
	}
	return &NoiseGenerator{p: p}
}

// HeightAt maps noise in [0,1] to BaseHeight ± Amplitude.
func (g *NoiseGenerator) HeightAt(x, z int) int {
	n := octaveNoise2D(float64(x)*g.p.Scale, float64(z)*g.p.Scale, g.p.Seed, g.p.Octaves, g.p.Persistence, g.p.Lacunarity)
	return g.p.BaseHeight + int(math.Round((n*2-1)*g.p.Amplitude))
}

// FlatGenerator returns the same height everywhere.
type FlatGenerator struct {
	Height int
}

// NewFlatGenerator creates a flat terrain at height.
func NewFlatGenerator(height int) FlatGenerator {
	return FlatGenerator{Height: height}
}

func (g FlatGenerator) HeightAt(_, _ int) int { return g.Height }

// Area is a rectangle of world columns, Min inclusive and Max exclusive.
type Area struct {
	MinX, MinZ int
	MaxX, MaxZ int
}

// ChunkArea returns the columns of the chunks within radius chunks of the
// origin on both horizontal axes.
func ChunkArea(radius, chunkSize int) Area {
	return Area{
		MinX: -radius * chunkSize, MinZ: -radius * chunkSize,
		MaxX: (radius + 1) * chunkSize, MaxZ: (radius + 1) * chunkSize,
	}
}

// Columns returns the number of columns in a.
func (a Area) Columns() int {
	if a.MaxX <= a.MinX || a.MaxZ <= a.MinZ {
		return 0
	}
	return (a.MaxX - a.MinX) * (a.MaxZ - a.MinZ)
}

// TerrainOptions controls what Generate places per column.
type TerrainOptions struct {
	// Top is the material of the surface block.
	Top MaterialID
	// Fill is the material of the blocks below the surface. MaterialNone
	// means Top.
	Fill MaterialID
	// Depth is the number of fill blocks placed under the surface block.
	Depth int
}

// Generate places one surface block per column of area at the height given by
// src, plus opts.Depth fill blocks beneath it. It returns the number of
// blocks placed.
func (w *World) Generate(src HeightSource, area Area, opts TerrainOptions) (int, error) {
	defer profiling.Track("world.Generate")()
	fill := opts.Fill
	if fill == MaterialNone {
		fill = opts.Top
	}

	placed := 0
	for x := area.MinX; x < area.MaxX; x++ {
		for z := area.MinZ; z < area.MaxZ; z++ {
			h := src.HeightAt(x, z)
			if _, err := w.Place(BlockCoord{X: x, Y: h, Z: z}, opts.Top); err != nil {
				return placed, fmt.Errorf("generate column (%d,%d): %w", x, z, err)
			}
			placed++
			for d := 1; d <= opts.Depth; d++ {
				if _, err := w.Place(BlockCoord{X: x, Y: h - d, Z: z}, fill); err != nil {
					return placed, fmt.Errorf("generate column (%d,%d): %w", x, z, err)
				}
				placed++
			}
		}
	}
	w.log.Info("terrain generated", "columns", area.Columns(), "blocks", placed, "chunks", w.index.Len())
	return placed, nil
}
