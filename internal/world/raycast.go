package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/profiling"
)

// Reach limits for picking, in world units.
const (
	MinReachDistance = 0.1
	MaxReachDistance = 6.0
)

// RayHit is the block a ray ran into.
type RayHit struct {
	Block *Block
	// Adjacent is the last empty cell the ray crossed before the hit. Cells
	// holding blocks of unloaded chunks are never Adjacent. It equals the
	// origin cell when no empty cell was crossed.
	Adjacent BlockCoord
	Distance float32
}

// CellAt returns the block cell containing a world space position.
func (w *World) CellAt(p mgl32.Vec3) BlockCoord {
	bs := float64(w.conf.BlockSize)
	return BlockCoord{
		X: int(math.Floor(float64(p[0])/bs + 0.5)),
		Y: int(math.Floor(float64(p[1])/bs + 0.5)),
		Z: int(math.Floor(float64(p[2])/bs + 0.5)),
	}
}

// Raycast marches from origin along dir and returns the first block of a
// loaded chunk within [minDist, maxDist]. Blocks of unloaded chunks are not
// drawn and are passed through.
func (w *World) Raycast(origin, dir mgl32.Vec3, minDist, maxDist float32) (RayHit, bool) {
	defer profiling.Track("world.Raycast")()
	if dir.Len() < 1e-6 {
		return RayHit{}, false
	}
	dir = dir.Normalize()
	step := 0.02 * w.conf.BlockSize
	steps := int(maxDist / step)

	last := w.CellAt(origin)
	for i := 0; i <= steps; i++ {
		dist := float32(i) * step
		if dist < minDist {
			continue
		}
		c := w.CellAt(origin.Add(dir.Mul(dist)))
		b, ok := w.index.Get(c)
		if ok && b.chunk.Loaded() {
			return RayHit{Block: b, Adjacent: last, Distance: dist}, true
		}
		if !ok {
			last = c
		}
	}
	return RayHit{}, false
}
