package world

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// BlockCoord is a block position in world units.
type BlockCoord struct {
	X, Y, Z int
}

// ChunkCoord is a chunk position in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

func (c BlockCoord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }
func (c ChunkCoord) String() string { return fmt.Sprintf("[%d,%d,%d]", c.X, c.Y, c.Z) }

// Add returns c offset by (dx, dy, dz).
func (c BlockCoord) Add(dx, dy, dz int) BlockCoord {
	return BlockCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Neighbor returns the coordinate adjacent to c across face f.
func (c BlockCoord) Neighbor(f Face) BlockCoord {
	d := f.Offset()
	return c.Add(d[0], d[1], d[2])
}

// Chunk returns the coordinate of the chunk holding c.
func (c BlockCoord) Chunk(size int) ChunkCoord {
	return ChunkCoord{X: FloorDiv(c.X, size), Y: FloorDiv(c.Y, size), Z: FloorDiv(c.Z, size)}
}

// Relative returns c's position inside its chunk, each axis in [0, size).
func (c BlockCoord) Relative(size int) (x, y, z int) {
	return Mod(c.X, size), Mod(c.Y, size), Mod(c.Z, size)
}

// Origin returns the world coordinate of the chunk's minimum corner.
func (c ChunkCoord) Origin(size int) BlockCoord {
	return BlockCoord{X: c.X * size, Y: c.Y * size, Z: c.Z * size}
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv[T constraints.Signed](a, b T) T {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod is the Euclidean remainder matching FloorDiv: FloorDiv(a,b)*b + Mod(a,b) == a
// and, for b > 0, the result is in [0, b).
func Mod[T constraints.Signed](a, b T) T {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// Coordinates are packed into 20 bits per axis for reverse index keys.
const (
	coordBits = 20
	coordBias = 1 << (coordBits - 1)
	coordMask = 1<<coordBits - 1

	// MinCoord and MaxCoord bound every axis of a placeable block.
	MinCoord = -coordBias
	MaxCoord = coordBias - 1
)

// InRange reports whether c can be placed in a World.
func (c BlockCoord) InRange() bool {
	return inAxisRange(c.X) && inAxisRange(c.Y) && inAxisRange(c.Z)
}

func inAxisRange(v int) bool { return v >= MinCoord && v <= MaxCoord }

// faceKey packs a block coordinate and a face into a non-negative key that is
// unique per (coordinate, face). c must be InRange.
func faceKey(c BlockCoord, f Face) int64 {
	x := int64(c.X+coordBias) & coordMask
	y := int64(c.Y+coordBias) & coordMask
	z := int64(c.Z+coordBias) & coordMask
	return x<<(2*coordBits+3) | y<<(coordBits+3) | z<<3 | int64(f.Index())
}
