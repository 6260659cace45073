package world

import (
	"cmp"
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"mini-voxel/internal/profiling"
)

// ChunkState is the load state of a chunk.
type ChunkState uint8

const (
	ChunkUnloaded ChunkState = iota
	// ChunkLoading and ChunkUnloading are only observed while a stepped
	// transition has been interrupted part way.
	ChunkLoading
	ChunkLoaded
	ChunkUnloading
)

func (s ChunkState) String() string {
	switch s {
	case ChunkUnloaded:
		return "unloaded"
	case ChunkLoading:
		return "loading"
	case ChunkLoaded:
		return "loaded"
	case ChunkUnloading:
		return "unloading"
	}
	return "invalid"
}

// Chunk is a cubic region of size³ blocks and the unit of loading. Unloading
// releases the chunk's instance slots but keeps its blocks.
type Chunk struct {
	Coord ChunkCoord

	w      *World
	size   int
	blocks []*Block
	count  int

	state ChunkState
	// cursor is the dense index a stepped transition resumes from.
	cursor int
}

func newChunk(w *World, cc ChunkCoord, size int) *Chunk {
	return &Chunk{
		Coord:  cc,
		w:      w,
		size:   size,
		blocks: make([]*Block, size*size*size),
	}
}

// offset converts a world coordinate inside the chunk to a dense index.
func (c *Chunk) offset(bc BlockCoord) int {
	x, y, z := bc.Relative(c.size)
	return (x*c.size+y)*c.size + z
}

func (c *Chunk) put(b *Block) {
	i := c.offset(b.Coord)
	if c.blocks[i] == nil {
		c.count++
	}
	b.chunk = c
	c.blocks[i] = b
}

func (c *Chunk) take(i int) *Block {
	b := c.blocks[i]
	if b != nil {
		c.blocks[i] = nil
		c.count--
	}
	return b
}

// Block returns the block at world coordinate bc, which must lie in c.
func (c *Chunk) Block(bc BlockCoord) (*Block, bool) {
	if bc.Chunk(c.size) != c.Coord {
		return nil, false
	}
	b := c.blocks[c.offset(bc)]
	return b, b != nil
}

// Blocks returns the chunk's blocks in dense array order.
func (c *Chunk) Blocks() []*Block {
	out := make([]*Block, 0, c.count)
	for _, b := range c.blocks {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of blocks in the chunk.
func (c *Chunk) Len() int { return c.count }

// State returns the chunk's load state.
func (c *Chunk) State() ChunkState { return c.state }

// Loaded reports whether the chunk is fully loaded.
func (c *Chunk) Loaded() bool { return c.state == ChunkLoaded }

// setState moves the chunk to s and keeps the index's live set current.
func (c *Chunk) setState(s ChunkState) {
	if c.state == s {
		return
	}
	ix := c.w.index
	switch {
	case c.state == ChunkUnloaded:
		ix.live[c.Coord] = c
	case s == ChunkUnloaded:
		delete(ix.live, c.Coord)
	}
	c.state = s
	ix.stateMod++
}

// active reports whether newly added blocks should be meshed right away.
func (c *Chunk) active() bool {
	return c.state == ChunkLoaded || c.state == ChunkLoading
}

// AddBlock stores b at its relative position, overwriting any occupant, and
// re-meshes b and its meshed neighbors when the chunk is active.
func (c *Chunk) AddBlock(b *Block) error {
	if old, ok := c.Block(b.Coord); ok && old != b && old.meshed {
		c.w.Unrender(old)
	}
	c.put(b)
	var err error
	if c.active() {
		c.w.CullFaces(b)
		err = c.w.Render(b)
	}
	if nerr := c.w.refreshNeighbors(b.Coord); err == nil {
		err = nerr
	}
	return err
}

// Load culls and renders every block. It is a no-op on a loaded chunk.
func (c *Chunk) Load() error {
	_, err := c.LoadStep(0)
	return err
}

// LoadStep meshes at most budget blocks (0 means no limit) and reports
// whether the chunk is now loaded. A partially loaded chunk may be resumed
// with another LoadStep or reversed with Unload.
func (c *Chunk) LoadStep(budget int) (bool, error) {
	_, done, err := c.loadStep(budget)
	return done, err
}

func (c *Chunk) loadStep(budget int) (int, bool, error) {
	if c.state == ChunkLoaded {
		return 0, true, nil
	}
	defer profiling.Track("world.Chunk.Load")()
	if c.state != ChunkLoading {
		c.setState(ChunkLoading)
		c.cursor = 0
	}

	done := 0
	for ; c.cursor < len(c.blocks); c.cursor++ {
		b := c.blocks[c.cursor]
		if b == nil || b.meshed {
			continue
		}
		if budget > 0 && done >= budget {
			return done, false, nil
		}
		c.w.CullFaces(b)
		if err := c.w.Render(b); err != nil {
			return done, false, err
		}
		done++
	}
	c.setState(ChunkLoaded)
	c.w.log.Debug("chunk loaded", "chunk", c.Coord, "blocks", c.count)
	return done, true, nil
}

// Unload releases the instance slots of every block. It is a no-op on an
// unloaded chunk.
func (c *Chunk) Unload() {
	c.UnloadStep(0)
}

// UnloadStep unmeshes at most budget blocks (0 means no limit) and reports
// whether the chunk is now unloaded.
func (c *Chunk) UnloadStep(budget int) bool {
	_, done := c.unloadStep(budget)
	return done
}

func (c *Chunk) unloadStep(budget int) (int, bool) {
	if c.state == ChunkUnloaded {
		return 0, true
	}
	defer profiling.Track("world.Chunk.Unload")()
	if c.state != ChunkUnloading {
		c.setState(ChunkUnloading)
		c.cursor = 0
	}

	done := 0
	for ; c.cursor < len(c.blocks); c.cursor++ {
		b := c.blocks[c.cursor]
		if b == nil || !b.meshed {
			continue
		}
		if budget > 0 && done >= budget {
			return done, false
		}
		c.w.Unrender(b)
		done++
	}
	c.setState(ChunkUnloaded)
	c.w.log.Debug("chunk unloaded", "chunk", c.Coord, "blocks", c.count)
	return done, true
}

// Digest returns a hash of the chunk's block layout and materials.
func (c *Chunk) Digest() uint64 {
	h := xxhash.New()
	var buf [6]byte
	for i, b := range c.blocks {
		if b == nil {
			continue
		}
		binary.LittleEndian.PutUint32(buf[:4], uint32(i))
		binary.LittleEndian.PutUint16(buf[4:], uint16(b.Material))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Digest returns a hash of every chunk's coordinate and digest, in
// coordinate order. Two worlds generated from the same source and area have
// the same digest.
func (w *World) Digest() uint64 {
	chunks := w.index.Chunks()
	slices.SortFunc(chunks, func(a, b *Chunk) int {
		return cmp.Or(cmp.Compare(a.Coord.X, b.Coord.X), cmp.Compare(a.Coord.Y, b.Coord.Y), cmp.Compare(a.Coord.Z, b.Coord.Z))
	})
	h := xxhash.New()
	var buf [20]byte
	for _, c := range chunks {
		binary.LittleEndian.PutUint32(buf[0:], uint32(int32(c.Coord.X)))
		binary.LittleEndian.PutUint32(buf[4:], uint32(int32(c.Coord.Y)))
		binary.LittleEndian.PutUint32(buf[8:], uint32(int32(c.Coord.Z)))
		binary.LittleEndian.PutUint64(buf[12:], c.Digest())
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
