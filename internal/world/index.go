package world

import "mini-voxel/internal/profiling"

// Index maps world block coordinates to blocks and chunk coordinates to
// chunks. Blocks are found through their chunk's dense array, so every lookup
// is one map access plus an array index.
type Index struct {
	owner     *World
	chunkSize int
	chunks    map[ChunkCoord]*Chunk
	modCount  uint64 // increases on every chunk creation

	// live holds every chunk not in ChunkUnloaded, however it was loaded.
	live     map[ChunkCoord]*Chunk
	stateMod uint64 // increases on every chunk state change

	// Per-column index for horizontal radius queries: (chunkX, chunkZ) -> chunks at any Y.
	columns map[[2]int][]*Chunk
}

// NewIndex creates an empty index for chunks of the given edge length.
func NewIndex(chunkSize int) *Index {
	return &Index{
		chunkSize: chunkSize,
		chunks:    make(map[ChunkCoord]*Chunk),
		columns:   make(map[[2]int][]*Chunk),
		live:      make(map[ChunkCoord]*Chunk),
	}
}

// ChunkSize returns the chunk edge length in blocks.
func (ix *Index) ChunkSize() int { return ix.chunkSize }

// ChunkAt returns the chunk at cc if it has been created.
func (ix *Index) ChunkAt(cc ChunkCoord) (*Chunk, bool) {
	c, ok := ix.chunks[cc]
	return c, ok
}

// GetOrCreateChunk returns the chunk at cc, creating an empty unloaded chunk
// if none exists.
func (ix *Index) GetOrCreateChunk(cc ChunkCoord) *Chunk {
	if c, ok := ix.chunks[cc]; ok {
		return c
	}
	c := newChunk(ix.owner, cc, ix.chunkSize)
	ix.chunks[cc] = c
	ix.modCount++

	key := [2]int{cc.X, cc.Z}
	ix.columns[key] = append(ix.columns[key], c)
	return c
}

// Get returns the block at c. A miss is not an error.
func (ix *Index) Get(c BlockCoord) (*Block, bool) {
	ch, ok := ix.chunks[c.Chunk(ix.chunkSize)]
	if !ok {
		return nil, false
	}
	b := ch.blocks[ch.offset(c)]
	return b, b != nil
}

// Has reports whether a block occupies c.
func (ix *Index) Has(c BlockCoord) bool {
	_, ok := ix.Get(c)
	return ok
}

// Put stores b at c, creating the chunk if needed and overwriting any
// occupant. It does no rendering.
func (ix *Index) Put(c BlockCoord, b *Block) {
	ch := ix.GetOrCreateChunk(c.Chunk(ix.chunkSize))
	b.Coord = c
	ch.put(b)
}

// Delete clears c and returns the block that was there.
func (ix *Index) Delete(c BlockCoord) (*Block, bool) {
	ch, ok := ix.chunks[c.Chunk(ix.chunkSize)]
	if !ok {
		return nil, false
	}
	b := ch.take(ch.offset(c))
	return b, b != nil
}

// Column returns every chunk at horizontal chunk position (cx, cz).
func (ix *Index) Column(cx, cz int) []*Chunk {
	return ix.columns[[2]int{cx, cz}]
}

// AppendChunksInRadiusXZ appends all chunks whose column lies within radius
// (inclusive, in chunks) of (cx, cz) to dst.
func (ix *Index) AppendChunksInRadiusXZ(cx, cz, radius int, dst []*Chunk) []*Chunk {
	defer profiling.Track("world.AppendChunksInRadiusXZ")()
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			dst = append(dst, ix.columns[[2]int{cx + dx, cz + dz}]...)
		}
	}
	return dst
}

// Chunks returns every chunk in the index, in no particular order.
func (ix *Index) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(ix.chunks))
	for _, c := range ix.chunks {
		out = append(out, c)
	}
	return out
}

// Len returns the number of chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// ModCount returns a counter that increases whenever a chunk is created.
func (ix *Index) ModCount() uint64 { return ix.modCount }

// Live returns every chunk that is loaded or mid-transition, in no
// particular order.
func (ix *Index) Live() []*Chunk {
	out := make([]*Chunk, 0, len(ix.live))
	for _, c := range ix.live {
		out = append(out, c)
	}
	return out
}

// StateModCount returns a counter that increases whenever a chunk changes
// load state.
func (ix *Index) StateModCount() uint64 { return ix.stateMod }
