package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var (
	// ErrOccupied is returned by Place under PolicyReject when the target
	// coordinate already holds a block.
	ErrOccupied = errors.New("world: coordinate occupied")
	// ErrOutOfRange is returned for coordinates outside [MinCoord, MaxCoord].
	ErrOutOfRange = errors.New("world: coordinate out of range")
	// ErrUnknownMaterial is returned for materials the table cannot resolve.
	ErrUnknownMaterial = errors.New("world: unknown material")
)

// PlacementPolicy decides what Place does when the coordinate is occupied.
type PlacementPolicy uint8

const (
	// PolicyReplace discards the existing block and stores the new one.
	PolicyReplace PlacementPolicy = iota
	// PolicyReject leaves the existing block and returns ErrOccupied.
	PolicyReject
	// PolicyMerge keeps the existing block and switches it to the new material.
	PolicyMerge
)

func (p PlacementPolicy) String() string {
	switch p {
	case PolicyReplace:
		return "replace"
	case PolicyReject:
		return "reject"
	case PolicyMerge:
		return "merge"
	}
	return "invalid"
}

// ParsePlacementPolicy parses the names returned by PlacementPolicy.String.
func ParsePlacementPolicy(s string) (PlacementPolicy, error) {
	switch s {
	case "", "replace":
		return PolicyReplace, nil
	case "reject":
		return PolicyReject, nil
	case "merge":
		return PolicyMerge, nil
	}
	return 0, fmt.Errorf("unknown placement policy %q", s)
}

// Config holds the options for a World.
type Config struct {
	// ChunkSize is the edge length of a chunk in blocks.
	ChunkSize int
	// BlockSize is the edge length of a block in world units.
	BlockSize float32
	// Policy applies when placing a block on an occupied coordinate.
	Policy PlacementPolicy
	// Log is the Logger to use. If nil, slog.Default() is used.
	Log *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 16
	}
	if c.BlockSize <= 0 {
		c.BlockSize = 1
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}

// World owns the spatial index and the material table and performs every
// block mutation. It is not safe for concurrent use.
type World struct {
	id        uuid.UUID
	conf      Config
	log       *slog.Logger
	index     *Index
	materials MaterialTable
}

// New creates an empty world drawing through materials.
func New(conf Config, materials MaterialTable) *World {
	conf = conf.withDefaults()
	id := uuid.New()
	w := &World{
		id:        id,
		conf:      conf,
		log:       conf.Log.With("world", id.String()),
		materials: materials,
	}
	w.index = NewIndex(conf.ChunkSize)
	w.index.owner = w
	return w
}

// ID returns the session identifier of the world.
func (w *World) ID() uuid.UUID { return w.id }

// Index returns the world's spatial index.
func (w *World) Index() *Index { return w.index }

// Materials returns the table the world draws faces through.
func (w *World) Materials() MaterialTable { return w.materials }

// ChunkSize returns the chunk edge length in blocks.
func (w *World) ChunkSize() int { return w.conf.ChunkSize }

// BlockSize returns the block edge length in world units.
func (w *World) BlockSize() float32 { return w.conf.BlockSize }

// Log returns the world's logger.
func (w *World) Log() *slog.Logger { return w.log }

// Block returns the block at c.
func (w *World) Block(c BlockCoord) (*Block, bool) { return w.index.Get(c) }

// Place puts a block of material m at c. When c is occupied the world's
// PlacementPolicy decides the outcome. If c's chunk is loaded the block is
// rendered, and neighbors whose visible faces changed are re-rendered.
func (w *World) Place(c BlockCoord, m MaterialID) (*Block, error) {
	if !c.InRange() {
		return nil, fmt.Errorf("place %v: %w", c, ErrOutOfRange)
	}
	if _, ok := w.materials.FaceBuffer(m, FaceTop); !ok {
		return nil, fmt.Errorf("place %v material %d: %w", c, m, ErrUnknownMaterial)
	}

	if existing, ok := w.index.Get(c); ok {
		switch w.conf.Policy {
		case PolicyReject:
			return existing, fmt.Errorf("place %v: %w", c, ErrOccupied)
		case PolicyMerge:
			existing.Material = m
			if existing.meshed {
				return existing, w.Render(existing)
			}
			return existing, nil
		}
		w.Unrender(existing)
	}

	b := &Block{Coord: c, Material: m}
	ch := w.index.GetOrCreateChunk(c.Chunk(w.conf.ChunkSize))
	return b, ch.AddBlock(b)
}

// Remove deletes the block at c, releasing its instances and re-culling its
// neighbors. It reports false if c was empty.
func (w *World) Remove(c BlockCoord) bool {
	b, ok := w.index.Get(c)
	if !ok {
		return false
	}
	w.Unrender(b)
	w.index.Delete(c)
	b.chunk = nil
	if err := w.refreshNeighbors(c); err != nil {
		w.log.Error("re-render after remove failed", "coord", c, "err", err)
	}
	return true
}

// CullFaces recomputes b's visible faces: a face is visible iff no block
// occupies the neighboring cell across it.
func (w *World) CullFaces(b *Block) FaceSet {
	var s FaceSet
	for _, f := range Faces {
		if !w.index.Has(b.Coord.Neighbor(f)) {
			s = s.With(f)
		}
	}
	b.faces = s
	return s
}

// Render registers one instance per visible face of b, unrendering b first if
// it was already rendered. If any insertion fails the instances added so far
// are removed and b is left unrendered.
func (w *World) Render(b *Block) error {
	if b.meshed {
		w.Unrender(b)
	}
	for _, f := range Faces {
		if !b.faces.Has(f) {
			continue
		}
		buf, ok := w.materials.FaceBuffer(b.Material, f)
		if !ok {
			w.Unrender(b)
			return fmt.Errorf("render %v %v: %w", b.Coord, f, ErrUnknownMaterial)
		}
		if _, err := buf.Insert(faceKey(b.Coord, f), FaceTransform(b.Coord, f, w.conf.BlockSize)); err != nil {
			w.Unrender(b)
			return fmt.Errorf("render %v %v: %w", b.Coord, f, err)
		}
		b.rendered = append(b.rendered, renderedFace{face: f, buf: buf})
	}
	b.meshed = true
	return nil
}

// Unrender releases every face instance b has registered.
func (w *World) Unrender(b *Block) {
	for _, r := range b.rendered {
		if !r.buf.Remove(faceKey(b.Coord, r.face)) {
			w.log.Debug("face instance already absent", "coord", b.Coord, "face", r.face)
		}
	}
	b.rendered = b.rendered[:0]
	b.meshed = false
}

// refreshNeighbors re-culls the meshed neighbors of c in active chunks and
// re-renders those whose visible faces changed.
func (w *World) refreshNeighbors(c BlockCoord) error {
	var first error
	for _, f := range Faces {
		nb, ok := w.index.Get(c.Neighbor(f))
		if !ok || !nb.meshed || !nb.chunk.active() {
			continue
		}
		prev := nb.faces
		if w.CullFaces(nb) == prev {
			continue
		}
		if err := w.Render(nb); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stats summarizes the world's contents.
type Stats struct {
	Chunks       int
	LoadedChunks int
	Blocks       int
	MeshedBlocks int
}

// Stats walks every chunk and counts its contents.
func (w *World) Stats() Stats {
	var s Stats
	for _, c := range w.index.chunks {
		s.Chunks++
		if c.Loaded() {
			s.LoadedChunks++
		}
		s.Blocks += c.count
		for _, b := range c.blocks {
			if b != nil && b.meshed {
				s.MeshedBlocks++
			}
		}
	}
	return s
}
