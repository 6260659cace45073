package world

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/profiling"
)

// StreamStats reports what one LoadNearby call did.
type StreamStats struct {
	// Loaded and Unloaded count chunks that completed a transition.
	Loaded   int
	Unloaded int
	// Pending counts chunks left mid-transition because the block budget ran out.
	Pending int
	// Skipped is set when nothing changed since the previous call.
	Skipped bool
}

// ChunkStreamer keeps the chunks around a viewer loaded and unloads every
// other loaded chunk of the world, including chunks loaded directly. It only
// loads chunks that already exist in the index; generation is a separate
// step.
type ChunkStreamer struct {
	w *World

	// blockBudget caps the blocks meshed or unmeshed per call; 0 means no cap.
	blockBudget int

	primed       bool
	lastCell     ChunkCoord
	lastRadius   int
	lastMod      uint64
	lastStateMod uint64
	pending      int

	scratch []*Chunk
}

// NewChunkStreamer creates a streamer for w. A positive blockBudget spreads
// chunk transitions across calls.
func NewChunkStreamer(w *World, blockBudget int) *ChunkStreamer {
	return &ChunkStreamer{
		w:           w,
		blockBudget: max(blockBudget, 0),
	}
}

// ViewerCell returns the chunk cell a world space position falls in, rounding
// to the nearest cell on each axis.
func (s *ChunkStreamer) ViewerCell(pos mgl32.Vec3) ChunkCoord {
	span := float64(s.w.conf.ChunkSize) * float64(s.w.conf.BlockSize)
	return ChunkCoord{
		X: int(math.Round(float64(pos[0]) / span)),
		Y: int(math.Round(float64(pos[1]) / span)),
		Z: int(math.Round(float64(pos[2]) / span)),
	}
}

// LoadNearby loads every existing chunk whose column lies within radius of the
// viewer's cell, at every height, and unloads every loaded chunk outside it.
// Call it once per tick.
func (s *ChunkStreamer) LoadNearby(viewer mgl32.Vec3, radius int) (StreamStats, error) {
	defer profiling.Track("world.LoadNearby")()

	cell := s.ViewerCell(viewer)
	ix := s.w.index
	if s.primed && s.pending == 0 && cell == s.lastCell && radius == s.lastRadius &&
		ix.ModCount() == s.lastMod && ix.StateModCount() == s.lastStateMod {
		return StreamStats{Skipped: true}, nil
	}

	s.scratch = s.w.index.AppendChunksInRadiusXZ(cell.X, cell.Z, radius, s.scratch[:0])
	nearby := make(map[ChunkCoord]struct{}, len(s.scratch))
	for _, c := range s.scratch {
		nearby[c.Coord] = struct{}{}
	}

	var stats StreamStats
	budget := s.blockBudget
	spend := func(n int) bool {
		if s.blockBudget == 0 {
			return true
		}
		budget -= n
		return budget > 0
	}
	stepBudget := func() int {
		if s.blockBudget == 0 {
			return 0
		}
		return budget
	}

	// Unload first so the freed slots are reused by the loads below.
	far := make([]*Chunk, 0)
	for _, c := range ix.Live() {
		if _, ok := nearby[c.Coord]; !ok {
			far = append(far, c)
		}
	}
	sortByDistance(far, cell)
	slices.Reverse(far)

	exhausted := false
	for _, c := range far {
		if exhausted {
			stats.Pending++
			continue
		}
		n, done := c.unloadStep(stepBudget())
		if done {
			stats.Unloaded++
		} else {
			stats.Pending++
		}
		exhausted = !spend(n) || !done
	}

	sortByDistance(s.scratch, cell)
	var firstErr error
	for _, c := range s.scratch {
		if c.Loaded() {
			continue
		}
		if exhausted {
			stats.Pending++
			continue
		}
		n, done, err := c.loadStep(stepBudget())
		if err != nil {
			s.w.log.Error("chunk load failed", "chunk", c.Coord, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			stats.Pending++
			continue
		}
		if done {
			stats.Loaded++
		} else {
			stats.Pending++
		}
		exhausted = !spend(n) || !done
	}

	s.pending = stats.Pending
	// Recorded after this call's own transitions so only outside changes
	// defeat the skip.
	s.primed, s.lastCell, s.lastRadius = true, cell, radius
	s.lastMod, s.lastStateMod = ix.ModCount(), ix.StateModCount()
	if stats.Loaded > 0 || stats.Unloaded > 0 {
		s.w.log.Debug("streamed chunks", "cell", cell, "radius", radius,
			"loaded", stats.Loaded, "unloaded", stats.Unloaded, "pending", stats.Pending)
	}
	return stats, firstErr
}

// Loaded returns the coordinates of every fully loaded chunk of the world.
func (s *ChunkStreamer) Loaded() []ChunkCoord {
	live := s.w.index.Live()
	out := make([]ChunkCoord, 0, len(live))
	for _, c := range live {
		if c.Loaded() {
			out = append(out, c.Coord)
		}
	}
	slices.SortFunc(out, func(a, b ChunkCoord) int {
		return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Z, b.Z), cmp.Compare(a.Y, b.Y))
	})
	return out
}

// UnloadAll unloads every loaded chunk of the world.
func (s *ChunkStreamer) UnloadAll() {
	for _, c := range s.w.index.Live() {
		c.Unload()
	}
	s.primed = false
	s.pending = 0
}

func sortByDistance(chunks []*Chunk, cell ChunkCoord) {
	dist := func(c *Chunk) int {
		dx, dz := c.Coord.X-cell.X, c.Coord.Z-cell.Z
		return dx*dx + dz*dz
	}
	slices.SortFunc(chunks, func(a, b *Chunk) int {
		return cmp.Or(
			cmp.Compare(dist(a), dist(b)),
			cmp.Compare(a.Coord.X, b.Coord.X),
			cmp.Compare(a.Coord.Z, b.Coord.Z),
			cmp.Compare(a.Coord.Y, b.Coord.Y),
		)
	})
}
