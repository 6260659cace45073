package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-voxel/internal/instancing"
)

// instanceBytes is the size of one mat4 instance attribute.
const instanceBytes = 16 * 4

// Allocator creates instance storages backed by GL array buffers. It must be
// used on the thread that owns the GL context.
type Allocator struct {
	// MaxInstances bounds the instances across every live storage; 0 is
	// unbounded.
	MaxInstances int

	allocated int
}

// Allocate implements instancing.Allocator.
func (a *Allocator) Allocate(capacity int) (instancing.Storage, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("graphics: invalid capacity %d", capacity)
	}
	if a.MaxInstances > 0 && a.allocated+capacity > a.MaxInstances {
		return nil, fmt.Errorf("allocate %d instances (%d/%d in use): %w", capacity, a.allocated, a.MaxInstances, instancing.ErrExhausted)
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*instanceBytes, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if e := gl.GetError(); e == gl.OUT_OF_MEMORY {
		gl.DeleteBuffers(1, &vbo)
		return nil, fmt.Errorf("allocate %d instances: GL out of memory: %w", capacity, instancing.ErrExhausted)
	}

	a.allocated += capacity
	return &Storage{owner: a, vbo: vbo, mirror: make([]mgl32.Mat4, capacity)}, nil
}

// Allocated returns the number of instances held by unreleased storages.
func (a *Allocator) Allocated() int { return a.allocated }

// Storage keeps a CPU copy of a GL instance buffer and uploads the modified
// range on Flush.
type Storage struct {
	owner     *Allocator
	vbo       uint32
	mirror    []mgl32.Mat4
	dirty     dirtyRange
	drawCount int
}

func (s *Storage) Cap() int            { return len(s.mirror) }
func (s *Storage) At(i int) mgl32.Mat4 { return s.mirror[i] }
func (s *Storage) SetDrawCount(n int)  { s.drawCount = n }
func (s *Storage) DrawCount() int      { return s.drawCount }
func (s *Storage) VBO() uint32         { return s.vbo }

func (s *Storage) Set(i int, m mgl32.Mat4) {
	s.mirror[i] = m
	s.dirty.mark(i)
}

// Flush uploads every instance written since the last Flush and returns how
// many were sent.
func (s *Storage) Flush() int {
	lo, hi, ok := s.dirty.take()
	if !ok || s.vbo == 0 {
		return 0
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, lo*instanceBytes, (hi-lo)*instanceBytes, gl.Ptr(&s.mirror[lo][0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return hi - lo
}

func (s *Storage) Release() {
	if s.vbo == 0 {
		return
	}
	gl.DeleteBuffers(1, &s.vbo)
	s.vbo = 0
	s.owner.allocated -= len(s.mirror)
}

// dirtyRange tracks the half open span of modified indices.
type dirtyRange struct {
	lo, hi int
	set    bool
}

func (d *dirtyRange) mark(i int) {
	if !d.set {
		d.lo, d.hi, d.set = i, i+1, true
		return
	}
	d.lo = min(d.lo, i)
	d.hi = max(d.hi, i+1)
}

// take returns the span and clears it.
func (d *dirtyRange) take() (lo, hi int, ok bool) {
	if !d.set {
		return 0, 0, false
	}
	lo, hi = d.lo, d.hi
	*d = dirtyRange{}
	return lo, hi, true
}
