package instancing

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrExhausted is returned when a backing storage cannot be allocated.
var ErrExhausted = errors.New("instancing: storage exhausted")

// Blank is the degenerate transform written into unused slots. A zero scale
// collapses the instance so it draws nothing.
var Blank = mgl32.Scale3D(0, 0, 0)

// Storage is the fixed-size contiguous array of instance transforms that a
// renderer draws from. Implementations are owned by a single DynamicBuffer.
type Storage interface {
	// Cap returns the number of transforms the storage holds.
	Cap() int
	At(i int) mgl32.Mat4
	Set(i int, m mgl32.Mat4)
	// SetDrawCount tells the renderer how many leading instances to draw.
	SetDrawCount(n int)
	// Release frees the storage. It must not be used afterwards.
	Release()
}

// Allocator creates backing storages of a given capacity.
type Allocator interface {
	Allocate(capacity int) (Storage, error)
}

// MemoryAllocator hands out slice backed storages. A positive MaxInstances
// bounds the total number of instances live across all storages it has
// allocated and not yet released.
type MemoryAllocator struct {
	MaxInstances int

	allocated int
}

// Allocate implements Allocator.
func (a *MemoryAllocator) Allocate(capacity int) (Storage, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("instancing: invalid capacity %d", capacity)
	}
	if a.MaxInstances > 0 && a.allocated+capacity > a.MaxInstances {
		return nil, fmt.Errorf("allocate %d instances (%d/%d in use): %w", capacity, a.allocated, a.MaxInstances, ErrExhausted)
	}
	a.allocated += capacity
	return &memoryStorage{owner: a, data: make([]mgl32.Mat4, capacity)}, nil
}

// Allocated returns the number of instances held by unreleased storages.
func (a *MemoryAllocator) Allocated() int {
	return a.allocated
}

type memoryStorage struct {
	owner     *MemoryAllocator
	data      []mgl32.Mat4
	drawCount int
}

func (s *memoryStorage) Cap() int                { return len(s.data) }
func (s *memoryStorage) At(i int) mgl32.Mat4     { return s.data[i] }
func (s *memoryStorage) Set(i int, m mgl32.Mat4) { s.data[i] = m }
func (s *memoryStorage) SetDrawCount(n int)      { s.drawCount = n }

// DrawCount returns the value last passed to SetDrawCount.
func (s *memoryStorage) DrawCount() int { return s.drawCount }

func (s *memoryStorage) Release() {
	if s.data == nil {
		return
	}
	s.owner.allocated -= len(s.data)
	s.data = nil
}
