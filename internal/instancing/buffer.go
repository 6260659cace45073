package instancing

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCapacity is the initial capacity used when Config.Capacity is not set.
const DefaultCapacity = 256

// matchEpsilon is the tolerance used when matching instances by position.
const matchEpsilon = 1e-4

// Config holds the options for a DynamicBuffer.
type Config struct {
	// Name identifies the buffer in log output.
	Name string
	// Capacity is the initial number of slots. Zero means DefaultCapacity.
	Capacity int
	// Log receives growth notices. If nil, slog.Default() is used.
	Log *slog.Logger
}

// DynamicBuffer presents a sparse set of instance transforms on top of a
// contiguous Storage. Slots freed by RemoveAt are blanked and reused; the
// storage doubles when the live range reaches its capacity. Slot indices are
// stable for as long as the slot is occupied.
type DynamicBuffer struct {
	name    string
	log     *slog.Logger
	alloc   Allocator
	storage Storage

	// count is the live range [0, count) handed to the renderer. It never
	// shrinks; freed slots inside it are drawn as Blank.
	count int
	free  freeSet
}

// NewDynamicBuffer allocates the initial storage and blanks it.
func NewDynamicBuffer(alloc Allocator, conf Config) (*DynamicBuffer, error) {
	if conf.Capacity <= 0 {
		conf.Capacity = DefaultCapacity
	}
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	s, err := alloc.Allocate(conf.Capacity)
	if err != nil {
		return nil, fmt.Errorf("new buffer %q: %w", conf.Name, err)
	}
	for i := range s.Cap() {
		s.Set(i, Blank)
	}
	s.SetDrawCount(0)
	return &DynamicBuffer{
		name:    conf.Name,
		log:     conf.Log,
		alloc:   alloc,
		storage: s,
		free:    newFreeSet(),
	}, nil
}

// NextIndex returns the slot the next insertion should use: the lowest free
// slot inside the live range, or the end of the live range.
func (b *DynamicBuffer) NextIndex() int {
	if i, ok := b.free.min(); ok {
		return i
	}
	return b.count
}

// SetAt writes m into slot index. Indices skipped between the previous end of
// the live range and index become free. If the live range would reach the
// capacity the storage is grown first; when that allocation fails the buffer
// is left untouched and the error is returned.
func (b *DynamicBuffer) SetAt(index int, m mgl32.Mat4) error {
	if index < 0 {
		return fmt.Errorf("buffer %q: negative index %d", b.name, index)
	}
	newCount := max(b.count, index+1)
	if newCount >= b.storage.Cap() {
		target := b.storage.Cap()
		for newCount >= target {
			target *= 2
		}
		if err := b.growTo(target); err != nil {
			return err
		}
	}

	for i := b.count; i < index; i++ {
		b.free.add(i)
	}
	b.free.remove(index)
	b.count = newCount
	b.storage.Set(index, m)
	b.storage.SetDrawCount(b.count)
	return nil
}

// Insert writes m into NextIndex and returns the slot used.
func (b *DynamicBuffer) Insert(m mgl32.Mat4) (int, error) {
	i := b.NextIndex()
	if err := b.SetAt(i, m); err != nil {
		return -1, err
	}
	return i, nil
}

// RemoveAt frees an occupied slot and blanks it. It reports false if the slot
// was not occupied.
func (b *DynamicBuffer) RemoveAt(index int) bool {
	if !b.Occupied(index) {
		return false
	}
	b.free.add(index)
	b.storage.Set(index, Blank)
	return true
}

// Grow doubles the capacity of the buffer.
func (b *DynamicBuffer) Grow() error {
	return b.growTo(b.storage.Cap() * 2)
}

func (b *DynamicBuffer) growTo(capacity int) error {
	old := b.storage
	next, err := b.alloc.Allocate(capacity)
	if err != nil {
		b.log.Error("instance buffer growth failed", "buffer", b.name, "capacity", old.Cap(), "requested", capacity, "err", err)
		return fmt.Errorf("grow buffer %q to %d: %w", b.name, capacity, err)
	}
	for i := range old.Cap() {
		next.Set(i, old.At(i))
	}
	for i := old.Cap(); i < capacity; i++ {
		next.Set(i, Blank)
	}
	next.SetDrawCount(b.count)
	b.storage = next
	old.Release()

	b.log.Info("instance buffer grew", "buffer", b.name, "capacity", capacity, "live", b.count)
	return nil
}

// Occupied reports whether index holds a live instance.
func (b *DynamicBuffer) Occupied(index int) bool {
	return index >= 0 && index < b.count && !b.free.has(index)
}

// At returns the transform stored in slot index.
func (b *DynamicBuffer) At(index int) mgl32.Mat4 {
	return b.storage.At(index)
}

// FindMatching scans the live range for an occupied slot whose translation
// equals the translation of m.
func (b *DynamicBuffer) FindMatching(m mgl32.Mat4) (int, bool) {
	want := m.Col(3).Vec3()
	for i := range b.count {
		if b.free.has(i) {
			continue
		}
		if b.storage.At(i).Col(3).Vec3().ApproxEqualThreshold(want, matchEpsilon) {
			return i, true
		}
	}
	return -1, false
}

// Len returns the size of the live range, which is also the draw count.
func (b *DynamicBuffer) Len() int { return b.count }

// Cap returns the current storage capacity.
func (b *DynamicBuffer) Cap() int { return b.storage.Cap() }

// Free returns the number of free slots inside the live range.
func (b *DynamicBuffer) Free() int { return b.free.len() }

// Live returns the number of occupied slots.
func (b *DynamicBuffer) Live() int { return b.count - b.free.len() }

// Storage returns the current backing storage. It changes when the buffer
// grows.
func (b *DynamicBuffer) Storage() Storage { return b.storage }

// Name returns the buffer name.
func (b *DynamicBuffer) Name() string { return b.name }

// Release frees the backing storage.
func (b *DynamicBuffer) Release() {
	if b.storage != nil {
		b.storage.Release()
	}
}
