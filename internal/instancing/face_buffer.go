package instancing

import (
	"fmt"

	"github.com/brentp/intintmap"
	"github.com/go-gl/mathgl/mgl32"
)

const reverseFillFactor = 0.6

// FaceBuffer is a DynamicBuffer paired with a reverse index from a caller
// chosen key to the slot holding that key's instance, so removal does not
// have to scan the buffer.
type FaceBuffer struct {
	buf   *DynamicBuffer
	slots *intintmap.Map
	keys  map[int]int64
}

// NewFaceBuffer creates a FaceBuffer on top of a new DynamicBuffer.
func NewFaceBuffer(alloc Allocator, conf Config) (*FaceBuffer, error) {
	buf, err := NewDynamicBuffer(alloc, conf)
	if err != nil {
		return nil, err
	}
	return &FaceBuffer{
		buf:   buf,
		slots: intintmap.New(max(buf.Cap(), 64), reverseFillFactor),
		keys:  make(map[int]int64),
	}, nil
}

// Insert stores m under key and returns its slot. If key is already present
// its instance is overwritten in place.
func (f *FaceBuffer) Insert(key int64, m mgl32.Mat4) (int, error) {
	if slot, ok := f.slots.Get(key); ok {
		if err := f.buf.SetAt(int(slot), m); err != nil {
			return -1, fmt.Errorf("insert key %d: %w", key, err)
		}
		return int(slot), nil
	}
	slot, err := f.buf.Insert(m)
	if err != nil {
		return -1, fmt.Errorf("insert key %d: %w", key, err)
	}
	f.slots.Put(key, int64(slot))
	f.keys[slot] = key
	return slot, nil
}

// Remove frees the slot held by key. It reports false if key has no instance.
func (f *FaceBuffer) Remove(key int64) bool {
	slot, ok := f.slots.Get(key)
	if !ok {
		return false
	}
	f.slots.Del(key)
	delete(f.keys, int(slot))
	return f.buf.RemoveAt(int(slot))
}

// RemoveMatching frees the first live instance whose translation matches m.
func (f *FaceBuffer) RemoveMatching(m mgl32.Mat4) bool {
	slot, ok := f.buf.FindMatching(m)
	if !ok {
		return false
	}
	if key, ok := f.keys[slot]; ok {
		f.slots.Del(key)
		delete(f.keys, slot)
	}
	return f.buf.RemoveAt(slot)
}

// Slot returns the slot holding key.
func (f *FaceBuffer) Slot(key int64) (int, bool) {
	slot, ok := f.slots.Get(key)
	return int(slot), ok
}

// Len returns the number of keyed instances.
func (f *FaceBuffer) Len() int { return f.slots.Size() }

// Buffer returns the underlying DynamicBuffer.
func (f *FaceBuffer) Buffer() *DynamicBuffer { return f.buf }

// Release frees the backing storage.
func (f *FaceBuffer) Release() { f.buf.Release() }
