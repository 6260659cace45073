package instancing

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestBuffer(t *testing.T, alloc Allocator, capacity int) *DynamicBuffer {
	t.Helper()
	b, err := NewDynamicBuffer(alloc, Config{Name: "test", Capacity: capacity, Log: quietLog})
	if err != nil {
		t.Fatalf("NewDynamicBuffer: %v", err)
	}
	return b
}

func at(x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, z)
}

func drawCount(t *testing.T, b *DynamicBuffer) int {
	t.Helper()
	s, ok := b.Storage().(interface{ DrawCount() int })
	if !ok {
		t.Fatalf("storage %T does not expose a draw count", b.Storage())
	}
	return s.DrawCount()
}

func TestNewBufferIsBlank(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 8)
	if b.Cap() != 8 || b.Len() != 0 {
		t.Fatalf("Expected cap 8 len 0, got cap %d len %d", b.Cap(), b.Len())
	}
	for i := range b.Cap() {
		if b.At(i) != Blank {
			t.Errorf("Expected slot %d to be blank", i)
		}
	}
	if got := b.NextIndex(); got != 0 {
		t.Errorf("Expected next index 0, got %d", got)
	}
}

func TestSlotReuse(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 16)
	for i := range 5 {
		if err := b.SetAt(b.NextIndex(), at(float32(i), 0, 0)); err != nil {
			t.Fatalf("SetAt: %v", err)
		}
	}

	if !b.RemoveAt(3) {
		t.Fatalf("RemoveAt(3) reported not occupied")
	}
	if !b.RemoveAt(1) {
		t.Fatalf("RemoveAt(1) reported not occupied")
	}
	if b.At(3) != Blank {
		t.Errorf("Expected removed slot to be blank")
	}

	if got := b.NextIndex(); got != 1 {
		t.Errorf("Expected lowest free slot 1, got %d", got)
	}
	if err := b.SetAt(1, at(10, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if got := b.NextIndex(); got != 3 {
		t.Errorf("Expected free slot 3, got %d", got)
	}
	if err := b.SetAt(3, at(11, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if got := b.NextIndex(); got != 5 {
		t.Errorf("Expected append index 5, got %d", got)
	}
	if b.Len() != 5 {
		t.Errorf("Expected live range to stay at 5, got %d", b.Len())
	}
}

func TestSetRemoveThenNextIndex(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 16)
	for i := range 4 {
		if _, err := b.Insert(at(float32(i), 0, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.SetAt(2, at(9, 9, 9)); err != nil {
		t.Fatal(err)
	}
	b.RemoveAt(2)
	if got := b.NextIndex(); got != 2 {
		t.Errorf("Expected freed index 2 before unused index 4, got %d", got)
	}
}

func TestSetAtGapMarksFree(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 16)
	if err := b.SetAt(4, at(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 5 {
		t.Errorf("Expected live range 5, got %d", b.Len())
	}
	if b.Free() != 4 {
		t.Errorf("Expected 4 free gap slots, got %d", b.Free())
	}
	for i := range 4 {
		if b.Occupied(i) {
			t.Errorf("Expected gap slot %d to be free", i)
		}
	}
	if got := b.NextIndex(); got != 0 {
		t.Errorf("Expected next index 0, got %d", got)
	}
	if got := drawCount(t, b); got != 5 {
		t.Errorf("Expected draw count 5, got %d", got)
	}
}

func TestGrowthPreservesData(t *testing.T) {
	const capacity = 4
	b := newTestBuffer(t, &MemoryAllocator{}, capacity)

	grows := 0
	lastCap := b.Cap()
	for i := range capacity + 1 {
		if _, err := b.Insert(at(float32(i), float32(i*2), float32(i*3))); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		if b.Cap() != lastCap {
			grows++
			lastCap = b.Cap()
		}
	}

	if grows != 1 {
		t.Errorf("Expected exactly one doubling, got %d", grows)
	}
	if b.Cap() != capacity*2 {
		t.Errorf("Expected capacity %d, got %d", capacity*2, b.Cap())
	}
	for i := range capacity + 1 {
		want := at(float32(i), float32(i*2), float32(i*3))
		if got := b.At(i); got != want {
			t.Errorf("Slot %d changed after growth: got %v want %v", i, got, want)
		}
	}
	for i := capacity + 1; i < b.Cap(); i++ {
		if b.At(i) != Blank {
			t.Errorf("Expected new slot %d to be blank", i)
		}
	}
	if got := drawCount(t, b); got != capacity+1 {
		t.Errorf("Expected draw count %d, got %d", capacity+1, got)
	}
}

func TestSetAtFarIndexGrowsOnce(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 4)
	if err := b.SetAt(20, at(1, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if b.Cap() != 32 {
		t.Errorf("Expected capacity 32, got %d", b.Cap())
	}
	if b.At(20) != at(1, 1, 1) {
		t.Errorf("Expected transform at slot 20")
	}
}

func TestGrowFailureLeavesBufferIntact(t *testing.T) {
	alloc := &MemoryAllocator{MaxInstances: 6}
	b := newTestBuffer(t, alloc, 4)
	for i := range 3 {
		if _, err := b.Insert(at(float32(i), 0, 0)); err != nil {
			t.Fatal(err)
		}
	}

	err := b.SetAt(3, at(3, 0, 0))
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Expected ErrExhausted, got %v", err)
	}
	if b.Cap() != 4 || b.Len() != 3 {
		t.Errorf("Expected cap 4 len 3 after failure, got cap %d len %d", b.Cap(), b.Len())
	}
	if b.At(3) != Blank {
		t.Errorf("Expected slot 3 untouched")
	}
	for i := range 3 {
		if b.At(i) != at(float32(i), 0, 0) {
			t.Errorf("Slot %d changed after failed growth", i)
		}
	}
	if alloc.Allocated() != 4 {
		t.Errorf("Expected 4 instances allocated, got %d", alloc.Allocated())
	}
}

func TestGrowReleasesOldStorage(t *testing.T) {
	alloc := &MemoryAllocator{}
	b := newTestBuffer(t, alloc, 4)
	if err := b.Grow(); err != nil {
		t.Fatal(err)
	}
	if alloc.Allocated() != 8 {
		t.Errorf("Expected only the new storage to be held, got %d", alloc.Allocated())
	}
}

func TestRemoveAtNotOccupied(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 8)
	if b.RemoveAt(0) {
		t.Errorf("Expected RemoveAt on empty buffer to fail")
	}
	if _, err := b.Insert(at(1, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if !b.RemoveAt(0) {
		t.Errorf("Expected RemoveAt(0) to succeed")
	}
	if b.RemoveAt(0) {
		t.Errorf("Expected second RemoveAt(0) to fail")
	}
	if b.RemoveAt(-1) || b.RemoveAt(100) {
		t.Errorf("Expected out of range RemoveAt to fail")
	}
	if b.Len() != 1 {
		t.Errorf("Expected live range not to shrink, got %d", b.Len())
	}
}

func TestFindMatching(t *testing.T) {
	b := newTestBuffer(t, &MemoryAllocator{}, 8)
	for i := range 3 {
		if _, err := b.Insert(at(float32(i), 5, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if i, ok := b.FindMatching(at(2, 5, 0)); !ok || i != 2 {
		t.Errorf("Expected match at 2, got %d %v", i, ok)
	}
	b.RemoveAt(2)
	if _, ok := b.FindMatching(at(2, 5, 0)); ok {
		t.Errorf("Expected freed slot not to match")
	}
}

func BenchmarkInsertRemove(b *testing.B) {
	buf, err := NewDynamicBuffer(&MemoryAllocator{}, Config{Capacity: 1024, Log: quietLog})
	if err != nil {
		b.Fatal(err)
	}
	m := at(1, 2, 3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		slot, _ := buf.Insert(m)
		if i%2 == 0 {
			buf.RemoveAt(slot)
		}
	}
}
