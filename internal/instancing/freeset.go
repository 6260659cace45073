package instancing

import "container/heap"

// freeSet is an ordered set of slot indices. Membership lives in the map; the
// heap may hold stale or duplicate entries which are dropped lazily when they
// surface at the top.
type freeSet struct {
	members map[int]struct{}
	order   intHeap
}

func newFreeSet() freeSet {
	return freeSet{members: make(map[int]struct{})}
}

func (f *freeSet) add(i int) {
	if _, ok := f.members[i]; ok {
		return
	}
	f.members[i] = struct{}{}
	heap.Push(&f.order, i)
}

func (f *freeSet) remove(i int) {
	delete(f.members, i)
}

func (f *freeSet) has(i int) bool {
	_, ok := f.members[i]
	return ok
}

func (f *freeSet) len() int { return len(f.members) }

// min returns the lowest member.
func (f *freeSet) min() (int, bool) {
	for f.order.Len() > 0 {
		top := f.order[0]
		if _, ok := f.members[top]; ok {
			return top, true
		}
		heap.Pop(&f.order)
	}
	return 0, false
}

type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *intHeap) Push(x any) { *h = append(*h, x.(int)) }

func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
