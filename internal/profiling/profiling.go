package profiling

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Per-frame wall clock totals keyed by operation name.

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
	calls  = make(map[string]int)
)

// Track returns a stop function that adds the elapsed time to name's total.
// Usage: defer profiling.Track("world.LoadNearby")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		totals[name] += d
		calls[name]++
		mu.Unlock()
	}
}

// ResetFrame clears the totals. Call it at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(totals)
	clear(calls)
	mu.Unlock()
}

// Entry is one operation's accumulated time in the current frame.
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

// Snapshot returns the current totals, largest first.
func Snapshot() []Entry {
	mu.Lock()
	out := make([]Entry, 0, len(totals))
	for k, v := range totals {
		out = append(out, Entry{Name: k, Total: v, Calls: calls[k]})
	}
	mu.Unlock()
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(b.Total, a.Total), strings.Compare(a.Name, b.Name))
	})
	return out
}

// TopN formats the n largest totals, e.g. "world.LoadNearby:4.2ms(1), graphics.Flush:0.8ms(12)".
func TopN(n int) string {
	list := Snapshot()
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		ms := float64(e.Total.Microseconds()) / 1000
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", e.Name, ms, e.Calls))
	}
	return strings.Join(parts, ", ")
}
