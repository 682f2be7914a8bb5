// Package arena implements the memory-accounting gate and the primitive
// containers (intrusive lists, identity/content hash tables) that the rest
// of the runtime builds on. It mirrors original_source/src/lib/ox_mem.c:
// every allocation/free passes through a single Realloc-shaped gate so the
// VM can report peak usage and flag leaks at teardown.
package arena

import (
	"sync"

	"github.com/dustin/go-humanize"
)

// Arena tracks the live and peak byte counts for one VM. It does not
// actually allocate memory itself (Go's GC owns that); it accounts for the
// logical sizes the runtime attributes to heap objects, strings and
// property tables, the same role ox_realloc plays over a real malloc.
type Arena struct {
	mu        sync.Mutex
	allocated int64
	peak      int64
}

// New returns a fresh, empty Arena.
func New() *Arena {
	return &Arena{}
}

// Realloc adjusts the accounted size of a buffer from oldSize to newSize.
// Passing newSize == 0 accounts a free. It returns the new size for
// convenience at call sites that chain it.
func (a *Arena) Realloc(oldSize, newSize int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.allocated += int64(newSize - oldSize)
	if a.allocated > a.peak {
		a.peak = a.allocated
	}
	return newSize
}

// Allocated returns the current accounted size.
func (a *Arena) Allocated() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocated
}

// Peak returns the highest accounted size ever observed.
func (a *Arena) Peak() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peak
}

// Summary renders a human-readable teardown line, e.g.
// "maximum allocated memory: 128 kB". Mirrors ox_mem_deinit's OX_LOG_D line.
func (a *Arena) Summary() string {
	return "maximum allocated memory: " + humanize.Bytes(uint64(a.Peak()))
}

// Leaked reports the unfreed size at teardown (ox_mem_deinit's OX_LOG_E path).
func (a *Arena) Leaked() (int64, bool) {
	n := a.Allocated()
	return n, n != 0
}
