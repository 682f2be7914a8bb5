// Package gc implements the mark-sweep collector of §4.3: it runs only
// while the VM's big lock is held, traces from a fixed set of roots (value
// stack, frame chain, global refs, the packages object, the script table,
// the singleton-string table, the pending-error slot and the current
// script), and sweeps every tracked heap object that didn't get marked.
// Grounded on original_source/src/lib/ox_object.c's scan/free vtable slots,
// generalised here into Go interfaces instead of a C function-pointer
// table.
package gc

import (
	"github.com/google/uuid"

	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// marker is satisfied by every heap object's embedded object.Header.
type marker interface {
	Marked() bool
	SetMarked(bool)
}

// RootFunc enumerates a category of GC roots by calling mark for every
// value.Value it holds that must survive the next collection.
type RootFunc func(mark func(value.Value))

// Collector is the VM's mark-sweep heap tracker. It owns the set of
// currently-live heap objects (populated by Track at allocation time) and a
// list of root sources registered once at VM construction.
type Collector struct {
	live  map[value.Object]struct{}
	roots []RootFunc
	free  func(value.Object)

	collections int
	lastFreed   int
	lastLive    int

	id string
}

// New returns an empty Collector, stamped with a fresh VM instance ID
// (§4.1's identity-hash token role: embedded in crash/stack-dump output and
// as the namespace for per-context thread-key tokens and ctype/cvalue
// identity tokens — grounded on the Domain Stack table's uuid assignment to
// this package). free is invoked, once, for every object the next sweep
// determines to be unreachable — callers wire kind-specific teardown there
// (e.g. releasing an mmap'd string's backing region, closing a native
// database handle held by a proxy).
func New(free func(value.Object)) *Collector {
	return &Collector{live: make(map[value.Object]struct{}), free: free, id: uuid.NewString()}
}

// ID returns this collector's (and therefore this VM's) instance identifier.
func (c *Collector) ID() string { return c.id }

// NewToken mints a fresh opaque identity-hash token, used for a per-context
// thread key or as the cached-pointer key for a ctype/cvalue heap object
// (§3: "opaque identity token ... sufficient to round-trip through the GC
// and global-ref table").
func (c *Collector) NewToken() string { return uuid.NewString() }

// AddRoot registers a root source. Order doesn't matter; every root is
// walked on every collection.
func (c *Collector) AddRoot(fn RootFunc) {
	c.roots = append(c.roots, fn)
}

// Track registers a freshly allocated heap object so the next collection
// considers it for sweep. internal/ox's allocating Context methods, its VM
// bootstrap and the db/net native modules call this right after
// construction; the plain constructors in internal/object, internal/strs,
// internal/class, internal/function and internal/errtypes do not.
func (c *Collector) Track(o value.Object) {
	c.live[o] = struct{}{}
}

// Live reports the number of tracked heap objects, for diagnostics.
func (c *Collector) Live() int { return len(c.live) }

// Collections reports how many collections have run.
func (c *Collector) Collections() int { return c.collections }

// LastFreed reports how many objects the most recent collection swept.
func (c *Collector) LastFreed() int { return c.lastFreed }

// Collect runs one full mark-sweep cycle (§4.3): unmark everything, mark
// from every registered root (recursively scanning each reached object's
// own references), then sweep every tracked object left unmarked, invoking
// the free callback and dropping it from the live set so the Go runtime can
// reclaim its memory.
func (c *Collector) Collect() int {
	for o := range c.live {
		if m, ok := o.(marker); ok {
			m.SetMarked(false)
		}
	}

	var mark func(value.Value)
	mark = func(v value.Value) {
		if !v.IsHeap() {
			return
		}
		o := v.ObjectVal()
		if o == nil {
			return
		}
		m, ok := o.(marker)
		if !ok {
			return
		}
		if m.Marked() {
			return
		}
		m.SetMarked(true)
		if s, ok := o.(object.Scanner); ok {
			s.Scan(mark)
		}
	}

	for _, r := range c.roots {
		r(mark)
	}

	freed := 0
	for o := range c.live {
		if m, ok := o.(marker); ok && m.Marked() {
			continue
		}
		delete(c.live, o)
		if c.free != nil {
			c.free(o)
		}
		freed++
	}

	c.collections++
	c.lastFreed = freed
	c.lastLive = len(c.live)
	return freed
}
