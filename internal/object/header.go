// Package object implements the keyed property system of §4.4: the op
// table (keys/lookup/get/set/del/call), the generic Object kind, the Array
// specialisation, and the proxy translation layer. It is grounded on
// original_source/src/lib/ox_object.c, ox_array.c and ox_proxy.c.
package object

import "github.com/gongke-cn/ox/internal/value"

// Header is embedded by every heap object kind. It carries the kind tag
// consumed by value.Object and the GC mark bit the collector flips during
// a trace (§4.3). Kinds differing only in their Ops still get a distinct
// Header.kind so the GC and debug dumps can name them precisely.
type Header struct {
	kind   value.HeapKind
	marked bool
}

// NewHeader returns a Header tagged with kind.
func NewHeader(kind value.HeapKind) Header {
	return Header{kind: kind}
}

// HeapKind implements value.Object.
func (h *Header) HeapKind() value.HeapKind { return h.kind }

// Marked reports the current GC mark bit.
func (h *Header) Marked() bool { return h.marked }

// SetMarked flips the GC mark bit; used only by internal/gc.
func (h *Header) SetMarked(v bool) { h.marked = v }

// Retag overrides the kind tag after construction — used by internal/strs
// to promote a freshly built String to KSingletonString once it has been
// accepted into the intern table, without a second allocation.
func (h *Header) Retag(kind value.HeapKind) { h.kind = kind }
