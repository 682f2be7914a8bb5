package strs

import (
	"github.com/gongke-cn/ox/internal/arena"
	"github.com/gongke-cn/ox/internal/value"
)

// Interner is the singleton-string table of §4.5: content-equal strings
// collapse to one heap allocation, which is what lets property keys compare
// by pointer identity (object.Value.Is) instead of a byte-for-byte scan on
// every property access. One Interner lives per VM (§4.1: "identity hash
// keyed by... used during singleton-string interning").
type Interner struct {
	table *arena.ContentHash[*String]
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{table: arena.NewContentHash[*String]()}
}

// Intern returns the canonical singleton String for data, allocating and
// tagging a new one the first time content with this exact byte sequence is
// seen.
func (in *Interner) Intern(data []byte) *String {
	if s, ok := in.table.Get(data); ok {
		return s
	}
	cp := append([]byte(nil), data...)
	s := newString(cp, Owned, nil)
	s.singleton = true
	s.Retag(value.KSingletonString)
	in.table.Set(cp, s)
	return s
}

// InternString is a convenience wrapper over Intern for a Go string.
func (in *Interner) InternString(text string) *String {
	return in.Intern([]byte(text))
}

// Len returns the number of distinct singleton strings currently interned —
// exposed for GC pressure diagnostics and tests.
func (in *Interner) Len() int {
	return in.table.Len()
}

// Each marks every currently-interned string. The singleton-string table is
// one of the GC's permanent roots (§4.3): once a string is interned it is
// never collected, trading a small amount of leaked memory for the ability
// to compare property-name strings by pointer identity. internal/ox
// registers this as a gc.RootFunc at VM construction.
//
// This is a deliberate departure from §4.3's "singleton strings remove
// themselves from the intern table during free": pinning every singleton
// forever means Release/table-removal on free never triggers for this
// kind, in exchange for never having to re-validate an identity comparison
// against a freed pointer. The §8 identity invariant ("intern table's
// lookup of b yields X") still holds; only the sweep-reclaims-singletons
// half of §4.3 does not.
func (in *Interner) Each(mark func(*String)) {
	in.table.Range(func(_ arena.ContentKey, s *String) bool {
		mark(s)
		return true
	})
}
