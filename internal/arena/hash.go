package arena

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/maps"
)

// IdentitySet is the "identity hash keyed by raw pointer or small integer"
// schema from §4.1: singleton-string maps, enum maps, global-refs, and
// cached ctype pointers all use comparable Go values (pointers, uintptr
// tokens) as keys directly, so a plain generic map already gives identity
// semantics — this type exists to name that schema and to centralize the
// snapshot-for-iteration helper used by the collector and by enumeration
// APIs that must not observe concurrent mutation of the backing map.
type IdentitySet[K comparable, V any] struct {
	m map[K]V
}

// NewIdentitySet returns an empty IdentitySet.
func NewIdentitySet[K comparable, V any]() *IdentitySet[K, V] {
	return &IdentitySet[K, V]{m: make(map[K]V)}
}

func (s *IdentitySet[K, V]) Get(k K) (V, bool) {
	v, ok := s.m[k]
	return v, ok
}

func (s *IdentitySet[K, V]) Set(k K, v V) {
	s.m[k] = v
}

func (s *IdentitySet[K, V]) Delete(k K) {
	delete(s.m, k)
}

func (s *IdentitySet[K, V]) Len() int {
	return len(s.m)
}

// Keys returns a stable snapshot of the current keys.
func (s *IdentitySet[K, V]) Keys() []K {
	return maps.Keys(s.m)
}

// ContentKey is the 16-byte digest used to key the content-hash schema
// (§4.1: "content hash over UTF-8 bytes used during singleton-string
// interning and cross-script path lookup"). blake2b-128 is cheap, has no
// cryptographic requirement here, and is already present in the
// dependency graph that pulls in the SQL drivers' TLS stack, so it is
// reused rather than adding a second hashing library.
type ContentKey [16]byte

// HashBytes computes the ContentKey for b.
func HashBytes(b []byte) ContentKey {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// blake2b.New only errors on an invalid key or out-of-range size,
		// neither of which is possible with the fixed arguments above.
		panic(err)
	}
	h.Write(b)
	var k ContentKey
	copy(k[:], h.Sum(nil))
	return k
}

// ContentHash maps byte-content digests to values; used by the
// singleton-string intern table and the script canonical-path cache.
type ContentHash[V any] struct {
	m map[ContentKey]V
}

// NewContentHash returns an empty ContentHash.
func NewContentHash[V any]() *ContentHash[V] {
	return &ContentHash[V]{m: make(map[ContentKey]V)}
}

func (h *ContentHash[V]) Get(b []byte) (V, bool) {
	v, ok := h.m[HashBytes(b)]
	return v, ok
}

func (h *ContentHash[V]) Set(b []byte, v V) {
	h.m[HashBytes(b)] = v
}

func (h *ContentHash[V]) Delete(b []byte) {
	delete(h.m, HashBytes(b))
}

func (h *ContentHash[V]) Len() int {
	return len(h.m)
}

// Range calls fn for every entry; fn returning false stops iteration early.
// If fn deletes the current key via Delete that is safe — Go permits
// deleting the current key during a map range.
func (h *ContentHash[V]) Range(fn func(k ContentKey, v V) bool) {
	for k, v := range h.m {
		if !fn(k, v) {
			return
		}
	}
}

// DeleteKey removes an entry by its already-computed digest, used by
// callers (internal/strs' sweep) that found the key via a prior Range and
// want to avoid recomputing the hash from content.
func (h *ContentHash[V]) DeleteKey(k ContentKey) {
	delete(h.m, k)
}
