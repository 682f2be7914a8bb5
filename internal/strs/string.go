// Package strs implements the string subsystem of §4.5: owned/borrowed/mmap
// storage modes, singleton-string interning, UTF-8 character iteration kept
// distinct from byte indexing, and the immutability rule (every mutating op
// returns a new String rather than editing in place). Grounded on
// original_source/src/lib/ox_string.c.
package strs

import (
	"unicode/utf8"

	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// Mode names the storage backing of a String's bytes (§4.5).
type Mode uint8

const (
	// Owned means the String holds the only reference to its backing
	// array and may assume no one else will mutate it concurrently.
	Owned Mode = iota
	// Borrowed means the backing array is aliased from caller-supplied
	// memory (e.g. a source-file buffer) without copying; the String must
	// not outlive that memory unless the caller guarantees it will.
	Borrowed
	// Mmap means the backing array is a memory-mapped region; unmap is
	// called when the String is collected.
	Mmap
)

// String is the heap string kind. Index access (OwnGet/OwnLookup with an
// integer key) is byte-based and yields a one-byte String (ByteAt); code
// point access goes through Len, CharAt, Slice and Runes (§4.5's "character
// iteration kept distinct from byte indexing").
type String struct {
	object.Object
	data      []byte
	mode      Mode
	singleton bool
	unmap     func() error
}

// New returns an owned String copying data.
func New(data string) *String {
	return newString([]byte(data), Owned, nil)
}

// Borrow returns a String aliasing data without copying. The caller is
// responsible for data's lifetime outliving the String.
func Borrow(data []byte) *String {
	return newString(data, Borrowed, nil)
}

// Mapped returns a String backed by a memory-mapped region; unmap is
// invoked exactly once when the string is collected (internal/gc calls
// Release during sweep).
func Mapped(data []byte, unmap func() error) *String {
	return newString(data, Mmap, unmap)
}

func newString(data []byte, mode Mode, unmap func() error) *String {
	s := &String{Object: *object.NewObject(), data: data, mode: mode, unmap: unmap}
	s.Retag(value.KString)
	return s
}

// Release frees any external resource the string's storage mode owns; the
// collector calls it from a heap kind's Free op (§4.3).
func (s *String) Release() {
	if s.mode == Mmap && s.unmap != nil {
		s.unmap()
		s.unmap = nil
	}
}

// IsSingleton reports whether s lives in the singleton-string intern table.
func (s *String) IsSingleton() bool { return s.singleton }

// Bytes returns the raw UTF-8 byte content. Callers must not mutate it.
func (s *String) Bytes() []byte { return s.data }

// String implements fmt.Stringer for debug output.
func (s *String) String() string { return string(s.data) }

// ByteLen returns the byte length, distinct from the code-point count
// returned by Len.
func (s *String) ByteLen() int { return len(s.data) }

// Len returns the number of Unicode code points — the unit CharAt and Slice
// index by (integer-key property access is byte-based instead).
func (s *String) Len() int {
	return utf8.RuneCountInString(string(s.data))
}

// KeyBytes implements the object package's structural `keyer` interface,
// letting a singleton String serve directly as a property-table key.
func (s *String) KeyBytes() []byte { return s.data }

// runeAt returns the rune starting at code-point index i along with its
// byte offset and width; ok is false if i is out of range. UTF-8 decoding
// is inherently O(n); callers iterating sequentially should use Runes
// instead of repeated runeAt calls.
func (s *String) runeAt(i int) (rune, int, int, bool) {
	if i < 0 {
		return 0, 0, 0, false
	}
	b := s.data
	pos := 0
	idx := 0
	for pos < len(b) {
		r, size := utf8.DecodeRune(b[pos:])
		if idx == i {
			return r, pos, size, true
		}
		pos += size
		idx++
	}
	return 0, 0, 0, false
}

// CharAt returns the i-th code point as a one-character string, or ("",
// false) if out of range. Code-point based, kept distinct from the
// byte-indexed ByteAt per §3/§4.4.
func (s *String) CharAt(i int) (string, bool) {
	r, _, _, ok := s.runeAt(i)
	if !ok {
		return "", false
	}
	return string(r), true
}

// ByteAt returns the single byte at byte offset i as a new one-byte String
// — §4.4's "strings override get over numeric keys to return a 1-byte
// substring". The result is not necessarily valid UTF-8 on its own when i
// falls inside a multi-byte code point; §3 indexes characters by byte and
// leaves decoding to the separate Unicode-character iterator (Runes).
func (s *String) ByteAt(i int) (*String, bool) {
	if i < 0 || i >= len(s.data) {
		return nil, false
	}
	return New(string(s.data[i : i+1])), true
}

// Runes returns the decoded code points in order — the backing iterator for
// `for ch in str` loops.
func (s *String) Runes() []rune {
	return []rune(string(s.data))
}

// Slice returns the substring spanning code points [from, to) as a new
// owned String; strings are immutable, so every slice/concat/replace
// operation allocates rather than aliasing into a mutable parent (§4.5).
// Negative indices count from the end (§8 boundary behaviour) before
// clamping; end < start yields the empty string.
func (s *String) Slice(from, to int) *String {
	runes := s.Runes()
	if from < 0 {
		from += len(runes)
	}
	if to < 0 {
		to += len(runes)
	}
	if from < 0 {
		from = 0
	}
	if to > len(runes) {
		to = len(runes)
	}
	if from >= to {
		return New("")
	}
	return New(string(runes[from:to]))
}

// Concat returns a new owned String holding s followed by other.
func (s *String) Concat(other *String) *String {
	buf := make([]byte, 0, len(s.data)+len(other.data))
	buf = append(buf, s.data...)
	buf = append(buf, other.data...)
	return newString(buf, Owned, nil)
}

// OwnLookup routes an integer key to a byte read (§4.4: numeric-key access
// is byte-indexed); raw lookup never allocates through a getter, so it
// returns the byte directly rather than deferring to OwnGet.
func (s *String) OwnLookup(key value.Value) (value.Value, bool) {
	if i, ok := key.IsIndex(); ok {
		b, ok := s.ByteAt(i)
		if !ok {
			return value.Nil, false
		}
		return value.FromObject(b), true
	}
	return s.Object.OwnLookup(key)
}

// OwnGet mirrors OwnLookup for the integer case; named properties (methods
// like .length are normally reached through $inf, not stored per-instance)
// fall back to the embedded Object.
func (s *String) OwnGet(key value.Value) (value.Value, bool, error) {
	if i, ok := key.IsIndex(); ok {
		b, ok := s.ByteAt(i)
		if !ok {
			return value.Nil, false, nil
		}
		return value.FromObject(b), true, nil
	}
	return s.Object.OwnGet(key)
}

// OwnSet rejects index writes (strings are immutable); named own properties
// (rare, but not forbidden — a script may stash data on a string instance)
// still go through the embedded Object.
func (s *String) OwnSet(key, v value.Value) error {
	if _, ok := key.IsIndex(); ok {
		return errImmutable
	}
	return s.Object.OwnSet(key, v)
}
