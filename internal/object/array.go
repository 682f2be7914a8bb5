package object

import (
	"strconv"

	"github.com/gongke-cn/ox/internal/value"
)

// Array is the dense-vector specialisation of §4.4: numeric keys route to
// the backing slice (and grow it, zero-filling any gap with Nil, on a
// set-past-the-end), while any non-numeric key falls back to the embedded
// Object's ordinary property table. Grounded on ox_array.c's combination of
// a plain C array with an inherited property table for named members
// (`.length`, user-defined fields on an array instance, etc).
type Array struct {
	Object
	elems []value.Value
}

// NewArray returns an empty array.
func NewArray() *Array {
	a := &Array{Object: *NewObject()}
	a.kind = value.KArray
	return a
}

// NewArrayFrom returns an array pre-populated with elems (copied).
func NewArrayFrom(elems []value.Value) *Array {
	a := NewArray()
	a.elems = append(a.elems, elems...)
	return a
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Elems exposes the live backing slice; callers must not retain it across
// further mutation.
func (a *Array) Elems() []value.Value { return a.elems }

// Push appends v.
func (a *Array) Push(v value.Value) { a.elems = append(a.elems, v) }

// Pop removes and returns the last element; ok is false on an empty array.
func (a *Array) Pop() (value.Value, bool) {
	n := len(a.elems)
	if n == 0 {
		return value.Nil, false
	}
	v := a.elems[n-1]
	a.elems = a.elems[:n-1]
	return v, true
}

func indexKey(key value.Value) (int, bool) {
	return key.IsIndex()
}

// OwnLookup routes numeric keys to the element slice; non-numeric keys fall
// back to the object's property table.
func (a *Array) OwnLookup(key value.Value) (value.Value, bool) {
	if i, ok := indexKey(key); ok {
		if i < 0 || i >= len(a.elems) {
			return value.Nil, false
		}
		return a.elems[i], true
	}
	return a.Object.OwnLookup(key)
}

// OwnGet routes numeric keys to the element slice (out of range yields a
// miss, not an error, matching §4.4's "index beyond length" read rule);
// non-numeric keys fall back to the property table (the class interface's
// methods arrive through $inf, not here).
func (a *Array) OwnGet(key value.Value) (value.Value, bool, error) {
	if i, ok := indexKey(key); ok {
		if i < 0 || i >= len(a.elems) {
			return value.Nil, false, nil
		}
		return a.elems[i], true, nil
	}
	return a.Object.OwnGet(key)
}

// OwnSet routes numeric keys to the element slice, growing it (zero-filled
// with Nil) to accommodate a set past the current length — §4.4's array
// auto-grow rule. Non-numeric keys fall back to the property table.
func (a *Array) OwnSet(key, v value.Value) error {
	if i, ok := indexKey(key); ok {
		if i < 0 {
			return errNoSuchIndex(i)
		}
		if i >= len(a.elems) {
			grown := make([]value.Value, i+1)
			copy(grown, a.elems)
			for j := len(a.elems); j < i; j++ {
				grown[j] = value.Nil
			}
			a.elems = grown
		}
		a.elems[i] = v
		return nil
	}
	return a.Object.OwnSet(key, v)
}

// OwnDel routes numeric keys to a shift-left removal (§4.4: deleting an
// array index removes it and closes the gap, rather than leaving a hole);
// non-numeric keys fall back to the property table.
func (a *Array) OwnDel(key value.Value) {
	if i, ok := indexKey(key); ok {
		if i < 0 || i >= len(a.elems) {
			return
		}
		a.elems = append(a.elems[:i], a.elems[i+1:]...)
		return
	}
	a.Object.OwnDel(key)
}

// EnumerableNames returns numeric indices first ("0".."len-1"), then the
// array's own non-hidden named properties, matching the order a `for key in
// array` loop observes.
func (a *Array) EnumerableNames() []string {
	names := make([]string, 0, len(a.elems))
	for i := range a.elems {
		names = append(names, strconv.Itoa(i))
	}
	names = append(names, a.Object.EnumerableNames()...)
	return names
}

// Scan marks every element plus everything the embedded Object reaches.
func (a *Array) Scan(mark func(value.Value)) {
	for _, v := range a.elems {
		mark(v)
	}
	a.Object.Scan(mark)
}
