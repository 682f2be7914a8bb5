package arena

// List is the intrusive doubly-linked list used wherever insertion order
// matters: property tables, enum members, GC root chains. Unlike a
// container/list.List it stores values directly (no boxing), mirroring the
// C implementation's embedded-link-node convention.
type List[T any] struct {
	items []T
}

// NewList returns an empty List.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// PushBack appends v, preserving insertion order.
func (l *List[T]) PushBack(v T) {
	l.items = append(l.items, v)
}

// Remove deletes the first element for which match returns true, preserving
// the order of the remaining elements (§8: "deleting and re-adding a key
// places it at the end" depends on callers re-inserting via PushBack).
func (l *List[T]) Remove(match func(T) bool) bool {
	for i, v := range l.items {
		if match(v) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the live backing slice in insertion order. Callers must not
// retain it across further mutation of the list.
func (l *List[T]) Items() []T {
	return l.items
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}
