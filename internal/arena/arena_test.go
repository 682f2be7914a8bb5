package arena

import "testing"

func TestArenaRealloc(t *testing.T) {
	a := New()
	a.Realloc(0, 100)
	a.Realloc(0, 50)
	if got := a.Allocated(); got != 150 {
		t.Fatalf("Allocated() = %d, want 150", got)
	}
	if got := a.Peak(); got != 150 {
		t.Fatalf("Peak() = %d, want 150", got)
	}
	a.Realloc(100, 0)
	if got := a.Allocated(); got != 50 {
		t.Fatalf("Allocated() after free = %d, want 50", got)
	}
	if got := a.Peak(); got != 150 {
		t.Fatalf("Peak() should not drop after a free, got %d", got)
	}
}

func TestArenaLeaked(t *testing.T) {
	a := New()
	if _, leaked := a.Leaked(); leaked {
		t.Fatal("fresh arena should report no leak")
	}
	a.Realloc(0, 64)
	n, leaked := a.Leaked()
	if !leaked || n != 64 {
		t.Fatalf("Leaked() = (%d, %v), want (64, true)", n, leaked)
	}
}

func TestContentHashRoundTrip(t *testing.T) {
	h := NewContentHash[int]()
	h.Set([]byte("hello"), 1)
	h.Set([]byte("world"), 2)

	if v, ok := h.Get([]byte("hello")); !ok || v != 1 {
		t.Fatalf("Get(hello) = (%d, %v), want (1, true)", v, ok)
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	h.Delete([]byte("hello"))
	if _, ok := h.Get([]byte("hello")); ok {
		t.Fatal("hello should be gone after Delete")
	}
	if h.Len() != 1 {
		t.Fatalf("Len() after delete = %d, want 1", h.Len())
	}
}

func TestHashBytesDeterministic(t *testing.T) {
	a := HashBytes([]byte("same content"))
	b := HashBytes([]byte("same content"))
	if a != b {
		t.Fatal("HashBytes must be deterministic for identical content")
	}
	c := HashBytes([]byte("different content"))
	if a == c {
		t.Fatal("HashBytes collided on distinct inputs (statistically impossible)")
	}
}

func TestIdentitySet(t *testing.T) {
	s := NewIdentitySet[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() returned %d keys, want 2", len(keys))
	}
	s.Delete("a")
	if _, ok := s.Get("a"); ok {
		t.Fatal("a should be gone after Delete")
	}
}

func TestListOrderPreserved(t *testing.T) {
	l := NewList[string]()
	l.PushBack("a")
	l.PushBack("b")
	l.PushBack("c")

	l.Remove(func(s string) bool { return s == "b" })
	items := l.Items()
	if len(items) != 2 || items[0] != "a" || items[1] != "c" {
		t.Fatalf("Items() = %v, want [a c]", items)
	}

	// Re-adding moves an element to the end (§8: delete-then-readd ordering).
	l.PushBack("b")
	items = l.Items()
	if len(items) != 3 || items[2] != "b" {
		t.Fatalf("Items() after re-add = %v, want last element b", items)
	}
}
