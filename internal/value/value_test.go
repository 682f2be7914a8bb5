package value

import (
	"math"
	"testing"
)

type fakeObject struct{ kind HeapKind }

func (f *fakeObject) HeapKind() HeapKind { return f.kind }

func TestScalarRoundTrip(t *testing.T) {
	if !FromBool(true).Bool() {
		t.Fatal("FromBool(true).Bool() should be true")
	}
	if FromNumber(3.5).NumberVal() != 3.5 {
		t.Fatal("FromNumber round-trip failed")
	}
	if !Nil.IsNull() {
		t.Fatal("Nil should be null")
	}
}

func TestFromObjectNilIsNull(t *testing.T) {
	v := FromObject(nil)
	if !v.IsNull() {
		t.Fatal("FromObject(nil) must collapse to Nil, not a heap value with a nil payload")
	}
}

func TestIsIdentityOnlyForHeap(t *testing.T) {
	a := &fakeObject{kind: KObject}
	v1 := FromObject(a)
	v2 := FromObject(a)
	v3 := FromObject(&fakeObject{kind: KObject})

	if !v1.Is(v2) {
		t.Fatal("two Values wrapping the same object must be Is()-equal")
	}
	if v1.Is(v3) {
		t.Fatal("two Values wrapping distinct objects must not be Is()-equal")
	}
	if FromNumber(1).Is(FromNumber(1)) {
		t.Fatal("Is() must report false for non-heap Values")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Nil, false},
		{"false", FromBool(false), false},
		{"true", FromBool(true), true},
		{"zero", FromNumber(0), false},
		{"nan", FromNumber(math.NaN()), false},
		{"nonzero", FromNumber(-1), true},
		{"heap", FromObject(&fakeObject{kind: KArray}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestIsIndex(t *testing.T) {
	cases := []struct {
		name    string
		v       Value
		wantIdx int
		wantOk  bool
	}{
		{"positive int", FromNumber(3), 3, true},
		{"zero", FromNumber(0), 0, true},
		{"negative", FromNumber(-1), 0, false},
		{"fractional", FromNumber(1.5), 0, false},
		{"nan", FromNumber(math.NaN()), 0, false},
		{"inf", FromNumber(math.Inf(1)), 0, false},
		{"non-number", FromBool(true), 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			idx, ok := c.v.IsIndex()
			if ok != c.wantOk || (ok && idx != c.wantIdx) {
				t.Errorf("IsIndex() = (%d, %v), want (%d, %v)", idx, ok, c.wantIdx, c.wantOk)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	if ToNumber(FromBool(true)) != 1 {
		t.Fatal("ToNumber(true) should be 1")
	}
	if ToNumber(FromBool(false)) != 0 {
		t.Fatal("ToNumber(false) should be 0")
	}
	if ToNumber(Nil) != 0 {
		t.Fatal("ToNumber(null) should be 0")
	}
	if !math.IsNaN(ToNumber(FromObject(&fakeObject{kind: KObject}))) {
		t.Fatal("ToNumber(heap) should be NaN")
	}
}

func TestHeapKindString(t *testing.T) {
	v := FromObject(&fakeObject{kind: KProxy})
	if v.HeapKind().String() != "proxy" {
		t.Fatalf("HeapKind().String() = %q, want %q", v.HeapKind().String(), "proxy")
	}
	if Nil.HeapKind() != KObject {
		t.Fatalf("HeapKind() of a non-heap Value should be the zero HeapKind")
	}
}

func TestStackPushReleaseDiscipline(t *testing.T) {
	s := NewStack()
	s.Push(FromNumber(1))
	mark := s.Push(FromNumber(2))
	s.Push(FromNumber(3))
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	s.Release(mark)
	if s.Len() != 1 {
		t.Fatalf("Len() after Release(mark) = %d, want 1", s.Len())
	}
	if s.Peek(0).NumberVal() != 1 {
		t.Fatalf("top of stack after release = %v, want 1", s.Peek(0))
	}
}

func TestStackReleaseUnderflowPanics(t *testing.T) {
	s := NewStack()
	s.Push(FromNumber(1))
	defer func() {
		if recover() == nil {
			t.Fatal("Release with a mark beyond the current length should panic")
		}
	}()
	s.Release(Mark(5))
}

func TestStackPopEmptyPanics(t *testing.T) {
	s := NewStack()
	defer func() {
		if recover() == nil {
			t.Fatal("Pop on an empty stack should panic")
		}
	}()
	s.Pop()
}
