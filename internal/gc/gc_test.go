package gc_test

import (
	"testing"

	"github.com/gongke-cn/ox/internal/gc"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

func TestCollectSweepsUnreachable(t *testing.T) {
	var freed []value.Object
	c := gc.New(func(o value.Object) { freed = append(freed, o) })

	root := object.NewObject()
	garbage := object.NewObject()
	c.Track(root)
	c.Track(garbage)

	c.AddRoot(func(mark func(value.Value)) {
		mark(value.FromObject(root))
	})

	n := c.Collect()
	if n != 1 {
		t.Fatalf("Collect() freed %d objects, want 1", n)
	}
	if len(freed) != 1 || freed[0] != garbage {
		t.Fatalf("free callback invoked on %v, want [garbage]", freed)
	}
	if c.Live() != 1 {
		t.Fatalf("Live() = %d, want 1 (root survives)", c.Live())
	}
}

func TestCollectMarksTransitively(t *testing.T) {
	c := gc.New(nil)
	parent := object.NewObject()
	child := object.NewObject()
	parent.SetInterface(value.FromObject(child))
	c.Track(parent)
	c.Track(child)

	c.AddRoot(func(mark func(value.Value)) {
		mark(value.FromObject(parent))
	})

	if n := c.Collect(); n != 0 {
		t.Fatalf("Collect() freed %d objects, want 0 (child reachable via $inf)", n)
	}
	if c.Live() != 2 {
		t.Fatalf("Live() = %d, want 2", c.Live())
	}
}

func TestCollectIsIdempotentAcrossRuns(t *testing.T) {
	freedCount := 0
	c := gc.New(func(value.Object) { freedCount++ })
	o := object.NewObject()
	c.Track(o)
	c.AddRoot(func(mark func(value.Value)) { mark(value.FromObject(o)) })

	c.Collect()
	c.Collect()
	if freedCount != 0 {
		t.Fatalf("a rooted object must survive every collection, freed %d times", freedCount)
	}
	if c.Collections() != 2 {
		t.Fatalf("Collections() = %d, want 2", c.Collections())
	}
}

func TestNewTokenIsUnique(t *testing.T) {
	c := gc.New(nil)
	a, b := c.NewToken(), c.NewToken()
	if a == b {
		t.Fatal("NewToken() must mint distinct tokens on each call")
	}
	if c.ID() == "" {
		t.Fatal("ID() must be non-empty")
	}
}
