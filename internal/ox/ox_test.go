package ox_test

import (
	"testing"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/oxconfig"
	"github.com/gongke-cn/ox/internal/value"
)

func newTestVM(t *testing.T) *ox.VM {
	t.Helper()
	vm := ox.New(&oxconfig.Config{})
	t.Cleanup(func() { vm.Close() })
	return vm
}

func TestNewBootstrapsPrimitiveAndErrorClasses(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	defer c.Unlock()

	pkgs := value.FromObject(vm.Packages())
	for _, name := range []string{"Bool", "Number", "String", "Function", "TypeError", "RangeError"} {
		if _, ok := c.Lookup(pkgs, c.Key(name)); !ok {
			t.Errorf("package namespace missing bootstrap export %q", name)
		}
	}
}

func TestLockIsRecursivePerContext(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	c.Lock() // same context re-entering must not deadlock
	c.Unlock()
	c.Unlock()
}

func TestUnlockByNonHolderPanics(t *testing.T) {
	vm := newTestVM(t)
	c1 := vm.NewContext()
	c2 := vm.NewContext()
	c1.Lock()
	defer c1.Unlock()

	defer func() {
		if recover() == nil {
			t.Fatal("Unlock by a context that never locked should panic")
		}
	}()
	c2.Unlock()
}

func TestSuspendReleasesAndReacquiresAtSameDepth(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	c.Lock() // depth 2
	ran := false
	err := c.Suspend(func() error {
		ran = true
		// While suspended another context can take the lock.
		other := vm.NewContext()
		other.Lock()
		other.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Suspend() = %v", err)
	}
	if !ran {
		t.Fatal("Suspend did not run fn")
	}
	c.Unlock()
	c.Unlock()
}

func TestPinKeepsValueAliveAcrossCollect(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	defer c.Unlock()

	obj := c.NewObject()
	ref := c.Pin(obj)
	vm.Collect()

	got, ok := c.Deref(ref)
	if !ok {
		t.Fatal("Deref after Collect: pinned value was reclaimed")
	}
	if got != obj {
		t.Fatal("Deref returned a different value than was pinned")
	}

	c.Unpin(ref)
	vm.Collect()
	if _, ok := c.Deref(ref); ok {
		t.Fatal("Deref after Unpin+Collect should not find the reference")
	}
}

func TestUnreferencedObjectIsCollected(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	defer c.Unlock()

	before := vm.GC.Live()
	c.NewObject() // not pinned, not on the stack, not stored anywhere
	vm.Collect()
	after := vm.GC.Live()
	if after > before {
		t.Fatalf("Live() after Collect = %d, want <= %d (unreferenced object)", after, before)
	}
}

func TestThrowAndCatchClearsPendingError(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	defer c.Unlock()

	err := c.Throw(errtypes.NewTypeError("bad value", nil))
	if err == nil {
		t.Fatal("Throw returned nil")
	}
	if _, ok := c.Pending(); !ok {
		t.Fatal("Pending() should report the thrown error")
	}

	if _, ok := c.Catch(errtypes.Catcher{Kinds: []errtypes.Kind{errtypes.KindRangeError}}); ok {
		t.Fatal("Catch matched the wrong kind")
	}
	caught, ok := c.Catch(errtypes.Catcher{})
	if !ok {
		t.Fatal("an empty Catcher should match any kind")
	}
	if caught == nil {
		t.Fatal("Catch returned a nil error on match")
	}
	if _, stillPending := c.Pending(); stillPending {
		t.Fatal("Catch should clear the pending error once matched")
	}
}

func TestNativeMethodIsCallable(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewContext()
	c.Lock()
	defer c.Unlock()

	fn := c.NativeMethod("double", 1, func(ctx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		return value.FromNumber(value.ToNumber(args[0]) * 2), nil
	})
	result, err := c.CallValue(fn, value.Nil, []value.Value{value.FromNumber(21)})
	if err != nil {
		t.Fatalf("CallValue() = %v", err)
	}
	if result.NumberVal() != 42 {
		t.Fatalf("result = %v, want 42", result.NumberVal())
	}
}
