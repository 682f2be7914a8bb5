package function_test

import (
	"testing"

	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/value"
)

type fakeContext struct {
	stack  *value.Stack
	frames []*function.Frame
}

func newFakeContext() *fakeContext {
	return &fakeContext{stack: value.NewStack()}
}

func (c *fakeContext) Stack() *value.Stack  { return c.stack }
func (c *fakeContext) Throw(err error) error { return err }
func (c *fakeContext) PushFrame(fr *function.Frame) {
	c.frames = append(c.frames, fr)
}
func (c *fakeContext) PopFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

type recordingInterp struct {
	ran *function.Frame
}

func (r *recordingInterp) Run(ctx function.Context, fr *function.Frame) (value.Value, error) {
	r.ran = fr
	return value.FromNumber(float64(len(fr.Slots))), nil
}

func TestInvokeNativeFunction(t *testing.T) {
	fn := function.NewNative("double", 1, func(ctx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		return value.FromNumber(args[0].NumberVal() * 2), nil
	})
	ctx := newFakeContext()
	result, err := function.Invoke(ctx, value.FromObject(fn), value.Nil, []value.Value{value.FromNumber(21)}, nil)
	if err != nil {
		t.Fatalf("Invoke() = %v, want nil", err)
	}
	if result.NumberVal() != 42 {
		t.Fatalf("Invoke() = %v, want 42", result.NumberVal())
	}
}

func TestInvokeScriptFunctionPushesFrameWithOneSlotPerArg(t *testing.T) {
	interp := &recordingInterp{}
	fn := function.NewScript("f", 2, 0, 2, interp, nil)
	ctx := newFakeContext()

	result, err := function.Invoke(ctx, value.FromObject(fn), value.Nil, []value.Value{value.FromNumber(1), value.FromNumber(2)}, nil)
	if err != nil {
		t.Fatalf("Invoke() = %v, want nil", err)
	}
	if result.NumberVal() != 2 {
		t.Fatalf("Invoke() = %v, want 2 (slot count)", result.NumberVal())
	}
	if interp.ran == nil {
		t.Fatal("Interpreter.Run should have been called")
	}
	if len(ctx.frames) != 0 {
		t.Fatalf("FrameTracker should have popped the frame by the time Invoke returns, got %d still pushed", len(ctx.frames))
	}
}

func TestNewFrameSizesSlotsToDeclaredCountNotArgCount(t *testing.T) {
	// arity 1, but 3 declared slots (one param plus two locals) — the frame
	// must have 3 slots, args first, the rest Nil-filled (§4.7).
	fn := function.NewScript("h", 1, 0, 3, &recordingInterp{}, nil)
	fr := function.NewFrame(nil, fn, value.Nil, []value.Value{value.FromNumber(5)})

	if len(fr.Slots) != 3 {
		t.Fatalf("len(Slots) = %d, want 3 declared slots", len(fr.Slots))
	}
	if fr.Slots[0].NumberVal() != 5 {
		t.Fatalf("Slots[0] = %v, want the passed argument", fr.Slots[0])
	}
	if !fr.Slots[1].IsNull() || !fr.Slots[2].IsNull() {
		t.Fatalf("Slots[1:] = %v, want Nil-filled locals", fr.Slots[1:])
	}
}

func TestInvokeNonFunctionErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := function.Invoke(ctx, value.FromNumber(1), value.Nil, nil, nil); err == nil {
		t.Fatal("Invoke() on a non-function value should error")
	}
}

func TestFramesFlattensCallerChainMostRecentFirst(t *testing.T) {
	root := &function.Frame{}
	mid := &function.Frame{Caller: root}
	leaf := &function.Frame{Caller: mid}

	got := function.Frames(leaf)
	if len(got) != 3 || got[0] != leaf || got[1] != mid || got[2] != root {
		t.Fatalf("Frames() order wrong, got %v", got)
	}
}

func TestFrameScanMarksSlotsAndUpvalues(t *testing.T) {
	fn := function.NewScript("g", 0, 1, 0, &recordingInterp{}, nil)
	fr := function.NewFrame(nil, fn, value.FromNumber(9), []value.Value{value.FromNumber(1)})
	fr.Upvalues[0].Val = value.FromNumber(7)

	var marked []value.Value
	fr.Scan(func(v value.Value) { marked = append(marked, v) })

	if len(marked) != 4 {
		t.Fatalf("Scan() marked %d values, want 4 (fn, this, 1 slot, 1 upvalue)", len(marked))
	}
}

func TestInvokeOnNilValueErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := function.Invoke(ctx, value.Nil, value.Nil, nil, nil); err == nil {
		t.Fatal("Invoke(Nil) should error")
	}
}
