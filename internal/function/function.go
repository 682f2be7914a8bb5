// Package function implements the function/frame model of §4.7: native and
// script function variants sharing one heap kind, the call-frame chain with
// upvalue-frame pinning for closures, and the single interface
// (Interpreter) through which the out-of-scope bytecode engine is plugged
// in. Grounded on original_source/src/lib/ox_function.c.
package function

import (
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// Context is the minimal surface a running function needs from its VM: the
// evaluation stack it shares with every frame, and a way to raise an error
// that the catch machinery (internal/errtypes) can intercept. internal/ox's
// Context satisfies this; function does not import internal/ox to avoid a
// cycle (ox depends on function for Frame/Function).
type Context interface {
	Stack() *value.Stack
	Throw(err error) error
}

// FrameTracker is an optional Context refinement: a VM that wants the GC's
// frame-chain root (§4.3) to always reflect the call currently executing
// implements it, and Invoke calls PushFrame/PopFrame around every script
// call so the collector can find the live top-of-chain frame between Invoke
// calls (e.g. while a native function's callback into script code is
// itself calling back out to Go). Plain Context implementers (most tests)
// simply don't satisfy this and see no behaviour change.
type FrameTracker interface {
	Context
	PushFrame(fr *Frame)
	PopFrame()
}

// Interpreter is the one contract the core requires of a bytecode engine
// (explicitly out of scope here, §Non-goals): given a pushed Frame, run it
// to completion and return its result. internal/interp provides a minimal
// reference implementation sufficient to exercise calls in tests.
type Interpreter interface {
	Run(ctx Context, fr *Frame) (value.Value, error)
}

// NativeFunc is a function implemented directly in Go.
type NativeFunc func(ctx Context, this value.Value, args []value.Value) (value.Value, error)

// Function is the single heap kind backing both native and script
// functions (§4.7: "native vs script function variants" share one kind so
// that call sites never need to distinguish them).
type Function struct {
	object.Object
	name   string
	arity  int
	native NativeFunc
	interp Interpreter
	code   interface{} // opaque script payload (e.g. *bytecode.Chunk)
	nUpval int
	nSlots int // |descriptor.declarations| (§4.7); arguments occupy the first arity of these
}

// NewNative returns a Function wrapping a Go implementation.
func NewNative(name string, arity int, fn NativeFunc) *Function {
	f := &Function{Object: *object.NewObject(), name: name, arity: arity, native: fn}
	f.Retag(value.KNativeFunction)
	return f
}

// NewScript returns a Function whose body is interpreted by interp, given
// an opaque code payload interp knows how to execute. numSlots is the
// descriptor's declared slot count (§3 Script: "one slot per declaration")
// and must be at least arity; a call pushes exactly numSlots slots,
// arguments first, Nil-filled beyond them.
func NewScript(name string, arity, numUpvalues, numSlots int, interp Interpreter, code interface{}) *Function {
	if numSlots < arity {
		numSlots = arity
	}
	f := &Function{Object: *object.NewObject(), name: name, arity: arity, interp: interp, code: code, nUpval: numUpvalues, nSlots: numSlots}
	f.Retag(value.KFunction)
	return f
}

func (f *Function) Name() string          { return f.name }
func (f *Function) Arity() int            { return f.arity }
func (f *Function) IsNative() bool        { return f.native != nil }
func (f *Function) Code() interface{}     { return f.code }
func (f *Function) NumUpvalues() int      { return f.nUpval }
func (f *Function) NumSlots() int         { return f.nSlots }

// Invoke is the canonical function-call path (§4.7), used by the evaluator
// and by native code calling back into script functions. It dispatches to
// the Go implementation directly for a native function, or pushes a Frame
// and hands it to the bound Interpreter for a script function.
func Invoke(ctx Context, fn value.Value, this value.Value, args []value.Value, caller *Frame) (value.Value, error) {
	f, ok := fn.ObjectVal().(*Function)
	if !ok {
		return value.Nil, errNotAFunction
	}
	if f.native != nil {
		return f.native(ctx, this, args)
	}
	fr := NewFrame(caller, f, this, args)
	if tracker, ok := ctx.(FrameTracker); ok {
		tracker.PushFrame(fr)
		defer tracker.PopFrame()
	}
	return f.interp.Run(ctx, fr)
}

// Function deliberately does not override OwnCall: invoking a function
// always needs a Context (to run script bytecode, to let a native function
// do blocking I/O through Context.Suspend), and object.Protocol's call op
// has no Context parameter. Every real call site — the evaluator, native
// modules calling back into a script callback — goes through Invoke
// directly instead of object.Call. A bare object.Call on a function value
// therefore falls back to Object.OwnCall's no-$call-property behaviour and
// returns the function unchanged, which is harmless because nothing in
// this codebase calls object.Call on a function value.

// Scan marks every value the function's closure state reaches — currently
// just what the embedded Object holds ($name, etc); upvalues are owned by
// the Frame that created the closure, scanned via Frame.Scan.
func (f *Function) Scan(mark func(value.Value)) {
	f.Object.Scan(mark)
}
