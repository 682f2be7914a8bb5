package function

import "github.com/gongke-cn/ox/internal/value"

// Upvalue is a single pinned slot shared between a closure and the frame
// that created it — mutating it through one reference is visible through
// the other, which is what makes a closure's captured locals behave like
// the enclosing function's own variables instead of a snapshot.
type Upvalue struct {
	Val value.Value
}

// Frame is one activation record of §4.7: Caller links the chain the
// collector walks as a root and errtypes walks to render a throw's stack
// dump; Slots holds the local variables (arguments first); Upvalues holds
// the pinned captures a nested closure reads/writes through.
type Frame struct {
	Caller   *Frame
	Fn       *Function
	This     value.Value
	Slots    []value.Value
	Upvalues []*Upvalue
	IP       int
}

// NewFrame allocates a Frame for a call to f, seeding Slots with args
// (padded with Nil up to f.NumSlots(), §4.7's "N = |descriptor.declarations|
// slots") and Upvalues with nUpval empty pins that the Interpreter is
// responsible for populating from f's captured environment.
func NewFrame(caller *Frame, f *Function, this value.Value, args []value.Value) *Frame {
	n := f.nSlots
	if n < len(args) {
		n = len(args)
	}
	slots := make([]value.Value, n)
	copy(slots, args)
	fr := &Frame{Caller: caller, Fn: f, This: this, Slots: slots}
	if f.nUpval > 0 {
		fr.Upvalues = make([]*Upvalue, f.nUpval)
		for i := range fr.Upvalues {
			fr.Upvalues[i] = &Upvalue{Val: value.Nil}
		}
	}
	return fr
}

// Scan marks everything a frame keeps alive: the function it's running,
// the receiver, every local slot and every pinned upvalue — part of the
// GC's frame-chain root (§4.3).
func (fr *Frame) Scan(mark func(value.Value)) {
	if fr.Fn != nil {
		mark(value.FromObject(fr.Fn))
	}
	mark(fr.This)
	for _, v := range fr.Slots {
		mark(v)
	}
	for _, u := range fr.Upvalues {
		if u != nil {
			mark(u.Val)
		}
	}
}

// Frames flattens the Caller chain starting at fr, most-recent first — the
// order errtypes' dump_on_throw renders a stack trace in.
func Frames(fr *Frame) []*Frame {
	var out []*Frame
	for f := fr; f != nil; f = f.Caller {
		out = append(out, f)
	}
	return out
}
