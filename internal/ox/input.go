package ox

import (
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// Input is the heap kind backing the iterator/stream protocol (§3: "Heap
// object kinds" lists input as the string/file variant; the db and net
// native modules generalise it to SQL row cursors and socket frames). It
// exposes the next/end/value/close convention a `for` loop or a native
// module's blocking read drives: Next advances (blocking, under
// Context.Suspend, if the underlying source does I/O), End reports
// exhaustion, Value returns the current item, Close releases the
// underlying resource.
type Input struct {
	object.Header
	next  func() (value.Value, bool, error)
	close func() error
	ended bool
	cur   value.Value
}

// NewInput wraps next/closeFn as a tracked Input value. next returns the
// next item and true, or (Nil, false, nil) at end-of-stream, or a non-nil
// error on failure; closeFn may be nil if the source needs no teardown.
func (c *Context) NewInput(next func() (value.Value, bool, error), closeFn func() error) value.Value {
	in := &Input{Header: object.NewHeader(value.KInput), next: next, close: closeFn}
	c.vm.GC.Track(in)
	return value.FromObject(in)
}

// Next advances the iterator, blocking (via Context.Suspend) only if the
// caller's own next func does so — Input itself has no opinion on whether
// advancing blocks.
func (in *Input) Next() (bool, error) {
	if in.ended {
		return false, nil
	}
	v, ok, err := in.next()
	if err != nil {
		in.ended = true
		return false, err
	}
	if !ok {
		in.ended = true
		in.cur = value.Nil
		return false, nil
	}
	in.cur = v
	return true, nil
}

// Value returns the item Next last produced.
func (in *Input) Value() value.Value { return in.cur }

// End reports whether the stream is exhausted.
func (in *Input) End() bool { return in.ended }

// Close releases the underlying resource, if any, and marks the stream
// ended so further Next calls are no-ops.
func (in *Input) Close() error {
	in.ended = true
	if in.close == nil {
		return nil
	}
	return in.close()
}

// Scan keeps the current item alive; the next/close closures may capture
// further Values (e.g. a bound connection object) that the collector
// cannot see through a Go closure, so a native module building an Input
// over script-visible state must also keep that state reachable through an
// ordinary property somewhere.
func (in *Input) Scan(mark func(value.Value)) {
	mark(in.cur)
}
