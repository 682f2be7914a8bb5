package ox

import (
	"math"
	"strconv"

	"github.com/gongke-cn/ox/internal/strs"
	"github.com/gongke-cn/ox/internal/value"
)

// The Value-level embedder API (§4.9): primitive constructors and the
// stack-scoped push/pop discipline of §4.2, exposed through the Context so
// native module code never touches internal/value directly.

// PushNull/PushBool/PushNumber/PushString push a scalar or interned string
// onto c's stack and return the Mark Stack.Release expects at scope exit.
func (c *Context) PushNull() value.Mark { return c.stack.Push(value.Nil) }

func (c *Context) PushBool(b bool) value.Mark { return c.stack.Push(value.FromBool(b)) }

func (c *Context) PushNumber(n float64) value.Mark { return c.stack.Push(value.FromNumber(n)) }

// PushString interns text through the VM's singleton-string table and
// pushes the resulting Value — every script-visible string literal and
// property key ultimately goes through this path (§4.5).
func (c *Context) PushString(text string) value.Mark {
	return c.stack.Push(value.FromObject(c.vm.Interner.InternString(text)))
}

// NewString is PushString without the stack push, for callers building a
// Value to store directly (e.g. as a property or array element) rather
// than leaving it on the evaluation stack.
func (c *Context) NewString(text string) value.Value {
	return value.FromObject(c.vm.Interner.InternString(text))
}

// Release pops c's stack back to mark (§4.2).
func (c *Context) Release(mark value.Mark) { c.stack.Release(mark) }

// formatNumberValue renders a float64 the way the primitive String
// coercion and error-message rendering both want it: integral values
// without a trailing ".0".
func formatNumberValue(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// AsString returns v's backing Go string if v is any string heap kind
// (owned or singleton), and false otherwise.
func AsString(v value.Value) (string, bool) {
	if !v.IsHeap() {
		return "", false
	}
	s, ok := v.ObjectVal().(*strs.String)
	if !ok {
		return "", false
	}
	return s.String(), true
}
