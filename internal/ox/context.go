package ox

import (
	"os"

	"github.com/gongke-cn/ox/internal/class"
	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// Context is one execution thread's view of a VM (§4.9): its own value
// stack and frame chain, a thread-key identity token, and the in-flight
// error slot that Throw/Catch operate on. A Context must Lock before
// touching anything shared with the VM (the heap, the loader, the package
// namespace, another Context's state) and Unlock when done; the lock is
// per-VM and recursive per-Context (§5).
type Context struct {
	vm        *VM
	stack     *value.Stack
	curFrame  *function.Frame
	threadKey string

	pendingErr *errtypes.Error
	curScript  *loader.Script

	// DumpOnThrow, when true, lets DumpPending write the pending error's
	// stack dump to DumpWriter (os.Stderr if nil); Throw itself never
	// writes — mirrors §7's "prints a coloured trace to standard error".
	DumpOnThrow bool
	DumpWriter  *os.File
}

// NewContext returns a fresh Context over vm, with its own empty value
// stack and a unique thread-key token (§4.1 Domain stack: per-context
// thread-key token).
func (vm *VM) NewContext() *Context {
	return &Context{
		vm:        vm,
		stack:     value.NewStack(),
		threadKey: vm.GC.NewToken(),
		DumpWriter: os.Stderr,
	}
}

// VM returns the owning VM.
func (c *Context) VM() *VM { return c.vm }

// ThreadKey returns this context's identity token.
func (c *Context) ThreadKey() string { return c.threadKey }

// Stack implements function.Context.
func (c *Context) Stack() *value.Stack { return c.stack }

// CurrentFrame returns the innermost active call frame, or nil outside any
// call.
func (c *Context) CurrentFrame() *function.Frame { return c.curFrame }

// CurrentScript returns the script currently executing in this context, if
// any (§4.3 GC root: "the current script pointer").
func (c *Context) CurrentScript() *loader.Script { return c.curScript }

// PushFrame/PopFrame implement function.FrameTracker so the GC's
// frame-chain root always reflects the live top of whatever call is
// executing in this context (function.Invoke calls these automatically).
func (c *Context) PushFrame(fr *function.Frame) { c.curFrame = fr }
func (c *Context) PopFrame() {
	if c.curFrame != nil {
		c.curFrame = c.curFrame.Caller
	}
}

// Call is the embedder-facing entry point for invoking any callable Value
// (§4.9): a thin wrapper over function.Invoke/class.Instantiate that keeps
// c.curFrame consistent for the GC root walk. Any other value goes through
// object.Call (§4.4's call op).
func (c *Context) Call(fn value.Value, this value.Value, args []value.Value) (value.Value, error) {
	switch fn.ObjectVal().(type) {
	case *function.Function:
		return function.Invoke(c, fn, this, args, c.curFrame)
	case *class.Class:
		return class.Instantiate(c, fn, args)
	}
	result, _, err := object.Call(fn, this, args)
	if err != nil {
		return value.Nil, c.Throw(err)
	}
	return result, nil
}

// Throw implements function.Context: it wraps err into an *errtypes.Error
// (passing one through unchanged), stores it as the in-flight error and
// returns it so the call chain unwinds through ordinary Go error returns.
// If DumpOnThrow is set and nothing further up the (Go-level) call chain
// clears it via Catch before the context next goes idle, the dump is the
// embedder's own responsibility to trigger via DumpPending — Throw itself
// never writes to stderr, since at throw time it is not yet known whether
// a script-level catch will intercept it.
func (c *Context) Throw(err error) error {
	e := errtypes.Wrap(err, c.curFrame)
	c.pendingErr = e
	return e
}

// Pending returns the in-flight error, if any.
func (c *Context) Pending() (*errtypes.Error, bool) {
	return c.pendingErr, c.pendingErr != nil
}

// Catch clears the pending error and returns it if it matches cat,
// otherwise leaves it in place (so it keeps propagating) and returns
// (nil, false).
func (c *Context) Catch(cat errtypes.Catcher) (*errtypes.Error, bool) {
	if c.pendingErr == nil || !cat.Matches(c.pendingErr) {
		return nil, false
	}
	e := c.pendingErr
	c.pendingErr = nil
	return e, true
}

// DumpPending writes the pending error's stack dump (isatty-gated colour,
// §7) to DumpWriter if DumpOnThrow is set and an error is still pending —
// called by the embedder's top-level driver after a script call returns an
// error with nothing left to catch it.
func (c *Context) DumpPending() {
	if !c.DumpOnThrow || c.pendingErr == nil {
		return
	}
	w := c.DumpWriter
	if w == nil {
		w = os.Stderr
	}
	errtypes.DumpOnThrow(w, c.pendingErr)
}

// Lock acquires the VM's big lock, or increments this context's recursion
// depth if it already holds it (§5's "recursive mutex per VM, per-context
// lock-depth counter").
func (c *Context) Lock() {
	c.vm.holderMu.Lock()
	if c.vm.holder == c {
		c.vm.depth++
		c.vm.holderMu.Unlock()
		return
	}
	c.vm.holderMu.Unlock()

	c.vm.mu.Lock()
	c.vm.holderMu.Lock()
	c.vm.holder = c
	c.vm.depth = 1
	c.vm.holderMu.Unlock()
}

// Unlock releases one level of recursion, releasing the underlying mutex
// only once depth returns to zero. Panics if c does not currently hold the
// lock — a programming error in the embedder, not a recoverable runtime
// condition.
func (c *Context) Unlock() {
	c.vm.holderMu.Lock()
	if c.vm.holder != c {
		c.vm.holderMu.Unlock()
		panic("ox: Unlock called by a Context that does not hold the VM lock")
	}
	c.vm.depth--
	if c.vm.depth == 0 {
		c.vm.holder = nil
		c.vm.holderMu.Unlock()
		c.vm.mu.Unlock()
		return
	}
	c.vm.holderMu.Unlock()
}

// Suspend releases the VM lock entirely (regardless of recursion depth),
// runs fn, then reacquires it at the same depth before returning — the
// suspension point around blocking I/O used by internal/nativemods/db and
// internal/nativemods/net (§5).
func (c *Context) Suspend(fn func() error) error {
	c.vm.holderMu.Lock()
	if c.vm.holder != c {
		c.vm.holderMu.Unlock()
		panic("ox: Suspend called by a Context that does not hold the VM lock")
	}
	saved := c.vm.depth
	c.vm.holder = nil
	c.vm.depth = 0
	c.vm.holderMu.Unlock()
	c.vm.mu.Unlock()

	err := fn()

	c.vm.mu.Lock()
	c.vm.holderMu.Lock()
	c.vm.holder = c
	c.vm.depth = saved
	c.vm.holderMu.Unlock()
	return err
}
