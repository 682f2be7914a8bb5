package ox

import "github.com/gongke-cn/ox/internal/value"

// GlobalRef is an opaque handle pinning a heap Value alive across
// collections independent of any value stack or frame (§4.3's "global refs
// table" root) — the embedder-API equivalent of a persistent handle, used
// when Go-level host code needs to hold a script Value beyond the scope of
// a single Context call (a cached callback, a long-lived proxy target).
type GlobalRef string

// Pin registers v in the VM's global-refs table and returns a token that
// keeps it alive until Unpin is called, even across a Collect (§4.3, §8:
// "global-ref safety across a GC collection").
func (c *Context) Pin(v value.Value) GlobalRef {
	token := GlobalRef(c.vm.GC.NewToken())
	c.vm.globalRefs.Set(string(token), v)
	return token
}

// Unpin removes a previously pinned reference, after which the collector
// may free it on the next collection if nothing else reaches it.
func (c *Context) Unpin(ref GlobalRef) {
	c.vm.globalRefs.Delete(string(ref))
}

// Deref resolves a pinned reference back to its Value.
func (c *Context) Deref(ref GlobalRef) (value.Value, bool) {
	return c.vm.globalRefs.Get(string(ref))
}
