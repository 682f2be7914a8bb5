package ox

import (
	"github.com/gongke-cn/ox/internal/loader"
)

// Frontend is the pluggable compile hook a real lexer/parser/bytecode
// compiler implements (§1 Non-goals: "no bytecode opcode semantics" — this
// interface is the seam, not an implementation). SetFrontend installs it
// as the Loader's CompileFunc.
type Frontend interface {
	Compile(l *loader.Loader, sc *loader.Script, data []byte) error
}

// SetFrontend installs fe as the source compiler for every `.ox` load
// (§4.7). Without one, loading any `.ox` path fails with "no script
// compiler installed" — only `.oxn` native-module loads work out of the
// box, which is sufficient for this repository's own tests (they load
// registered native modules rather than compiling source text).
func (vm *VM) SetFrontend(fe Frontend) {
	vm.Loader.Compile = func(l *loader.Loader, sc *loader.Script, data []byte) error {
		return fe.Compile(l, sc, data)
	}
}

// Load resolves and links spec relative to the context's current script
// (or the VM root if none), running its entry function exactly once
// (§4.7). On success the loaded Script becomes c's current script and stays
// so until the next Load or CurrentScriptFor; nested loads triggered from
// within a script's own top-level code should pass that script as
// requester via LoadFrom.
func (c *Context) Load(spec string) (*loader.Script, error) {
	return c.LoadFrom(c.curScript, spec)
}

// LoadFrom is Load with an explicit requester script, used by the loader's
// own reference-linking step and by a native module resolving an import
// relative to the script that's loading it.
func (c *Context) LoadFrom(requester *loader.Script, spec string) (*loader.Script, error) {
	prev := c.curScript
	sc, err := c.vm.Loader.Load(c, requester, spec)
	if err != nil {
		c.curScript = prev
		return nil, c.Throw(err)
	}
	c.curScript = sc
	return sc, nil
}

// CurrentScriptFor restores c's notion of the current script after a
// nested Load returns — callers that load one script, then want to resume
// running in the context of an outer one, call this rather than relying on
// Load's side effect.
func (c *Context) CurrentScriptFor(sc *loader.Script) {
	c.curScript = sc
}
