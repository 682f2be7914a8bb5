package loader

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/value"
)

// CompileFunc turns a `.ox` source file's bytes into an executable Script
// body: it populates sc's reference list (the imports the module declares)
// and its entry function, leaving cross-script linking (step 2 of the
// algorithm below) to the Loader. The actual lexing/parsing/bytecode
// compilation is the out-of-scope external front end (§1 Non-goals); this
// hook is the seam internal/ox wires a real compiler through.
type CompileFunc func(l *Loader, sc *Script, data []byte) error

// NativeLoadFunc is the `.oxn` counterpart (§6): it resolves ox_load/
// ox_exec-shaped bindings from an in-process native module registration
// (the stand-in for a platform dynamic library, §Non-goals: "no
// package-format definition beyond the loader hook") and populates sc the
// same way CompileFunc does for a compiled script.
type NativeLoadFunc func(l *Loader, sc *Script, path string) error

// Loader implements §4.8 in full: canonical-path caching (the script
// table), the resolution table, the `.ox`/`.oxn` extension try-order,
// cycle detection via the load-ref marker state, and the five-step
// linking algorithm. One Loader lives per VM; internal/ox wires it to a
// function.Context for running each module's entry function.
//
// Load is never actually called concurrently for one VM: §5's big lock is
// held for the whole embedder-initiated operation a Load happens inside
// (ctx is only usable while the lock is held, §4.9), so two Contexts racing
// to Load the same canonical path are already serialised by that lock, not
// by anything in this package. mu guards scripts only against the GC's
// concurrent-with-nothing-but-still-explicit root walk (Scripts) and
// Lookup; it is not a contended mutex in practice. A singleflight-style
// collapse was tried here and rejected: keying a blocking Do call by
// canonical path would deadlock a genuine circular import (a imports b
// imports a resolves to one goroutine re-entering Load for the same key
// while its own first call for that key is still in flight).
type Loader struct {
	searchDirs []string
	mu         sync.Mutex
	scripts    map[string]*Script

	Compile    CompileFunc
	LoadNative NativeLoadFunc
}

// New returns a Loader that searches dirs (in order) for bare-name and
// package-relative imports (§6 OX_PACKAGE_DIRS).
func New(dirs []string) *Loader {
	return &Loader{searchDirs: append([]string(nil), dirs...), scripts: make(map[string]*Script)}
}

// SearchDirs returns the configured package lookup directories.
func (l *Loader) SearchDirs() []string { return append([]string(nil), l.searchDirs...) }

// SetSearchDirs replaces the package lookup directories (e.g. when
// OX_PACKAGE_DIRS is set, §6, it replaces rather than appends).
func (l *Loader) SetSearchDirs(dirs []string) { l.searchDirs = append([]string(nil), dirs...) }

// Scripts returns every script currently in the table, for the GC root
// walk (§4.3: "every entry of the script table").
func (l *Loader) Scripts() []*Script {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Script, 0, len(l.scripts))
	for _, s := range l.scripts {
		out = append(out, s)
	}
	return out
}

// Lookup returns the already-cached script for canonical, if any — used by
// Context.CurrentScript-style "what script is this" queries and tests.
func (l *Loader) Lookup(canonical string) (*Script, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.scripts[canonical]
	return s, ok
}

// Load resolves spec relative to requester (nil for a top-level host
// load), links it (§4.8 steps 1-5) and runs its entry function exactly
// once, returning the same *Script on every subsequent call for the same
// canonical path (§8: "loading the same canonical path twice returns the
// same script object"). ctx is used only to run entry functions and is
// never retained.
func (l *Loader) Load(ctx function.Context, requester *Script, spec string) (*Script, error) {
	fromDir := "."
	if requester != nil && requester.Path() != "" {
		fromDir = filepath.Dir(requester.Path())
	}
	resolved, err := l.resolvePath(spec, fromDir)
	if err != nil {
		return nil, err
	}
	canonical := canonicalize(resolved)

	sc, fresh := l.claim(canonical)
	if !fresh {
		switch sc.state {
		case StateLoadRef:
			return nil, errCircular(canonical)
		case StateError:
			return nil, sc.err
		default:
			return sc, nil
		}
	}

	if err := l.compileInto(sc, canonical); err != nil {
		sc.state = StateError
		sc.err = err
		return nil, err
	}

	if err := l.linkReferences(ctx, sc); err != nil {
		sc.state = StateError
		sc.err = err
		return nil, err
	}
	sc.state = StateInited

	if sc.entry != nil {
		if _, err := function.Invoke(ctx, value.FromObject(sc.entry), value.Nil, nil, nil); err != nil {
			sc.state = StateError
			sc.err = err
			return nil, err
		}
	}
	sc.state = StateCalled
	return sc, nil
}

// claim returns the cached Script for canonical if present, otherwise
// inserts a fresh one in StateLoadRef so a recursive Load of the same path
// (the cycle-detection marker, §4.8) observes it before compilation even
// starts.
func (l *Loader) claim(canonical string) (sc *Script, fresh bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.scripts[canonical]; ok {
		return existing, false
	}
	sc = newScript(canonical)
	sc.state = StateLoadRef
	l.scripts[canonical] = sc
	return sc, true
}

// compileInto dispatches to the `.ox` or `.oxn` hook by extension. claim has
// already inserted sc in StateLoadRef under l.mu before this runs, which is
// what actually makes a fresh canonical path safe to compile exactly once
// (§4.8's "canonicalisation is the cross-script cache key"): the VM's big
// lock (§5) serialises every Load for a given VM, so there is never a
// second concurrent caller here to collapse.
func (l *Loader) compileInto(sc *Script, canonical string) error {
	switch filepath.Ext(canonical) {
	case ".oxn":
		if l.LoadNative == nil {
			return errBadSpec(canonical, "no native module loader installed")
		}
		return l.LoadNative(l, sc, canonical)
	default:
		if l.Compile == nil {
			return errBadSpec(canonical, "no script compiler installed")
		}
		data, err := os.ReadFile(canonical)
		if err != nil {
			return err
		}
		return l.Compile(l, sc, data)
	}
}

// linkReferences implements algorithm steps 2-4: recursively load every
// declared reference, then bind star-all/star-named/named imports into
// sc's own public table per §4.8 step 4. A missing named export raises
// ReferenceError.
func (l *Loader) linkReferences(ctx function.Context, sc *Script) error {
	for _, ref := range sc.refs {
		target, err := l.Load(ctx, sc, ref.Spec)
		if err != nil {
			return err
		}
		ref.Target = target

		switch ref.Star {
		case StarAll:
			for _, name := range target.OwnNames() {
				if name == "" || name[0] == '#' {
					continue
				}
				prop, ok := target.RawProperty(name)
				if !ok {
					continue
				}
				sc.Export(name, prop.Value)
			}
		case StarNamed:
			sc.Export(ref.As, value.FromObject(target))
		default:
			prop, ok := target.RawProperty(ref.As)
			if !ok {
				return errBadSpec(ref.Spec, "no such export: "+ref.As)
			}
			sc.Export(ref.As, prop.Value)
		}
	}
	return nil
}

// canonicalize resolves symlinks and makes path absolute, falling back to
// a plain Abs if the path doesn't (yet) exist on disk.
func canonicalize(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
