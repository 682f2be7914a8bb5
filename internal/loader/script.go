// Package loader implements the script reference/scope resolution model of
// §4.8: canonical-path caching, the resolution table (relative/absolute/
// package-file/bare-package-name imports), the `.ox`/`.oxn` extension
// try-order, cycle detection, the error/re-raise state (concurrent loads of
// the same path are already serialised by the VM's big lock, §5 — see
// Loader's doc comment), and package.ox descriptor driven library/
// executable lookup. Grounded on
// original_source/src/lib/ox_script.c and ox_package.c. Bytecode opcode
// semantics and the package.ox text format itself are out of scope (§Non-
// goals); Script carries an opaque Code payload for a pluggable Interpreter
// to execute, and PackageDescriptor is populated by an injected parser hook
// rather than by this package parsing package.ox text.
package loader

import (
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// State is a Script's lifecycle stage (§3 Script state, §4.8): uninit ->
// load-ref (cycle-detection marker while references are being resolved)
// -> inited (linked, entry not yet run) -> called (entry has run exactly
// once); error is sticky and short-circuits every subsequent load/call.
type State uint8

const (
	StateUninit State = iota
	StateLoadRef
	StateInited
	StateCalled
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninit:
		return "uninit"
	case StateLoadRef:
		return "load-ref"
	case StateInited:
		return "inited"
	case StateCalled:
		return "called"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StarMode names how an import binds the imported script's exports into
// the importing scope (§9 open-question decision): StarNone binds nothing
// implicitly (only explicitly named symbols), StarAll binds every exported
// symbol directly into scope, StarNamed binds the whole module under one
// local name.
type StarMode uint8

const (
	StarNone StarMode = iota
	StarAll
	StarNamed
)

// Reference is one entry of a Script's reference list (§4.8): the raw
// import spec as written, how it binds, and (once resolved) the Script it
// points to.
type Reference struct {
	Spec   string
	Star   StarMode
	As     string // local name bound, for StarNamed; explicit symbol name otherwise
	Target *Script
}

// SourceLoc is one entry of a bytecode script's source-location table,
// mapping a code offset back to a line/column for stack dumps.
type SourceLoc struct {
	Offset int
	Line   int
	Col    int
}

// Script is the heap kind backing a loaded module (§4.8). Its property
// table (embedded Object) *is* the public symbol table: Export installs a
// name into it, and a star-all import copies every entry from the target's
// table into the importer's scope object.
type Script struct {
	object.Object
	path   string // canonical cache key
	domain string // text/message domain, carried for i18n-flavoured errors
	state  State
	err    error // sticky error, re-raised on every subsequent Load (§4.8)

	entry *function.Function
	refs  []*Reference

	// Bytecode-script-only payload; nil for a native (Go-implemented)
	// script.
	Constants []value.Value
	Patterns  []string
	Templates []string
	FuncDescs []interface{}
	Code      []byte
	SrcLocs   []SourceLoc
}

// newScript returns a Script in StateUninit for the given canonical path.
func newScript(path string) *Script {
	s := &Script{Object: *object.NewObject(), path: path, state: StateUninit}
	s.Retag(value.KScript)
	return s
}

// Path returns the canonical path used as the cache key.
func (s *Script) Path() string { return s.path }

// State returns the current lifecycle stage.
func (s *Script) State() State { return s.state }

// Err returns the sticky load/run error, if State is StateError.
func (s *Script) Err() error { return s.err }

// Entry returns the script's top-level entry function, valid once Loaded.
func (s *Script) Entry() *function.Function { return s.entry }

// SetEntry installs the script's top-level entry function — called by a
// CompileFunc/NativeLoadFunc hook (living outside this package) while
// populating a freshly claimed Script.
func (s *Script) SetEntry(fn *function.Function) { s.entry = fn }

// SetDomain installs the script's gettext-style text domain (§3 Script
// fields).
func (s *Script) SetDomain(domain string) { s.domain = domain }

// Domain returns the script's text domain, if any.
func (s *Script) Domain() string { return s.domain }

// AddReference appends an import declaration to the script's reference
// list — called by a CompileFunc/NativeLoadFunc hook while populating a
// freshly claimed Script; the Loader resolves Target for each entry during
// linking (§4.8 step 2).
func (s *Script) AddReference(ref *Reference) {
	s.refs = append(s.refs, ref)
}

// Export installs name as a public symbol, visible to star-all importers
// and to `import { name } from "...".
func (s *Script) Export(name string, v value.Value) {
	s.DefineConst(name, v)
}

// References returns the script's own import list, in declaration order.
func (s *Script) References() []*Reference {
	return append([]*Reference(nil), s.refs...)
}

// Scan marks everything the embedded Object (public symbols) and every
// resolved reference target reach, plus the entry function and any
// constants/templates the bytecode payload holds live — scripts are one of
// the GC's permanent roots (§4.3) via the loader's script table, so this is
// reached even between calls.
func (s *Script) Scan(mark func(value.Value)) {
	s.Object.Scan(mark)
	if s.entry != nil {
		mark(value.FromObject(s.entry))
	}
	for _, r := range s.refs {
		if r.Target != nil {
			mark(value.FromObject(r.Target))
		}
	}
	for _, c := range s.Constants {
		mark(c)
	}
}
