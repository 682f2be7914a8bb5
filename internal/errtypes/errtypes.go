// Package errtypes implements the error taxonomy and propagation model of
// §4.9: the nine built-in error kinds, the three-valued Ok|Err|False result
// convention used by operations that can legitimately "not apply" without
// that being an error, a frame-chain snapshot taken at throw time, and an
// isatty-gated colour stack dump. Grounded on
// original_source/src/lib/ox_error.c. Go-level errors crossing the embedder
// boundary are wrapped with github.com/pkg/errors so a panic recovery or a
// top-level failure still carries a Go stack trace, matching the teacher's
// convention of never returning a bare fmt.Errorf at that boundary.
package errtypes

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/strs"
	"github.com/gongke-cn/ox/internal/value"
)

// Interner backs the string values this package attaches to thrown errors
// ($class name fallback, message). internal/ox assigns its one per-VM
// strs.Interner here during bootstrap; until then, New still works but the
// message/$class string properties are left unset (Message()/Kind() — the
// Go-level accessors — remain authoritative regardless).
var Interner *strs.Interner

// ClassOf, when non-nil, maps a Kind to the actual class object installed
// for it by internal/class during VM bootstrap (§4.6), so a thrown Error's
// $inf points at the real Error/TypeError/... class rather than nothing —
// which is what makes `catch (e: TypeError)` class-based catch filtering
// work.
var ClassOf func(Kind) (value.Value, bool)

// Kind is one of the nine built-in error classes (§4.9).
type Kind uint8

const (
	KindError Kind = iota
	KindSystemError
	KindNoMemoryError
	KindNullError
	KindRangeError
	KindAccessError
	KindTypeError
	KindSyntaxError
	KindReferenceError
)

var kindNames = [...]string{
	KindError: "Error", KindSystemError: "SystemError",
	KindNoMemoryError: "NoMemoryError", KindNullError: "NullError",
	KindRangeError: "RangeError", KindAccessError: "AccessError",
	KindTypeError: "TypeError", KindSyntaxError: "SyntaxError",
	KindReferenceError: "ReferenceError",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Error"
}

// Frame is a single stack-dump entry captured at throw time — copied out of
// function.Frame rather than holding the live frame, so the dump remains
// accurate even after the stack has since unwound.
type Frame struct {
	FuncName string
	File     string
	Line     int
}

// Error is the heap kind backing every thrown value (§4.9). Script code
// sees it as an ordinary object: Kind/Message/Stack are exposed as
// properties so `catch (e) { print(e.message) }` just works.
type Error struct {
	object.Object
	kind    Kind
	message string
	stack   []Frame
}

// New builds an Error of the given kind and message, snapshotting the
// frame chain starting at fr (most-recent first) for later dumping.
func New(kind Kind, message string, fr *function.Frame) *Error {
	e := &Error{Object: *object.NewObject(), kind: kind, message: message}
	e.Retag(value.KObject)
	if ClassOf != nil {
		if cls, ok := ClassOf(kind); ok {
			e.SetInterface(cls)
			e.DefineConst(object.KeyClass, cls)
		}
	}
	e.DefineConst("message", e.textValue(message))
	for _, caller := range function.Frames(fr) {
		name := "<native>"
		if caller.Fn != nil {
			name = caller.Fn.Name()
		}
		e.stack = append(e.stack, Frame{FuncName: name})
	}
	return e
}

// textValue interns s through the package-level Interner if one has been
// installed, falling back to Nil (the Go-level Message() accessor remains
// the source of truth regardless, e.g. for dump_on_throw).
func (e *Error) textValue(s string) value.Value {
	if Interner == nil {
		return value.Nil
	}
	return value.FromObject(Interner.InternString(s))
}

// Kind returns the error's class.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the error's human-readable text.
func (e *Error) Message() string { return e.message }

// Stack returns the captured call chain, most-recent call first.
func (e *Error) Stack() []Frame { return append([]Frame(nil), e.stack...) }

// Error implements the Go error interface so an *Error can flow through
// ordinary Go error returns at the embedder boundary.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Wrap lifts a Go-level error into an Error of kind SystemError, adding a
// pkg/errors stack trace via WithStack (an *Error passes through as is) — used at
// the embedder-API boundary (§4.10) where a native module's Go error (a
// failed syscall, a SQL driver error) must become a catchable script value.
// The message renders the traced error with "%+v" rather than Error() so
// the stack pkg/errors attached via WithStack is actually present in the
// Go-level diagnostic text, not discarded immediately after being added.
func Wrap(err error, fr *function.Frame) *Error {
	if err == nil {
		return nil
	}
	if ox, ok := err.(*Error); ok {
		return ox
	}
	traced := pkgerrors.WithStack(err)
	return New(KindSystemError, fmt.Sprintf("%+v", traced), fr)
}
