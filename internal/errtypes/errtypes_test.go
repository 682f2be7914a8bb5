package errtypes_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/value"
)

func TestNewErrorCarriesKindAndMessage(t *testing.T) {
	e := errtypes.NewTypeError("boom", nil)
	if e.Kind() != errtypes.KindTypeError {
		t.Fatalf("Kind() = %v, want TypeError", e.Kind())
	}
	if e.Message() != "boom" {
		t.Fatalf("Message() = %q, want %q", e.Message(), "boom")
	}
	if e.Kind().String() != "TypeError" {
		t.Fatalf("Kind().String() = %q, want TypeError", e.Kind().String())
	}
}

func TestErrorImplementsGoError(t *testing.T) {
	e := errtypes.NewRangeError("out of range", nil)
	var err error = e
	if !strings.Contains(err.Error(), "RangeError") || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("Error() = %q, want it to mention kind and message", err.Error())
	}
}

func TestWrapPassesThroughExistingError(t *testing.T) {
	orig := errtypes.NewNullError("nil deref", nil)
	wrapped := errtypes.Wrap(orig, nil)
	if wrapped != orig {
		t.Fatal("Wrap() on an existing *Error must return it unchanged")
	}
}

func TestWrapLiftsPlainGoError(t *testing.T) {
	wrapped := errtypes.Wrap(errPlain{}, nil)
	if wrapped.Kind() != errtypes.KindSystemError {
		t.Fatalf("Wrap() of a plain error should be SystemError, got %v", wrapped.Kind())
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if errtypes.Wrap(nil, nil) != nil {
		t.Fatal("Wrap(nil) should return nil")
	}
}

func TestStackSnapshotCapturesFrameNames(t *testing.T) {
	fn := function.NewScript("callee", 0, 0, 0, nil, nil)
	fr := function.NewFrame(nil, fn, value.Nil, nil)
	e := errtypes.NewError("fail", fr)
	stack := e.Stack()
	if len(stack) != 1 || stack[0].FuncName != "callee" {
		t.Fatalf("Stack() = %v, want one frame named callee", stack)
	}
}

func TestDumpOnThrowWritesKindAndMessage(t *testing.T) {
	e := errtypes.NewAccessError("const write", nil)
	var buf bytes.Buffer
	errtypes.DumpOnThrow(&buf, e)
	out := buf.String()
	if !strings.Contains(out, "AccessError") || !strings.Contains(out, "const write") {
		t.Fatalf("DumpOnThrow output = %q, want it to mention kind and message", out)
	}
}

func TestOutcomeThreeValuedConvention(t *testing.T) {
	ok := errtypes.Ok(value.FromNumber(3))
	if !ok.IsOk() || ok.IsErr() || ok.IsFalse() {
		t.Fatal("Ok() should report IsOk only")
	}

	e := errtypes.NewTypeError("bad", nil)
	errOutcome := errtypes.Err(e)
	if !errOutcome.IsErr() || errOutcome.Error() != e {
		t.Fatal("Err() should report IsErr and carry the error")
	}

	f := errtypes.False()
	if !f.IsFalse() || f.IsOk() || f.IsErr() {
		t.Fatal("False() should report IsFalse only, with no error or value set")
	}
}

func TestCatcherMatchesEmptyCatchesEverything(t *testing.T) {
	c := errtypes.Catcher{}
	if !c.Matches(errtypes.NewTypeError("x", nil)) {
		t.Fatal("an empty Catcher should match every error kind")
	}
}

func TestCatcherMatchesSpecificKindsOnly(t *testing.T) {
	c := errtypes.Catcher{Kinds: []errtypes.Kind{errtypes.KindRangeError}}
	if !c.Matches(errtypes.NewRangeError("x", nil)) {
		t.Fatal("Catcher should match a listed kind")
	}
	if c.Matches(errtypes.NewTypeError("x", nil)) {
		t.Fatal("Catcher should not match an unlisted kind")
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain failure" }
