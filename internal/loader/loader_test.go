package loader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/value"
)

type fakeContext struct{ stack *value.Stack }

func newFakeContext() *fakeContext  { return &fakeContext{stack: value.NewStack()} }
func (c *fakeContext) Stack() *value.Stack  { return c.stack }
func (c *fakeContext) Throw(err error) error { return err }

// writeFile writes data into dir/name, creating dir if needed.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// refCompiler is a trivial stand-in "compiler" for these tests: each
// non-blank line of a source file is either "import:<spec>" (a named
// import of "exported") or "export:<name>" (defines a public symbol).
func refCompiler() loader.CompileFunc {
	return func(l *loader.Loader, sc *loader.Script, data []byte) error {
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				continue
			case strings.HasPrefix(line, "import:"):
				sc.AddReference(&loader.Reference{Spec: strings.TrimPrefix(line, "import:"), Star: loader.StarNone, As: "exported"})
			case strings.HasPrefix(line, "export:"):
				sc.Export(strings.TrimPrefix(line, "export:"), value.FromNumber(1))
			}
		}
		return nil
	}
}

func TestLoadSamePathTwiceReturnsSameScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ox", "")
	l := loader.New(nil)
	l.Compile = refCompiler()
	ctx := newFakeContext()

	s1, err := l.Load(ctx, nil, filepath.Join(dir, "a.ox"))
	if err != nil {
		t.Fatalf("first Load() = %v", err)
	}
	s2, err := l.Load(ctx, nil, filepath.Join(dir, "a.ox"))
	if err != nil {
		t.Fatalf("second Load() = %v", err)
	}
	if s1 != s2 {
		t.Fatal("loading the same canonical path twice must return the identical *Script (§8)")
	}
	if s1.State() != loader.StateCalled {
		t.Fatalf("State() = %v, want called", s1.State())
	}
}

func TestCircularImportRaisesReferenceError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ox", "import:./b.ox")
	writeFile(t, dir, "b.ox", "import:./a.ox")
	l := loader.New(nil)
	l.Compile = refCompiler()
	ctx := newFakeContext()

	_, err := l.Load(ctx, nil, filepath.Join(dir, "a.ox"))
	if err == nil {
		t.Fatal("circular import should raise ReferenceError")
	}
	if !strings.Contains(err.Error(), "circular reference") {
		t.Fatalf("err = %v, want it to mention 'circular reference'", err)
	}

	// A subsequent load of the same path re-raises the same sticky error
	// rather than re-running the body.
	_, err2 := l.Load(ctx, nil, filepath.Join(dir, "a.ox"))
	if err2 == nil {
		t.Fatal("re-loading an errored script should re-raise its error")
	}
}

func TestNamedImportMissingExportRaisesReferenceError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ox", "import:./b.ox")
	writeFile(t, dir, "b.ox", "") // exports nothing named "exported"
	l := loader.New(nil)
	l.Compile = refCompiler()
	ctx := newFakeContext()

	_, err := l.Load(ctx, nil, filepath.Join(dir, "a.ox"))
	if err == nil {
		t.Fatal("importing a missing named export should error")
	}
}

func TestRelativeImportResolvesAgainstRequesterDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	writeFile(t, sub, "lib.ox", "export:exported")
	writeFile(t, dir, "main.ox", "import:./sub/lib.ox")
	l := loader.New(nil)
	l.Compile = refCompiler()
	ctx := newFakeContext()

	main, err := l.Load(ctx, nil, filepath.Join(dir, "main.ox"))
	if err != nil {
		t.Fatalf("Load(main.ox) = %v", err)
	}
	if main.State() != loader.StateCalled {
		t.Fatalf("State() = %v, want called", main.State())
	}
}

func TestFunctionContextSatisfiedByMinimalContext(t *testing.T) {
	var _ function.Context = newFakeContext()
}
