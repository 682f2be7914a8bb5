package strmod_test

import (
	"testing"

	"github.com/gongke-cn/ox/internal/nativemods/strmod"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/oxconfig"
	"github.com/gongke-cn/ox/internal/value"
)

func newModule(t *testing.T) (*ox.Context, value.Value) {
	t.Helper()
	vm := ox.New(&oxconfig.Config{})
	t.Cleanup(func() { vm.Close() })
	strmod.Register(vm)
	c := vm.NewContext()
	c.Lock()
	t.Cleanup(c.Unlock)
	sc, err := c.Load("strmod.oxn")
	if err != nil {
		t.Fatalf("Load(strmod.oxn) = %v", err)
	}
	return c, value.FromObject(sc)
}

func export(t *testing.T, c *ox.Context, sc value.Value, name string) value.Value {
	t.Helper()
	fn, ok := c.Lookup(sc, c.Key(name))
	if !ok {
		t.Fatalf("strmod exports no %q", name)
	}
	return fn
}

func TestLenCountsRunesNotBytes(t *testing.T) {
	c, sc := newModule(t)
	got, err := c.CallValue(export(t, c, sc, "len"), value.Nil, []value.Value{c.NewString("héllo")})
	if err != nil {
		t.Fatalf("len() = %v", err)
	}
	if got.NumberVal() != 5 {
		t.Fatalf("len(\"héllo\") = %v, want 5", got.NumberVal())
	}
}

func TestUpperLowerTrim(t *testing.T) {
	c, sc := newModule(t)
	cases := []struct {
		name, in, want string
	}{
		{"upper", "shout", "SHOUT"},
		{"lower", "SHOUT", "shout"},
		{"trim", "  pad  ", "pad"},
	}
	for _, tc := range cases {
		got, err := c.CallValue(export(t, c, sc, tc.name), value.Nil, []value.Value{c.NewString(tc.in)})
		if err != nil {
			t.Fatalf("%s() = %v", tc.name, err)
		}
		if s, ok := ox.AsString(got); !ok || s != tc.want {
			t.Errorf("%s(%q) = %q, want %q", tc.name, tc.in, s, tc.want)
		}
	}
}

func TestContainsAndIndexOf(t *testing.T) {
	c, sc := newModule(t)
	got, err := c.CallValue(export(t, c, sc, "contains"), value.Nil, []value.Value{c.NewString("haystack"), c.NewString("stack")})
	if err != nil || !got.Bool() {
		t.Fatalf("contains() = (%v, %v), want true", got, err)
	}
	idx, err := c.CallValue(export(t, c, sc, "indexOf"), value.Nil, []value.Value{c.NewString("haystack"), c.NewString("stack")})
	if err != nil || idx.NumberVal() != 3 {
		t.Fatalf("indexOf() = (%v, %v), want 3", idx, err)
	}
}

func TestSplitProducesAnArray(t *testing.T) {
	c, sc := newModule(t)
	got, err := c.CallValue(export(t, c, sc, "split"), value.Nil, []value.Value{c.NewString("a,b,c"), c.NewString(",")})
	if err != nil {
		t.Fatalf("split() = %v", err)
	}
	names := c.Names(got)
	if len(names) != 3 {
		t.Fatalf("split(\"a,b,c\", \",\") produced %d elements, want 3", len(names))
	}
}

func TestReplaceAllOccurrences(t *testing.T) {
	c, sc := newModule(t)
	got, err := c.CallValue(export(t, c, sc, "replace"), value.Nil, []value.Value{
		c.NewString("a-b-c"), c.NewString("-"), c.NewString("_"),
	})
	if err != nil {
		t.Fatalf("replace() = %v", err)
	}
	if s, ok := ox.AsString(got); !ok || s != "a_b_c" {
		t.Fatalf("replace() = %q, want a_b_c", s)
	}
}

func TestExpandRejectsNonArraySecondArgument(t *testing.T) {
	c, sc := newModule(t)
	_, err := c.CallValue(export(t, c, sc, "expand"), value.Nil, []value.Value{
		c.NewString("$1"), c.NewString("not an array"),
	})
	if err == nil {
		t.Fatal("expand() with a non-array groups argument should error")
	}
}

func TestExpandWithArrayGroups(t *testing.T) {
	c, sc := newModule(t)
	groups := c.NewArray(c.NewString("whole"), c.NewString("one"))
	got, err := c.CallValue(export(t, c, sc, "expand"), value.Nil, []value.Value{
		c.NewString("[$1]"), groups,
	})
	if err != nil {
		t.Fatalf("expand() = %v", err)
	}
	if s, ok := ox.AsString(got); !ok || s != "[one]" {
		t.Fatalf("expand(\"[$1]\") = %q, want [one]", s)
	}
}

func TestMissingArgumentRaisesTypeError(t *testing.T) {
	c, sc := newModule(t)
	_, err := c.CallValue(export(t, c, sc, "len"), value.Nil, nil)
	if err == nil {
		t.Fatal("len() with no arguments should error")
	}
}
