// Package strmod is the "strmod" native module (§4.1 Domain stack):
// exposes internal/strs's String operations (len/slice/concat/
// expandPattern) plus the stdlib strings helpers the pack's own stdlib
// modules reach for (upper/lower/split/replace/contains/indexOf) as script-
// callable functions. The core String operations are grounded directly on
// internal/strs (this repository's own C3 package, §4.5); the remaining
// case/search helpers have no third-party equivalent anywhere in the
// example pack, so they build on the stdlib strings package (justified in
// DESIGN.md).
package strmod

import (
	"strings"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/strs"
	"github.com/gongke-cn/ox/internal/value"
)

// Register installs the "strmod" module under vm.
func Register(vm *ox.VM) {
	vm.RegisterNativeModule("strmod", load, exec)
}

func load(c *ox.Context, sc *loader.Script) error { return nil }

func exec(c *ox.Context, sc *loader.Script) error {
	sc.Export("len", c.NativeMethod("len", 1, lenFunc))
	sc.Export("slice", c.NativeMethod("slice", 3, sliceFunc(c)))
	sc.Export("concat", c.NativeMethod("concat", 2, concatFunc(c)))
	sc.Export("expand", c.NativeMethod("expand", 2, expandFunc(c)))
	sc.Export("upper", stringMap(c, "upper", strings.ToUpper))
	sc.Export("lower", stringMap(c, "lower", strings.ToLower))
	sc.Export("trim", stringMap(c, "trim", strings.TrimSpace))
	sc.Export("contains", c.NativeMethod("contains", 2, containsFunc))
	sc.Export("indexOf", c.NativeMethod("indexOf", 2, indexOfFunc))
	sc.Export("split", c.NativeMethod("split", 2, splitFunc(c)))
	sc.Export("replace", c.NativeMethod("replace", 3, replaceFunc(c)))
	return nil
}

func lenFunc(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	s, err := requireString(fnCtx, "len", args, 0)
	if err != nil {
		return value.Nil, err
	}
	return value.FromNumber(float64(len([]rune(s)))), nil
}

func sliceFunc(c *ox.Context) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		text, err := requireString(fnCtx, "slice", args, 0)
		if err != nil {
			return value.Nil, err
		}
		from, err := requireNumber(fnCtx, "slice", args, 1)
		if err != nil {
			return value.Nil, err
		}
		to, err := requireNumber(fnCtx, "slice", args, 2)
		if err != nil {
			return value.Nil, err
		}
		src := strs.New(text)
		sliced := src.Slice(int(from), int(to))
		return c.NewString(sliced.String()), nil
	}
}

func concatFunc(c *ox.Context) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		a, err := requireString(fnCtx, "concat", args, 0)
		if err != nil {
			return value.Nil, err
		}
		b, err := requireString(fnCtx, "concat", args, 1)
		if err != nil {
			return value.Nil, err
		}
		joined := strs.New(a).Concat(strs.New(b))
		return c.NewString(joined.String()), nil
	}
}

// expandFunc implements $-pattern replacement against capture groups
// (internal/strs.ExpandPattern, §9's "$10 two-digit lookahead" decision),
// exposed so script-level regex-flavoured replace can use it directly.
func expandFunc(c *ox.Context) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		pattern, err := requireString(fnCtx, "expand", args, 0)
		if err != nil {
			return value.Nil, err
		}
		var groups []string
		if len(args) > 1 {
			arr, ok := args[1].ObjectVal().(interface{ Elems() []value.Value })
			if !ok {
				return value.Nil, fnCtx.Throw(errtypes.NewTypeError("expand: second argument must be an array", nil))
			}
			for _, g := range arr.Elems() {
				s, _ := ox.AsString(g)
				groups = append(groups, s)
			}
		}
		expanded, experr := strs.ExpandPattern(pattern, groups)
		if experr != nil {
			return value.Nil, fnCtx.Throw(errtypes.NewSyntaxError(experr.Error(), nil))
		}
		return c.NewString(expanded), nil
	}
}

func stringMap(c *ox.Context, name string, fn func(string) string) value.Value {
	return c.NativeMethod(name, 1, func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		s, err := requireString(fnCtx, name, args, 0)
		if err != nil {
			return value.Nil, err
		}
		return c.NewString(fn(s)), nil
	})
}

func containsFunc(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	s, err := requireString(fnCtx, "contains", args, 0)
	if err != nil {
		return value.Nil, err
	}
	sub, err := requireString(fnCtx, "contains", args, 1)
	if err != nil {
		return value.Nil, err
	}
	return value.FromBool(strings.Contains(s, sub)), nil
}

func indexOfFunc(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	s, err := requireString(fnCtx, "indexOf", args, 0)
	if err != nil {
		return value.Nil, err
	}
	sub, err := requireString(fnCtx, "indexOf", args, 1)
	if err != nil {
		return value.Nil, err
	}
	return value.FromNumber(float64(strings.Index(s, sub))), nil
}

func splitFunc(c *ox.Context) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		s, err := requireString(fnCtx, "split", args, 0)
		if err != nil {
			return value.Nil, err
		}
		sep, err := requireString(fnCtx, "split", args, 1)
		if err != nil {
			return value.Nil, err
		}
		parts := strings.Split(s, sep)
		vals := make([]value.Value, len(parts))
		for i, p := range parts {
			vals[i] = c.NewString(p)
		}
		return c.NewArray(vals...), nil
	}
}

func replaceFunc(c *ox.Context) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		s, err := requireString(fnCtx, "replace", args, 0)
		if err != nil {
			return value.Nil, err
		}
		old, err := requireString(fnCtx, "replace", args, 1)
		if err != nil {
			return value.Nil, err
		}
		repl, err := requireString(fnCtx, "replace", args, 2)
		if err != nil {
			return value.Nil, err
		}
		return c.NewString(strings.ReplaceAll(s, old, repl)), nil
	}
}

func requireString(fnCtx function.Context, name string, args []value.Value, idx int) (string, error) {
	if idx >= len(args) {
		return "", fnCtx.Throw(errtypes.NewTypeError(name+": missing string argument", nil))
	}
	s, ok := ox.AsString(args[idx])
	if !ok {
		return "", fnCtx.Throw(errtypes.NewTypeError(name+": expected a string argument", nil))
	}
	return s, nil
}

func requireNumber(fnCtx function.Context, name string, args []value.Value, idx int) (float64, error) {
	if idx >= len(args) || args[idx].Kind() != value.Number {
		return 0, fnCtx.Throw(errtypes.NewTypeError(name+": expected a number argument", nil))
	}
	return args[idx].NumberVal(), nil
}
