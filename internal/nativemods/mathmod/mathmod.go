// Package mathmod is the "math" native module (§4.1 Domain stack):
// floor/ceil/round/abs/sqrt/pow/min/max/random over ox Number values.
// Grounded on the teacher's internal/stdlib math wrappers (same one
// function per Go stdlib math function shape); no example repo in the pack
// wires a third-party numerics library for this, so it builds directly on
// Go's math package (justified in DESIGN.md).
package mathmod

import (
	"math"
	"math/rand"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/value"
)

// Register installs the "mathmod" module under vm.
func Register(vm *ox.VM) {
	vm.RegisterNativeModule("mathmod", load, exec)
}

func load(c *ox.Context, sc *loader.Script) error { return nil }

func exec(c *ox.Context, sc *loader.Script) error {
	sc.Export("pi", value.FromNumber(math.Pi))
	sc.Export("floor", unary(c, "floor", math.Floor))
	sc.Export("ceil", unary(c, "ceil", math.Ceil))
	sc.Export("round", unary(c, "round", math.Round))
	sc.Export("sqrt", unary(c, "sqrt", math.Sqrt))
	sc.Export("abs", unary(c, "abs", math.Abs))
	sc.Export("pow", binary(c, "pow", math.Pow))
	sc.Export("min", binary(c, "min", math.Min))
	sc.Export("max", binary(c, "max", math.Max))
	sc.Export("random", c.NativeMethod("random", 0, randomFunc))
	return nil
}

func unary(c *ox.Context, name string, fn func(float64) float64) value.Value {
	return c.NativeMethod(name, 1, func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		n, err := requireNumber(fnCtx, name, args, 0)
		if err != nil {
			return value.Nil, err
		}
		return value.FromNumber(fn(n)), nil
	})
}

func binary(c *ox.Context, name string, fn func(a, b float64) float64) value.Value {
	return c.NativeMethod(name, 2, func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		a, err := requireNumber(fnCtx, name, args, 0)
		if err != nil {
			return value.Nil, err
		}
		b, err := requireNumber(fnCtx, name, args, 1)
		if err != nil {
			return value.Nil, err
		}
		return value.FromNumber(fn(a, b)), nil
	})
}

func randomFunc(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	return value.FromNumber(rand.Float64()), nil
}

func requireNumber(fnCtx function.Context, name string, args []value.Value, idx int) (float64, error) {
	if idx >= len(args) || args[idx].Kind() != value.Number {
		return 0, fnCtx.Throw(errtypes.NewTypeError(name+": expected a number argument", nil))
	}
	return args[idx].NumberVal(), nil
}
