package ox

import (
	"github.com/gongke-cn/ox/internal/class"
	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/strs"
	"github.com/gongke-cn/ox/internal/value"
)

// bootstrap wires the package-level hooks internal/object and
// internal/errtypes expose for exactly this purpose (§4.6, §4.9): the
// primitive Bool/Number/String/Function interface classes and the nine
// built-in error classes, plus the collector's root list.
func (vm *VM) bootstrap() {
	vm.bootstrapPrimitives()
	vm.bootstrapErrorClasses()
	vm.registerRoots()
}

// bootstrapPrimitives installs the Bool/Number/String/Function coercion
// classes (§4.5: "calling a class dispatches to the fixed primitive
// coercions... or the generic alloc+$init path otherwise") and registers
// Bool and Number into object.PrimitiveInterfaces so a bare bool or
// number's property lookup (e.g. `(3).toString`) resolves through the
// right class.
func (vm *VM) bootstrapPrimitives() {
	boolClass := class.NewPrimitive("Bool", vm.textValue("Bool"), func(ctx function.Context, cls *class.Class, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.FromBool(false), nil
		}
		return value.FromBool(args[0].Truthy()), nil
	})
	numberClass := class.NewPrimitive("Number", vm.textValue("Number"), func(ctx function.Context, cls *class.Class, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.FromNumber(0), nil
		}
		return value.FromNumber(value.ToNumber(args[0])), nil
	})
	stringClass := class.NewPrimitive("String", vm.textValue("String"), func(ctx function.Context, cls *class.Class, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.FromObject(vm.Interner.InternString("")), nil
		}
		return value.FromObject(strs.New(renderForStringCoercion(args[0]))), nil
	})
	functionClass := class.NewPrimitive("Function", vm.textValue("Function"), func(ctx function.Context, cls *class.Class, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Nil, nil
		}
		return args[0], nil
	})

	vm.primitives = &primitiveClasses{
		boolClass: boolClass, numberClass: numberClass,
		stringClass: stringClass, functionClass: functionClass,
	}

	object.PrimitiveInterfaces[value.Bool] = value.FromObject(boolClass)
	object.PrimitiveInterfaces[value.Number] = value.FromObject(numberClass)

	vm.GC.Track(boolClass)
	vm.GC.Track(numberClass)
	vm.GC.Track(stringClass)
	vm.GC.Track(functionClass)

	vm.packages.DefineConst("Bool", value.FromObject(boolClass))
	vm.packages.DefineConst("Number", value.FromObject(numberClass))
	vm.packages.DefineConst("String", value.FromObject(stringClass))
	vm.packages.DefineConst("Function", value.FromObject(functionClass))
}

// renderForStringCoercion is the minimal `String(x)` conversion used by
// the primitive String class's alloc hook; a real template/format
// collaborator (out of scope, §1 Non-goals) would replace this.
func renderForStringCoercion(v value.Value) string {
	switch v.Kind() {
	case value.Null:
		return "null"
	case value.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case value.Number:
		return formatNumberValue(v.NumberVal())
	default:
		if s, ok := v.ObjectVal().(*strs.String); ok {
			return s.String()
		}
		return v.HeapKind().String()
	}
}

// bootstrapErrorClasses installs one named Class per errtypes.Kind (§4.8:
// "$class points at the real Error/TypeError/... class") and wires
// errtypes.ClassOf to look them up, so every thrown Error carries a
// meaningful $inf/$class rather than nothing.
func (vm *VM) bootstrapErrorClasses() {
	kinds := []errtypes.Kind{
		errtypes.KindError, errtypes.KindSystemError, errtypes.KindNoMemoryError,
		errtypes.KindNullError, errtypes.KindRangeError, errtypes.KindAccessError,
		errtypes.KindTypeError, errtypes.KindSyntaxError, errtypes.KindReferenceError,
	}
	for _, k := range kinds {
		name := k.String()
		cls := class.NewNamed(name, vm.textValue(name))
		vm.GC.Track(cls)
		vm.errClasses[k] = cls
		vm.packages.DefineConst(name, value.FromObject(cls))
	}
	errtypes.Interner = vm.Interner
	errtypes.ClassOf = func(k errtypes.Kind) (value.Value, bool) {
		cls, ok := vm.errClass(k)
		if !ok {
			return value.Nil, false
		}
		return value.FromObject(cls), true
	}
}

// textValue interns s through the VM's singleton-string table — used for
// every $name value installed during bootstrap.
func (vm *VM) textValue(s string) value.Value {
	return value.FromObject(vm.Interner.InternString(s))
}

// registerRoots wires the collector's root list to exactly the sources
// §4.3 names: the currently-running context's stack/frame-chain/pending
// error/current script (only one Context may be running while a
// collection happens, since collection requires the big lock), the
// package namespace, the script table, the singleton-string table and the
// global-refs table.
func (vm *VM) registerRoots() {
	vm.GC.AddRoot(func(mark func(value.Value)) {
		vm.holderMu.Lock()
		h := vm.holder
		vm.holderMu.Unlock()
		if h == nil {
			return
		}
		for _, v := range h.stack.Slots() {
			mark(v)
		}
		for fr := h.curFrame; fr != nil; fr = fr.Caller {
			fr.Scan(mark)
		}
		if h.pendingErr != nil {
			mark(value.FromObject(h.pendingErr))
		}
		if h.curScript != nil {
			mark(value.FromObject(h.curScript))
		}
	})
	vm.GC.AddRoot(func(mark func(value.Value)) {
		mark(value.FromObject(vm.packages))
	})
	vm.GC.AddRoot(func(mark func(value.Value)) {
		for _, sc := range vm.Loader.Scripts() {
			mark(value.FromObject(sc))
		}
	})
	vm.GC.AddRoot(func(mark func(value.Value)) {
		vm.Interner.Each(func(s *strs.String) {
			mark(value.FromObject(s))
		})
	})
	vm.GC.AddRoot(func(mark func(value.Value)) {
		for _, k := range vm.globalRefs.Keys() {
			if v, ok := vm.globalRefs.Get(k); ok {
				mark(v)
			}
		}
	})
}
