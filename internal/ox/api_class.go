package ox

import (
	"github.com/gongke-cn/ox/internal/class"
	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/value"
)

// The class/interface/enum embedder API of §4.6, §4.9.

// NewClass allocates a tracked, named class with the generic alloc+$init
// constructor.
func (c *Context) NewClass(name string) *class.Class {
	cls := class.NewNamed(name, c.textValue(name))
	c.vm.GC.Track(cls)
	return cls
}

// NewNativeClass allocates a tracked class whose constructor is a custom
// AllocFunc instead of the generic alloc+$init path — used by a native
// module wrapping Go-level state behind a class (e.g. the db module's
// Connection class, backed by a Proxy over a *sql.DB).
func (c *Context) NewNativeClass(name string, alloc class.AllocFunc) *class.Class {
	cls := class.NewPrimitive(name, c.textValue(name), alloc)
	c.vm.GC.Track(cls)
	return cls
}

// Inherit merges parents into cls (§4.6), wrapping the Go-level conflict
// error into a catchable TypeError.
func (c *Context) Inherit(cls *class.Class, parents ...*class.Class) error {
	if err := cls.Inherit(parents...); err != nil {
		return c.Throw(errtypes.NewTypeError(err.Error(), c.curFrame))
	}
	return nil
}

// Instantiate calls cls as a constructor (§4.6).
func (c *Context) Instantiate(cls *class.Class, args []value.Value) (value.Value, error) {
	return class.Instantiate(c, value.FromObject(cls), args)
}

// NewEnum allocates a tracked plain enum (§4.6, grounded on ox_enum.c).
func (c *Context) NewEnum(name string, members []string) *class.Enum {
	e := class.NewEnum(name, c.textValue(name), members)
	c.vm.GC.Track(e)
	return e
}

// NewBitfield allocates a tracked bitfield enum.
func (c *Context) NewBitfield(name string, members []string) (*class.Enum, error) {
	e, err := class.NewBitfield(name, c.textValue(name), members)
	if err != nil {
		return nil, c.Throw(errtypes.NewRangeError(err.Error(), c.curFrame))
	}
	c.vm.GC.Track(e)
	return e, nil
}

// NativeMethod wraps a Go function as a tracked native Function value,
// ready to install as a class method or object property — the embedder
// API's native-function binding (§4.6, §6's "native function" row).
func (c *Context) NativeMethod(name string, arity int, fn function.NativeFunc) value.Value {
	f := function.NewNative(name, arity, fn)
	c.vm.GC.Track(f)
	return value.FromObject(f)
}

// NewScriptFunction wraps a code payload (e.g. a *bytecode.Chunk) as a
// tracked script Function running under interp, used by a CompileFunc
// populating a Script's entry/members. numSlots is the descriptor's
// declared local-slot count (§4.7); it must cover at least arity.
func (c *Context) NewScriptFunction(name string, arity, numUpvalues, numSlots int, interp function.Interpreter, code interface{}) value.Value {
	f := function.NewScript(name, arity, numUpvalues, numSlots, interp, code)
	c.vm.GC.Track(f)
	return value.FromObject(f)
}

// ErrorClass returns the built-in class object for kind (§4.8/§4.6's
// "$class points at the real Error/TypeError/... class").
func (c *Context) ErrorClass(kind errtypes.Kind) (*class.Class, bool) {
	return c.vm.errClass(kind)
}
