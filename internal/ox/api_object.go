package ox

import (
	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// The object/array/string embedder API of §4.4, §4.9: allocate-and-track
// (every heap allocation must register with the collector, §4.3) plus the
// get/set/lookup/delete/enumerate/call surface, wrapping internal/object's
// package-level dispatch functions with the VM's error-raising convention.

// NewObject allocates a tracked, empty object.
func (c *Context) NewObject() value.Value {
	o := object.NewObject()
	c.vm.GC.Track(o)
	return value.FromObject(o)
}

// NewArray allocates a tracked array pre-populated with elems.
func (c *Context) NewArray(elems ...value.Value) value.Value {
	a := object.NewArrayFrom(elems)
	c.vm.GC.Track(a)
	return value.FromObject(a)
}

// Key interns name as a singleton-string Value suitable for use as a
// property key (§4.4 invariant a: only a singleton string may be a key).
func (c *Context) Key(name string) value.Value {
	return c.NewString(name)
}

// Get implements the get op (§4.4). A miss, including a plain scalar with
// no registered primitive interface, returns Nil with no error; an error
// from the property protocol (e.g. a failing getter) is raised via Throw.
func (c *Context) Get(v value.Value, key value.Value) (value.Value, error) {
	result, found, err := object.Get(v, key)
	if err != nil {
		return value.Nil, c.Throw(err)
	}
	if !found {
		return value.Nil, nil
	}
	return result, nil
}

// Set implements the set op (§4.4).
func (c *Context) Set(v, key, val value.Value) error {
	if err := object.Set(v, key, val); err != nil {
		return c.Throw(errtypes.NewAccessError(err.Error(), c.curFrame))
	}
	return nil
}

// Lookup implements the raw own-property read (§4.4: no accessor
// invocation, no $inf walk).
func (c *Context) Lookup(v, key value.Value) (value.Value, bool) {
	return object.Lookup(v, key)
}

// Delete implements the del op (§4.4): own property only, silent miss.
func (c *Context) Delete(v, key value.Value) {
	object.Del(v, key)
}

// Names returns v's own enumerable key names in insertion order.
func (c *Context) Names(v value.Value) []string {
	return object.Names(v)
}

// CallValue implements the call op (§4.4) through the Context so a native
// module can invoke an arbitrary callable Value (a function, a class
// constructor, a callable object) uniformly.
func (c *Context) CallValue(v, this value.Value, args []value.Value) (value.Value, error) {
	return c.Call(v, this, args)
}

// DefineConst/DefineVar/DefineAccessor install a property directly on an
// Object- or Array-backed Value, bypassing the generic Set precedence —
// used by native module bootstrap code building a fixed API surface.
func (c *Context) DefineConst(v value.Value, name string, val value.Value) {
	withObject(v, func(o *object.Object) { o.DefineConst(name, val) })
}

func (c *Context) DefineVar(v value.Value, name string, val value.Value) {
	withObject(v, func(o *object.Object) { o.DefineVar(name, val) })
}

func (c *Context) DefineAccessor(v value.Value, name string, getter, setter value.Value) {
	withObject(v, func(o *object.Object) { o.DefineAccessor(name, getter, setter) })
}

// withObject reaches the embedded *object.Object of a plain Object or
// Array value. Other heap kinds that embed object.Object (Class, Script,
// Error, Enum) promote DefineConst/DefineVar/DefineAccessor directly from
// their own Go type and don't need this indirection.
func withObject(v value.Value, fn func(*object.Object)) {
	switch o := v.ObjectVal().(type) {
	case *object.Object:
		fn(o)
	case *object.Array:
		fn(&o.Object)
	}
}
