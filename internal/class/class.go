// Package class implements class/interface construction (§4.6): building a
// class object, multiple inheritance with parent-first insertion order and
// child-override-wins semantics, the primitive-class call dispatch used by
// Bool/Number/String/Function coercion, and enum/bitfield "views". Grounded
// on original_source/src/lib/ox_class.c and ox_enum.c.
package class

import (
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// AllocFunc builds a new instance of a class, given the constructor
// arguments. Builtin primitive classes (Bool/Number/String) install a
// coercion AllocFunc that returns an existing scalar wrapped appropriately
// instead of allocating a new object; user classes get the generic
// alloc+$init AllocFunc installed by NewClass/NewNamedClass.
type AllocFunc func(ctx function.Context, cls *Class, args []value.Value) (value.Value, error)

// hook wraps an AllocFunc behind a pointer so two inherited hooks can be
// compared by identity (Go func values aren't comparable with ==, but the
// conflict rule in Inherit needs to tell "the same hook, reached through a
// diamond" from "two different native hooks").
type hook struct {
	fn AllocFunc
}

func newHook(fn AllocFunc) *hook { return &hook{fn: fn} }

var genericHook = newHook(genericAlloc)

// Class is the heap kind backing both classes and interfaces (§4.6: an
// interface is simply a class with no alloc hook of its own, used purely
// through Inherit or as an instance's direct $inf).
type Class struct {
	object.Object
	name    string
	alloc   *hook
	parents []*Class
}

// New returns an anonymous class with the generic alloc+$init constructor.
func New() *Class {
	c := &Class{Object: *object.NewObject()}
	c.Retag(value.KClass)
	c.alloc = genericHook
	return c
}

// NewNamed returns a class named name (both for Go-level diagnostics and,
// via nameValue, as the script-visible $name property).
func NewNamed(name string, nameValue value.Value) *Class {
	c := New()
	c.name = name
	c.DefineConst(object.KeyName, nameValue)
	return c
}

// NewPrimitive returns a class whose constructor call is a coercion rather
// than an allocation — the Bool/Number/String/Function builtin classes.
func NewPrimitive(name string, nameValue value.Value, alloc AllocFunc) *Class {
	c := NewNamed(name, nameValue)
	c.alloc = newHook(alloc)
	return c
}

// Name returns the class's Go-level name (for errors, debug dumps).
func (c *Class) Name() string { return c.name }

// SetAllocHook overrides the constructor dispatch; used for native classes
// whose instances carry Go-level private state (proxies, ctype wrappers).
func (c *Class) SetAllocHook(fn AllocFunc) { c.alloc = newHook(fn) }

// Parents returns the classes directly merged into c via Inherit, in the
// order they were merged.
func (c *Class) Parents() []*Class { return c.parents }

// genericAlloc is the default constructor: allocate a plain object whose
// $inf is the class, whose $class is the class, and whose $init (if the
// class or one of its parents defines it) is called with the constructor
// arguments.
func genericAlloc(ctx function.Context, cls *Class, args []value.Value) (value.Value, error) {
	inst := object.NewObject()
	instVal := value.FromObject(inst)
	inst.SetInterface(value.FromObject(cls))
	inst.DefineConst(object.KeyClass, value.FromObject(cls))
	if initFn, ok := cls.lookupInit(); ok {
		if _, err := function.Invoke(ctx, initFn, instVal, args, nil); err != nil {
			return value.Nil, err
		}
	}
	return instVal, nil
}

// lookupInit walks c and its parents' $inf-independent own tables (not
// through the generic object.Get $inf walk, since the class itself *is*
// the $inf target) looking for "$init".
func (c *Class) lookupInit() (value.Value, bool) {
	if p, ok := c.RawProperty("$init"); ok {
		return p.Value, true
	}
	for _, p := range c.parents {
		if v, ok := p.lookupInit(); ok {
			return v, true
		}
	}
	return value.Nil, false
}

// Scan marks everything the embedded Object reaches plus every parent
// merged in via Inherit — parents are held as a raw Go slice, not through
// the property table, so the generic object.Object.Scan wouldn't otherwise
// see them.
func (c *Class) Scan(mark func(value.Value)) {
	c.Object.Scan(mark)
	for _, p := range c.parents {
		mark(value.FromObject(p))
	}
}

// Instantiate is the canonical "call a class as a constructor" path (§4.6),
// mirroring function.Invoke: it is not reached through object.Call because
// that op has no Context parameter.
func Instantiate(ctx function.Context, clsValue value.Value, args []value.Value) (value.Value, error) {
	cls, ok := clsValue.ObjectVal().(*Class)
	if !ok {
		return value.Nil, errNotAClass
	}
	if cls.alloc == nil {
		return value.Nil, errNotAClass
	}
	return cls.alloc.fn(ctx, cls, args)
}
