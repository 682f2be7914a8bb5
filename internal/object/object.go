package object

import (
	"github.com/gongke-cn/ox/internal/arena"
	"github.com/gongke-cn/ox/internal/value"
)

// Protocol is the op table of §4.4 expressed as a Go interface rather than a
// C vtable: a heap kind implements the subset of operations it overrides and
// embeds Object (or Array, or Proxy) for the rest. The dispatch functions in
// dispatch.go (Get/Set/Del/Lookup/Names/Call) are the single entry point every caller
// (native code, the interpreter, other packages) uses instead of type
// switching on value.Value themselves.
type Protocol interface {
	value.Object
	OwnKeys() (value.Value, bool)
	OwnLookup(key value.Value) (value.Value, bool)
	OwnGet(key value.Value) (value.Value, bool, error)
	OwnSet(key, v value.Value) error
	OwnDel(key value.Value)
	OwnCall(this value.Value, args []value.Value) (value.Value, bool, error)
	Interface() value.Value
}

// Scanner is implemented by heap kinds that hold references to other heap
// objects; the collector (§4.3) calls Scan during mark to walk them.
type Scanner interface {
	Scan(mark func(value.Value))
}

// Object is the generic object kind (§4.4): an ordered property table plus
// an optional $inf link to a class or interface object consulted on a get
// miss. Array, Class and most other heap kinds embed Object and override
// only the operations that need kind-specific behaviour.
type Object struct {
	Header
	inf   value.Value
	order *arena.List[string]
	props map[string]*Property
}

// NewObject returns an empty object with no interface link.
func NewObject() *Object {
	return &Object{
		Header: NewHeader(value.KObject),
		order:  arena.NewList[string](),
		props:  make(map[string]*Property),
	}
}

// NewObjectKind returns an empty object tagged with a different heap kind;
// used by packages (class, function, loader, errtypes...) that want the
// generic property table but a distinct HeapKind for GC/debug purposes.
func NewObjectKind(kind value.HeapKind) *Object {
	o := NewObject()
	o.kind = kind
	return o
}

// SetInterface installs o's $inf link.
func (o *Object) SetInterface(inf value.Value) { o.inf = inf }

// Interface returns o's $inf link (Nil if none).
func (o *Object) Interface() value.Value { return o.inf }

// put installs or replaces a property without touching order unless it's a
// brand new key.
func (o *Object) put(name string, p *Property) {
	if _, exists := o.props[name]; !exists {
		o.order.PushBack(name)
	}
	o.props[name] = p
}

// DefineConst installs a const property, grounded on ox_object_add_prop's
// read-only variant.
func (o *Object) DefineConst(name string, v value.Value) {
	o.put(name, &Property{Kind: PropConst, Value: v})
}

// DefineVar installs a mutable var property.
func (o *Object) DefineVar(name string, v value.Value) {
	o.put(name, &Property{Kind: PropVar, Value: v})
}

// DefineAccessor installs an accessor property (ox_object_add_n_accessor).
func (o *Object) DefineAccessor(name string, getter, setter value.Value) {
	o.put(name, &Property{Kind: PropAccessor, Getter: getter, Setter: setter})
}

// SetKeysHook installs a custom $keys implementation, consulted by
// object.KeysHook instead of the default enumeration.
func (o *Object) SetKeysHook(fn value.Value) {
	o.DefineConst(keyKeys, fn)
}

// OwnKeys always defers to the default enumeration; a $keys override is
// detected and invoked by the dispatcher (object.KeysHook), not here, since
// invoking it requires a calling convention the receiver doesn't have.
func (o *Object) OwnKeys() (value.Value, bool) {
	return value.Nil, false
}

// EnumerableNames returns the ordered, non-hidden key names — the default
// enumeration used when no $keys override is present.
func (o *Object) EnumerableNames() []string {
	var names []string
	for _, name := range o.order.Items() {
		if isHidden(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// OwnLookup returns the raw value bound to key, ignoring accessors (used by
// §4.4's distinct "lookup" op, which never invokes getters and never
// consults $inf).
func (o *Object) OwnLookup(key value.Value) (value.Value, bool) {
	name, ok := keyString(key)
	if !ok {
		return value.Nil, false
	}
	p, ok := o.props[name]
	if !ok {
		return value.Nil, false
	}
	switch p.Kind {
	case PropAccessor:
		return value.Nil, true
	default:
		return p.Value, true
	}
}

// OwnGet returns the value bound to key on this object only, consulting
// accessors; (Nil, false, nil) signals a miss that should fall through to
// $inf.
func (o *Object) OwnGet(key value.Value) (value.Value, bool, error) {
	name, ok := keyString(key)
	if !ok {
		return value.Nil, false, nil
	}
	p, ok := o.props[name]
	if !ok {
		return value.Nil, false, nil
	}
	switch p.Kind {
	case PropConst, PropVar:
		return p.Value, true, nil
	case PropAccessor:
		if p.Getter.IsNull() {
			return value.Nil, true, nil
		}
		v, _, err := Call(p.Getter, value.FromObject(o), nil)
		return v, true, err
	}
	return value.Nil, false, nil
}

// OwnSet implements §4.4's set op precedence: const and getter-only
// accessor properties reject the write; var properties overwrite in place;
// accessor properties with a setter call it; an unknown key creates a new
// var property appended at the end of the order list.
func (o *Object) OwnSet(key, v value.Value) error {
	name, ok := keyString(key)
	if !ok {
		return errNotAKey
	}
	p, exists := o.props[name]
	if !exists {
		o.DefineVar(name, v)
		return nil
	}
	switch p.Kind {
	case PropConst:
		return errConstWrite(name)
	case PropVar:
		p.Value = v
		return nil
	case PropAccessor:
		if p.Setter.IsNull() {
			return errConstWrite(name)
		}
		_, _, err := Call(p.Setter, value.FromObject(o), []value.Value{v})
		return err
	}
	return nil
}

// OwnDel removes a property if present, re-inserting nothing — per §4.4,
// deleting then re-adding a key moves it to the end because DefineVar/put
// appends again.
func (o *Object) OwnDel(key value.Value) {
	name, ok := keyString(key)
	if !ok {
		return
	}
	if _, exists := o.props[name]; !exists {
		return
	}
	delete(o.props, name)
	o.order.Remove(func(n string) bool { return n == name })
}

// OwnCall invokes this object's $call property if set, matching callable
// plain objects (§4.4). (Nil, false, nil) tells the dispatcher to return o
// unchanged, per the embedder-API "call of a non-callable is a no-op that
// yields the receiver" rule recorded in DESIGN.md.
func (o *Object) OwnCall(this value.Value, args []value.Value) (value.Value, bool, error) {
	p, exists := o.props[keyCall]
	if !exists {
		return value.Nil, false, nil
	}
	if p.Kind == PropAccessor {
		return value.Nil, false, nil
	}
	v, _, err := Call(p.Value, this, args)
	return v, true, err
}

// OwnNames returns every own property name in insertion order, including
// hidden ("#"-prefixed) ones — used by internal/class when copying a
// parent's members into a child during Inherit, which must carry hidden
// members along too.
func (o *Object) OwnNames() []string {
	return append([]string(nil), o.order.Items()...)
}

// RawProperty returns the Property stored under name without going through
// the Value-keyed protocol, and whether it exists — used by internal/class
// to read a parent's members for copying during Inherit.
func (o *Object) RawProperty(name string) (Property, bool) {
	p, ok := o.props[name]
	if !ok {
		return Property{}, false
	}
	return *p, true
}

// HasOwn reports whether name is already defined directly on o — used by
// internal/class's "child override wins" rule during Inherit.
func (o *Object) HasOwn(name string) bool {
	_, ok := o.props[name]
	return ok
}

// DefineRaw installs a copy of p under name, used by internal/class to copy
// a parent's property into a child class during Inherit.
func (o *Object) DefineRaw(name string, p Property) {
	cp := p
	o.put(name, &cp)
}

// reservedGet reads a reserved property ($keys, $call, ...) by its plain Go
// name, bypassing the singleton-string key requirement of the public
// Protocol.OwnGet.
func (o *Object) reservedGet(name string) (value.Value, bool) {
	p, ok := o.props[name]
	if !ok || p.Kind == PropAccessor {
		return value.Nil, false
	}
	if p.Value.IsNull() {
		return value.Nil, false
	}
	return p.Value, true
}

// Scan walks every value reachable from o's property table and its $inf
// link, marking them live (§4.3).
func (o *Object) Scan(mark func(value.Value)) {
	if !o.inf.IsNull() {
		mark(o.inf)
	}
	for _, name := range o.order.Items() {
		p := o.props[name]
		switch p.Kind {
		case PropConst, PropVar:
			mark(p.Value)
		case PropAccessor:
			mark(p.Getter)
			mark(p.Setter)
		}
	}
}
