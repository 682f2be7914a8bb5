package object

import "github.com/gongke-cn/ox/internal/value"

// PrimitiveInterfaces maps the non-heap value.Kinds (Bool, Number) to the
// interface object consulted on property access — e.g. `(3).double()`
// dispatches through PrimitiveInterfaces[value.Number]. internal/ox
// populates this registry during VM bootstrap (§4.6); it is empty (and
// property access on primitives is simply a miss) until then, which keeps
// object free of any bootstrap-ordering dependency on class.
var PrimitiveInterfaces = map[value.Kind]value.Value{}

func protocolOf(v value.Value) (Protocol, bool) {
	if !v.IsHeap() {
		return nil, false
	}
	p, ok := v.ObjectVal().(Protocol)
	return p, ok
}

// Lookup is the raw own-property read of §4.4: no accessor invocation, no
// $inf walk. A miss (including on a non-heap receiver) reports found=false.
func Lookup(v value.Value, key value.Value) (value.Value, bool) {
	p, ok := protocolOf(v)
	if !ok {
		return value.Nil, false
	}
	return p.OwnLookup(key)
}

// Get implements §4.4's get op: own property (invoking accessors) first,
// then a walk up the $inf chain; primitives are redirected to their
// registered interface object first. A cycle in the $inf chain is broken
// silently (found=false) rather than looping forever.
func Get(v value.Value, key value.Value) (value.Value, bool, error) {
	cur := v
	if !v.IsHeap() {
		inf, ok := PrimitiveInterfaces[v.Kind()]
		if !ok {
			return value.Nil, false, nil
		}
		cur = inf
	}
	visited := map[value.Object]bool{}
	for {
		p, ok := protocolOf(cur)
		if !ok {
			return value.Nil, false, nil
		}
		obj := cur.ObjectVal()
		if visited[obj] {
			return value.Nil, false, nil
		}
		visited[obj] = true
		val, found, err := p.OwnGet(key)
		if err != nil {
			return value.Nil, false, err
		}
		if found {
			return val, true, nil
		}
		next := p.Interface()
		if next.IsNull() {
			return value.Nil, false, nil
		}
		cur = next
	}
}

// Set implements §4.4's set op. Precedence (const/accessor-without-setter
// reject, var overwrites, accessor-with-setter calls it, unknown key
// creates a new var property) is entirely an own-object decision — setting
// a name that only exists up the $inf chain always creates a fresh own
// property, matching prototype-style shadowing rather than erroring.
func Set(v value.Value, key, val value.Value) error {
	p, ok := protocolOf(v)
	if !ok {
		return errNotCallable()
	}
	return p.OwnSet(key, val)
}

// Del implements §4.4's del op: own property only, silent miss.
func Del(v value.Value, key value.Value) {
	if p, ok := protocolOf(v); ok {
		p.OwnDel(key)
	}
}

// Call implements §4.4's call op. A non-callable heap object (no $call
// property) yields its receiver unchanged, per the embedder convention
// recorded in DESIGN.md; this, rather than TypeError, is what lets plain
// data objects pass through the `value(...)` call syntax used by class
// construction sugar.
func Call(v value.Value, this value.Value, args []value.Value) (value.Value, bool, error) {
	p, ok := protocolOf(v)
	if !ok {
		return value.Nil, false, errNotCallable()
	}
	result, handled, err := p.OwnCall(this, args)
	if err != nil {
		return value.Nil, false, err
	}
	if !handled {
		return v, true, nil
	}
	return result, true, nil
}

// Names returns v's own enumerable key names in insertion order, or nil for
// a non-object / callable-$keys receiver (callers wanting the $keys
// override must invoke it through Call themselves, since invoking it here
// would require threading a VM context through a package that has none).
func Names(v value.Value) []string {
	switch o := v.ObjectVal().(type) {
	case *Object:
		return o.EnumerableNames()
	case *Array:
		return o.EnumerableNames()
	default:
		return nil
	}
}

// KeysHook returns v's custom $keys function and true if one is set, so
// callers (internal/ox's eval loop) can invoke it via Call instead of the
// default enumeration. This goes through a reserved-name accessor rather
// than Protocol.OwnGet because $keys is compared as a plain Go string, not
// a singleton-string Value — reserved names never need interning.
func KeysHook(v value.Value) (value.Value, bool) {
	switch o := v.ObjectVal().(type) {
	case *Object:
		return o.reservedGet(keyKeys)
	case *Array:
		return o.reservedGet(keyKeys)
	default:
		return value.Nil, false
	}
}
