package object

import "github.com/gongke-cn/ox/internal/value"

// Proxy serves property reads, accessor writes and calls from a template
// object, substituting `this` for the proxy itself on each call; deletes do
// nothing and it enumerates no keys of its own — §4.4's translation layer used to expose a Go
// native value (a ctype/cvalue, a database handle, ...) through the normal
// property protocol without allocating a full Object per instance.
// Grounded on ox_proxy.c's ox_proxy_new/ox_proxy_get_priv pairing of a
// shared template with per-instance private data.
type Proxy struct {
	Header
	template value.Value // object providing the property/method table
	priv     interface{} // native payload, opaque to the property system
}

// NewProxy returns a proxy over template carrying the given private data.
func NewProxy(template value.Value, priv interface{}) *Proxy {
	return &Proxy{Header: NewHeader(value.KProxy), template: template, priv: priv}
}

// Priv returns the proxy's native payload.
func (p *Proxy) Priv() interface{} { return p.priv }

// SetPriv replaces the proxy's native payload.
func (p *Proxy) SetPriv(v interface{}) { p.priv = v }

// Interface returns the proxy's template, i.e. proxies participate in $inf
// resolution exactly like an object whose $inf is the template.
func (p *Proxy) Interface() value.Value { return p.template }

// OwnLookup never matches on a proxy itself: all data lives behind the
// template's accessors (which receive the proxy as `this`), so a raw
// lookup — which never invokes accessors — has nothing to read directly.
func (p *Proxy) OwnLookup(value.Value) (value.Value, bool) { return value.Nil, false }

// OwnGet always misses locally so Get's $inf walk immediately consults the
// template, with `this` rebound via OwnGet's caller passing the proxy
// value itself into accessor calls (Object.OwnGet uses value.FromObject(o)
// as `this`, which for a template lookup is the *template*, not the proxy
// — proxies therefore override Get's accessor binding explicitly below).
func (p *Proxy) OwnGet(key value.Value) (value.Value, bool, error) {
	tp, ok := protocolOf(p.template)
	if !ok {
		return value.Nil, false, nil
	}
	obj, ok := tp.(*Object)
	if !ok {
		return tp.OwnGet(key)
	}
	name, ok := keyString(key)
	if !ok {
		return value.Nil, false, nil
	}
	prop, ok := obj.props[name]
	if !ok {
		return value.Nil, false, nil
	}
	switch prop.Kind {
	case PropConst, PropVar:
		return prop.Value, true, nil
	case PropAccessor:
		if prop.Getter.IsNull() {
			return value.Nil, true, nil
		}
		v, _, err := Call(prop.Getter, value.FromObject(p), nil)
		return v, true, err
	}
	return value.Nil, false, nil
}

// OwnSet mirrors OwnGet, rebinding `this` to the proxy when invoking a
// template accessor's setter.
func (p *Proxy) OwnSet(key, v value.Value) error {
	tp, ok := protocolOf(p.template)
	if !ok {
		return errNotCallable()
	}
	obj, ok := tp.(*Object)
	if !ok {
		return tp.OwnSet(key, v)
	}
	name, ok := keyString(key)
	if !ok {
		return errNotAKey
	}
	prop, ok := obj.props[name]
	if !ok {
		return errConstWrite(name)
	}
	switch prop.Kind {
	case PropAccessor:
		if prop.Setter.IsNull() {
			return errConstWrite(name)
		}
		_, _, err := Call(prop.Setter, value.FromObject(p), []value.Value{v})
		return err
	default:
		return errConstWrite(name)
	}
}

// OwnDel is a no-op: a proxy's visible shape is entirely the template's, and
// the template is shared across every instance.
func (p *Proxy) OwnDel(value.Value) {}

// OwnCall forwards to the template's $call, rebinding `this` to the proxy.
func (p *Proxy) OwnCall(_ value.Value, args []value.Value) (value.Value, bool, error) {
	return Call(p.template, value.FromObject(p), args)
}

// OwnKeys defers to the template's own enumeration.
func (p *Proxy) OwnKeys() (value.Value, bool) { return value.Nil, false }

// Scan keeps the template (and therefore every method/property it holds)
// alive for as long as any proxy instance referencing it survives.
func (p *Proxy) Scan(mark func(value.Value)) {
	mark(p.template)
}
