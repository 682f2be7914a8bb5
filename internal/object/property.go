package object

import "github.com/gongke-cn/ox/internal/value"

// PropKind discriminates the three property flavours of §4.4: a const
// property cannot be re-set, a var property is a plain mutable slot, and an
// accessor property routes get/set through getter/setter functions.
type PropKind uint8

const (
	PropConst PropKind = iota
	PropVar
	PropAccessor
)

// Property is one entry of an Object's property table.
type Property struct {
	Kind   PropKind
	Value  value.Value // PropConst / PropVar payload
	Getter value.Value // PropAccessor; Nil means write-only
	Setter value.Value // PropAccessor; Nil means read-only
}

// keyer is satisfied by any heap object usable as a property key. Only a
// singleton string may be a key (§4.4 invariant a); object deliberately does
// not import package strs to avoid a cycle, so this interface is matched
// structurally by strs.String when it is the singleton variant.
type keyer interface {
	KeyBytes() []byte
}

// keyString extracts the map key for v, reporting false if v is not a
// singleton string.
func keyString(key value.Value) (string, bool) {
	if !key.IsHeap() || key.HeapKind() != value.KSingletonString {
		return "", false
	}
	k, ok := key.ObjectVal().(keyer)
	if !ok {
		return "", false
	}
	return string(k.KeyBytes()), true
}

// isHidden reports whether a key name uses the "#"-prefix hidden-key
// convention of §4.4: hidden keys are omitted from Keys() enumeration but
// participate normally in lookup/get/set/del.
func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '#'
}

// Reserved property names of §4.4, exported so other components (class,
// loader, errtypes) can install them without re-declaring the strings.
const (
	KeyInterface = "$inf"
	KeyClass     = "$class"
	KeyScope     = "$scope"
	KeyName      = "$name"
	KeyKeys      = "$keys"
	KeyCall      = "$call"
)

// keyCall/keyKeys keep the unexported spellings used internally by this
// file for table lookups.
const (
	keyKeys = KeyKeys
	keyCall = KeyCall
)
