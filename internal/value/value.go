// Package value implements the tagged Value variant of §3: null, bool,
// number (IEEE-754 double, NaN/±Inf valid) and heap(ptr). It deliberately
// is not a bare Go interface{} — the Value struct keeps bool/number/null
// unboxed so scalar traffic through the value stack never allocates.
package value

import "math"

// Kind discriminates the four top-level cases of §3 Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	Heap
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Heap:
		return "heap"
	default:
		return "unknown"
	}
}

// HeapKind tags the concrete kind of a heap object (§3 Heap object kinds).
type HeapKind uint8

const (
	KObject HeapKind = iota
	KArray
	KString
	KSingletonString
	KClass
	KFunction
	KNativeFunction
	KScript
	KBytecodeScript
	KNativeScript
	KInput
	KEnum
	KCType
	KCValue
	KProxy
)

var heapKindNames = [...]string{
	KObject: "object", KArray: "array", KString: "string",
	KSingletonString: "singleton-string", KClass: "class",
	KFunction: "function", KNativeFunction: "native-function",
	KScript: "script", KBytecodeScript: "bytecode-script",
	KNativeScript: "native-script", KInput: "input", KEnum: "enum",
	KCType: "ctype", KCValue: "cvalue", KProxy: "proxy",
}

func (k HeapKind) String() string {
	if int(k) < len(heapKindNames) {
		return heapKindNames[k]
	}
	return "unknown"
}

// Object is the interface every heap object kind satisfies. It is kept
// minimal on purpose: Value must not import package object (which in turn
// depends on Value for property storage), so the dependency runs the other
// way — object.Header implements this interface.
type Object interface {
	HeapKind() HeapKind
}

// Value is the tagged variant of §3.
type Value struct {
	kind Kind
	b    bool
	num  float64
	obj  Object
}

// Nil is the null value.
var Nil = Value{kind: Null}

// FromBool wraps a bool.
func FromBool(b bool) Value { return Value{kind: Bool, b: b} }

// FromNumber wraps a float64. NaN and ±Inf are valid per §3.
func FromNumber(n float64) Value { return Value{kind: Number, num: n} }

// FromObject wraps a heap object reference.
func FromObject(o Object) Value {
	if o == nil {
		return Nil
	}
	return Value{kind: Heap, obj: o}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) IsBool() bool   { return v.kind == Bool }
func (v Value) IsNumber() bool { return v.kind == Number }
func (v Value) IsHeap() bool   { return v.kind == Heap }

// Bool returns the boolean payload; false for any non-bool Value.
func (v Value) Bool() bool {
	if v.kind != Bool {
		return false
	}
	return v.b
}

// NumberVal returns the numeric payload; 0 for any non-number Value.
func (v Value) NumberVal() float64 {
	if v.kind != Number {
		return 0
	}
	return v.num
}

// ObjectVal returns the heap payload; nil for any non-heap Value.
func (v Value) ObjectVal() Object {
	if v.kind != Heap {
		return nil
	}
	return v.obj
}

// HeapKind returns the concrete heap kind, valid only when IsHeap().
func (v Value) HeapKind() HeapKind {
	if v.kind != Heap || v.obj == nil {
		return 0
	}
	return v.obj.HeapKind()
}

// Is reports whether two heap references are the *same* Go object identity
// (§3: "Equality on heap(ptr) is pointer identity except for singleton
// strings where identity already implies content equality" — singleton
// strings already satisfy this by construction, see strs.Interner).
func (v Value) Is(other Value) bool {
	if v.kind != Heap || other.kind != Heap {
		return false
	}
	return v.obj == other.obj
}

// Truthy implements the boolean-context conversion used by control flow
// and logical operators: null and false are falsy, every number other than
// 0 and NaN is truthy, every heap reference is truthy. This is a runtime
// design decision (spec.md is silent on truthiness) recorded in DESIGN.md.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.b
	case Number:
		return v.num != 0 && !math.IsNaN(v.num)
	default:
		return true
	}
}

// IsIndex reports whether v is a non-negative integer representable as a
// size index — the canonical array/string index rule of §3.
func (v Value) IsIndex() (int, bool) {
	if v.kind != Number {
		return 0, false
	}
	if v.num < 0 || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return 0, false
	}
	if v.num != math.Trunc(v.num) {
		return 0, false
	}
	return int(v.num), true
}

// ToNumber coerces a value to a number. Every heap value, strings included,
// yields NaN, never an error (§8 boundary behaviour); parsing a string's
// text is strs.ToNumber's job (package strs imports this one).
func ToNumber(v Value) float64 {
	switch v.kind {
	case Number:
		return v.num
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Null:
		return 0
	default:
		return math.NaN()
	}
}
