// Package interp is the minimal reference implementation of
// function.Interpreter: a straight-line, switch-dispatched stack machine
// over internal/bytecode.Chunk, grounded on the teacher's
// internal/vm.EnhancedVM.Run dispatch loop (one case per opcode, IP
// advanced inline) but trimmed to the handful of opcodes internal/bytecode
// actually defines. A real front end (lexer/parser/compiler) is out of
// scope for this repository (§1 Non-goals: "no bytecode opcode
// semantics"); this package exists so the core's call/frame/closure/error
// machinery (§4.6-§4.9) can be exercised end to end by this repo's own
// tests without an external compiler.
package interp

import (
	"github.com/gongke-cn/ox/internal/bytecode"
	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// Interp is a stateless function.Interpreter; all execution state lives on
// the pushed Frame and the Context's shared value stack, so one Interp
// instance is safely reused (and shared) across every script.Function in a
// VM.
type Interp struct{}

// New returns an Interp.
func New() *Interp { return &Interp{} }

// Run executes fr.Fn's Chunk to completion, per function.Interpreter.
// fr.IP is advanced in place as the program counter; a type mismatch in an
// arithmetic or comparison op raises a TypeError through ctx.Throw rather
// than panicking, matching §4.6/§4.9's "every operation returns Ok | Err".
func (in *Interp) Run(ctx function.Context, fr *function.Frame) (value.Value, error) {
	chunk, ok := fr.Fn.Code().(*bytecode.Chunk)
	if !ok {
		return value.Nil, ctx.Throw(errtypes.NewTypeError("function has no executable bytecode", fr))
	}
	stack := ctx.Stack()
	code := chunk.Code

	readByte := func() byte {
		b := code[fr.IP]
		fr.IP++
		return b
	}
	readU16 := func() int {
		n := int(chunk.ReadU16(fr.IP))
		fr.IP += 2
		return n
	}
	throw := func(kind func(string, *function.Frame) *errtypes.Error, msg string) (value.Value, error) {
		return value.Nil, ctx.Throw(kind(msg, fr))
	}

	for fr.IP < len(code) {
		op := bytecode.OpCode(readByte())
		switch op {
		case bytecode.OpConst:
			stack.Push(chunk.Constants[readU16()])

		case bytecode.OpNil:
			stack.Push(value.Nil)
		case bytecode.OpTrue:
			stack.Push(value.FromBool(true))
		case bytecode.OpFalse:
			stack.Push(value.FromBool(false))

		case bytecode.OpPop:
			stack.Pop()
		case bytecode.OpDup:
			stack.Push(stack.Peek(0))

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
			b, a := stack.Pop(), stack.Pop()
			res, err := arith(op, a, b)
			if err != nil {
				return throw(errtypes.NewTypeError, err.Error())
			}
			stack.Push(res)

		case bytecode.OpNegate:
			a := stack.Pop()
			if !a.IsNumber() {
				return throw(errtypes.NewTypeError, "negate: operand is not a number")
			}
			stack.Push(value.FromNumber(-a.NumberVal()))

		case bytecode.OpNot:
			a := stack.Pop()
			stack.Push(value.FromBool(!a.Truthy()))

		case bytecode.OpEqual:
			b, a := stack.Pop(), stack.Pop()
			stack.Push(value.FromBool(valuesEqual(a, b)))
		case bytecode.OpNotEqual:
			b, a := stack.Pop(), stack.Pop()
			stack.Push(value.FromBool(!valuesEqual(a, b)))

		case bytecode.OpGreater, bytecode.OpLess, bytecode.OpGreaterEqual, bytecode.OpLessEqual:
			b, a := stack.Pop(), stack.Pop()
			if !a.IsNumber() || !b.IsNumber() {
				return throw(errtypes.NewTypeError, "comparison operands must be numbers")
			}
			stack.Push(value.FromBool(compare(op, a.NumberVal(), b.NumberVal())))

		case bytecode.OpGetLocal:
			idx := readU16()
			if idx < 0 || idx >= len(fr.Slots) {
				return throw(errtypes.NewRangeError, "local slot out of range")
			}
			stack.Push(fr.Slots[idx])
		case bytecode.OpSetLocal:
			idx := readU16()
			if idx < 0 || idx >= len(fr.Slots) {
				return throw(errtypes.NewRangeError, "local slot out of range")
			}
			fr.Slots[idx] = stack.Peek(0)

		case bytecode.OpGetUpvalue:
			idx := readU16()
			if idx < 0 || idx >= len(fr.Upvalues) {
				return throw(errtypes.NewRangeError, "upvalue index out of range")
			}
			stack.Push(fr.Upvalues[idx].Val)
		case bytecode.OpSetUpvalue:
			idx := readU16()
			if idx < 0 || idx >= len(fr.Upvalues) {
				return throw(errtypes.NewRangeError, "upvalue index out of range")
			}
			fr.Upvalues[idx].Val = stack.Peek(0)

		case bytecode.OpGetProp:
			key := chunk.Constants[readU16()]
			target := stack.Pop()
			v, _, err := object.Get(target, key)
			if err != nil {
				return value.Nil, ctx.Throw(err)
			}
			stack.Push(v)
		case bytecode.OpSetProp:
			key := chunk.Constants[readU16()]
			v := stack.Pop()
			target := stack.Pop()
			if err := object.Set(target, key, v); err != nil {
				return value.Nil, ctx.Throw(err)
			}
			stack.Push(v)

		case bytecode.OpGetIndex:
			key := stack.Pop()
			target := stack.Pop()
			v, _, err := object.Get(target, key)
			if err != nil {
				return value.Nil, ctx.Throw(err)
			}
			stack.Push(v)
		case bytecode.OpSetIndex:
			v := stack.Pop()
			key := stack.Pop()
			target := stack.Pop()
			if err := object.Set(target, key, v); err != nil {
				return value.Nil, ctx.Throw(err)
			}
			stack.Push(v)

		case bytecode.OpNewArray:
			n := readU16()
			elems := make([]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = stack.Pop()
			}
			stack.Push(value.FromObject(object.NewArrayFrom(elems)))

		case bytecode.OpNewObject:
			stack.Push(value.FromObject(object.NewObject()))

		case bytecode.OpJump:
			target := readU16()
			fr.IP = target
		case bytecode.OpJumpIfFalse:
			target := readU16()
			if !stack.Pop().Truthy() {
				fr.IP = target
			}
		case bytecode.OpLoop:
			target := readU16()
			fr.IP = target

		case bytecode.OpCall:
			argc := int(readByte())
			args := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = stack.Pop()
			}
			fn := stack.Pop()
			result, err := function.Invoke(ctx, fn, value.Nil, args, fr)
			if err != nil {
				return value.Nil, err
			}
			stack.Push(result)

		case bytecode.OpReturn:
			return stack.Pop(), nil

		case bytecode.OpThrow:
			v := stack.Pop()
			return value.Nil, ctx.Throw(asError(v, fr))

		default:
			return throw(errtypes.NewSyntaxError, "unknown opcode")
		}
	}
	return value.Nil, nil
}

// arith applies a binary arithmetic opcode. Strings concatenate under Add
// (so `"a" + "b"` works without a dedicated Concat opcode); every other
// combination of non-number operands is a TypeError (§7).
func arith(op bytecode.OpCode, a, b value.Value) (value.Value, error) {
	if op == bytecode.OpAdd && a.IsHeap() && a.HeapKind() == value.KString && b.IsHeap() && b.HeapKind() == value.KString {
		return concatStrings(a, b)
	}
	if !a.IsNumber() || !b.IsNumber() {
		return value.Nil, errArithType(op)
	}
	x, y := a.NumberVal(), b.NumberVal()
	switch op {
	case bytecode.OpAdd:
		return value.FromNumber(x + y), nil
	case bytecode.OpSub:
		return value.FromNumber(x - y), nil
	case bytecode.OpMul:
		return value.FromNumber(x * y), nil
	case bytecode.OpDiv:
		return value.FromNumber(x / y), nil
	case bytecode.OpMod:
		return value.FromNumber(modFloat(x, y)), nil
	default:
		return value.Nil, errArithType(op)
	}
}

func compare(op bytecode.OpCode, x, y float64) bool {
	switch op {
	case bytecode.OpGreater:
		return x > y
	case bytecode.OpLess:
		return x < y
	case bytecode.OpGreaterEqual:
		return x >= y
	case bytecode.OpLessEqual:
		return x <= y
	default:
		return false
	}
}

// valuesEqual implements §3's equality rule: heap references compare by
// pointer identity (which already collapses to content equality for
// singleton strings, since they're interned), scalars compare by value.
func valuesEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.Null:
		return true
	case value.Bool:
		return a.Bool() == b.Bool()
	case value.Number:
		return a.NumberVal() == b.NumberVal()
	default:
		return a.Is(b)
	}
}

// asError coerces a thrown value into an *errtypes.Error: a heap value
// already backed by one is used directly; anything else becomes a generic
// Error whose message is a best-effort rendering, matching script code
// that does `throw "plain string"` without constructing a typed error.
func asError(v value.Value, fr *function.Frame) *errtypes.Error {
	if v.IsHeap() {
		if e, ok := v.ObjectVal().(*errtypes.Error); ok {
			return e
		}
	}
	return errtypes.NewError(renderThrown(v), fr)
}

func renderThrown(v value.Value) string {
	switch v.Kind() {
	case value.Null:
		return "null"
	case value.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case value.Number:
		return formatNumber(v.NumberVal())
	default:
		return v.HeapKind().String()
	}
}
