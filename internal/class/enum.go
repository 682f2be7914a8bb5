package class

import (
	"fmt"

	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/value"
)

// Enum is the heap kind backing both plain enumerations and bitfield
// "views" over them (§4.6). A plain enum assigns each member the next
// integer starting at 0; a bitfield assigns each member the next power of
// two, so members can be OR'd together and tested with Has.
type Enum struct {
	object.Object
	name    string
	members []string
	byValue map[float64]string
}

// NewEnum returns an enum object with members assigned 0, 1, 2, ... in
// declaration order, each installed as a const property.
func NewEnum(name string, nameValue value.Value, members []string) *Enum {
	e := newEnumBase(name, nameValue)
	for i, m := range members {
		e.install(m, float64(i))
	}
	return e
}

// NewBitfield returns an enum object with members assigned 1, 2, 4, 8, ...
// so they combine with bitwise OR; a bitfield of more than 62 members is
// rejected since the underlying value is a float64-represented integer
// (§3's Number range).
func NewBitfield(name string, nameValue value.Value, members []string) (*Enum, error) {
	if len(members) > 62 {
		return nil, errBitfieldTooLarge(len(members))
	}
	e := newEnumBase(name, nameValue)
	for i, m := range members {
		e.install(m, float64(uint64(1)<<uint(i)))
	}
	return e, nil
}

func newEnumBase(name string, nameValue value.Value) *Enum {
	e := &Enum{Object: *object.NewObject(), name: name, byValue: make(map[float64]string)}
	e.Retag(value.KEnum)
	e.DefineConst(object.KeyName, nameValue)
	return e
}

func (e *Enum) install(name string, v float64) {
	e.members = append(e.members, name)
	e.byValue[v] = name
	e.DefineConst(name, value.FromNumber(v))
}

// Members returns the member names in declaration order.
func (e *Enum) Members() []string { return append([]string(nil), e.members...) }

// NameOf returns the member name bound to v, if any — used to render an
// enum value back to its symbolic form in debug output.
func (e *Enum) NameOf(v float64) (string, bool) {
	name, ok := e.byValue[v]
	return name, ok
}

// Has reports whether every bit set in flag is also set in combined — the
// bitfield membership test, meaningful only for a NewBitfield-built Enum.
func Has(combined, flag float64) bool {
	c, f := uint64(combined), uint64(flag)
	return c&f == f
}

// Combine ORs a set of bitfield member values together.
func Combine(flags ...float64) float64 {
	var acc uint64
	for _, f := range flags {
		acc |= uint64(f)
	}
	return float64(acc)
}

func errBitfieldTooLarge(n int) error {
	return fmt.Errorf("class: bitfield has %d members, more than the 62-bit limit", n)
}
