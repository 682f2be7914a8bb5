package class_test

import (
	"testing"

	"github.com/gongke-cn/ox/internal/class"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/value"
)

func TestInheritChildOverridesParent(t *testing.T) {
	a := class.New()
	a.DefineConst("x", value.FromNumber(1))

	b := class.New()
	b.DefineConst("x", value.FromNumber(2))
	if err := b.Inherit(a); err != nil {
		t.Fatalf("Inherit() = %v, want nil", err)
	}

	inst, err := class.Instantiate(nil, value.FromObject(b), nil)
	if err != nil {
		t.Fatalf("Instantiate() = %v, want nil", err)
	}
	if inst.IsNull() {
		t.Fatal("Instantiate() should return a non-null instance")
	}
	// Instance's $inf is b; b.x = 2 must win over a.x = 1.
	p, ok := b.RawProperty("x")
	if !ok || p.Value.NumberVal() != 2 {
		t.Fatalf("b.x = %v, want 2 (child override must survive Inherit)", p.Value)
	}
}

func TestInheritIsIdempotent(t *testing.T) {
	a := class.New()
	a.DefineConst("x", value.FromNumber(1))
	b := class.New()

	if err := b.Inherit(a); err != nil {
		t.Fatalf("first Inherit() = %v, want nil", err)
	}
	if err := b.Inherit(a); err != nil {
		t.Fatalf("second Inherit() = %v, want nil (idempotent per §8)", err)
	}
	p, ok := b.RawProperty("x")
	if !ok || p.Value.NumberVal() != 1 {
		t.Fatalf("b.x = %v, want 1", p.Value)
	}
}

func TestInheritConflictingAllocHooksErrors(t *testing.T) {
	a := class.New()
	a.SetAllocHook(func(ctx function.Context, cls *class.Class, args []value.Value) (value.Value, error) {
		return value.FromNumber(1), nil
	})
	b := class.New()
	b.SetAllocHook(func(ctx function.Context, cls *class.Class, args []value.Value) (value.Value, error) {
		return value.FromNumber(2), nil
	})

	child := class.New()
	if err := child.Inherit(a); err != nil {
		t.Fatalf("child.Inherit(a) = %v", err)
	}
	if err := child.Inherit(b); err == nil {
		t.Fatal("Inherit() with two distinct native alloc hooks should raise a TypeError-shaped conflict")
	}
}

func TestInheritSameHookThroughDiamondIsNotAConflict(t *testing.T) {
	base := class.New()
	left := class.New()
	right := class.New()
	if err := left.Inherit(base); err != nil {
		t.Fatalf("left.Inherit(base) = %v", err)
	}
	if err := right.Inherit(base); err != nil {
		t.Fatalf("right.Inherit(base) = %v", err)
	}
	child := class.New()
	if err := child.Inherit(left, right); err != nil {
		t.Fatalf("diamond Inherit should not conflict (same alloc hook reached twice): %v", err)
	}
}

func TestNamedClassExposesName(t *testing.T) {
	c := class.NewNamed("Widget", value.FromNumber(0))
	if c.Name() != "Widget" {
		t.Fatalf("Name() = %q, want %q", c.Name(), "Widget")
	}
}

func TestEnumMembersAssignSequentialValues(t *testing.T) {
	e := class.NewEnum("Color", value.Nil, []string{"Red", "Green", "Blue"})
	if got := e.Members(); len(got) != 3 || got[0] != "Red" || got[2] != "Blue" {
		t.Fatalf("Members() = %v, want [Red Green Blue]", got)
	}
	name, ok := e.NameOf(1)
	if !ok || name != "Green" {
		t.Fatalf("NameOf(1) = (%q, %v), want (Green, true)", name, ok)
	}
}

func TestBitfieldCombineAndHas(t *testing.T) {
	e, err := class.NewBitfield("Flags", value.Nil, []string{"Read", "Write", "Exec"})
	if err != nil {
		t.Fatalf("NewBitfield() = %v, want nil", err)
	}
	read, _ := e.NameOf(1)
	write, _ := e.NameOf(2)
	if read != "Read" || write != "Write" {
		t.Fatalf("bitfield values = (%q, %q), want (Read, Write)", read, write)
	}
	combined := class.Combine(1, 2)
	if !class.Has(combined, 1) || !class.Has(combined, 2) {
		t.Fatal("Has() must report both combined bits set")
	}
	if class.Has(combined, 4) {
		t.Fatal("Has() must report an unset bit as absent")
	}
}

func TestBitfieldRejectsTooManyMembers(t *testing.T) {
	members := make([]string, 63)
	for i := range members {
		members[i] = "m"
	}
	if _, err := class.NewBitfield("Big", value.Nil, members); err == nil {
		t.Fatal("NewBitfield() with 63 members should reject (62-bit limit)")
	}
}
