package class

// Inherit merges each parent's members into c, in the order given
// (parent-first insertion order, §4.6): a parent's own properties are
// copied into c only under names c doesn't already define itself, so a
// child member installed before Inherit is called always wins over a
// parent's member of the same name, and the position a newly-copied member
// takes in c's own order reflects the order parents were merged, not the
// order they defined the member.
//
// A native alloc hook is inherited only if c doesn't already have one of
// its own; two parents supplying *different* native alloc hooks is a
// conflict (§4.6 invariant) reported as a TypeError-shaped error — a class
// cannot simultaneously be, say, a Number coercion and a database-handle
// proxy. Inheriting the same hook twice through a diamond is not a
// conflict, which the pointer-identity comparison on *hook below handles
// correctly (unlike a Go func value, a *hook compares true only when it's
// literally the same registration).
func (c *Class) Inherit(parents ...*Class) error {
	for _, p := range parents {
		for _, name := range p.OwnNames() {
			if c.HasOwn(name) {
				continue
			}
			prop, ok := p.RawProperty(name)
			if !ok {
				continue
			}
			c.DefineRaw(name, prop)
		}
		if p.alloc != nil && p.alloc != genericHook {
			switch {
			case c.alloc == nil || c.alloc == genericHook:
				c.alloc = p.alloc
			case c.alloc == p.alloc:
				// same hook reached twice through a diamond; fine.
			default:
				return errAllocConflict(c.name, p.name)
			}
		}
		c.parents = append(c.parents, p)
	}
	return nil
}
