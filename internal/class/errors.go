package class

import "fmt"

var errNotAClass = fmt.Errorf("class: value is not a class")

func errAllocConflict(a, b string) error {
	return fmt.Errorf("class: alloc-hook conflict inheriting %q and %q", a, b)
}
