package function

import "fmt"

var errNotAFunction = fmt.Errorf("function: value is not callable as a function")

func errArity(name string, want, got int) error {
	return fmt.Errorf("function: %s expects %d argument(s), got %d", name, want, got)
}
