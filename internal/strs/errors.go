package strs

import "fmt"

var errImmutable = fmt.Errorf("strs: string values are immutable")

func errBadPattern(reason string) error {
	return fmt.Errorf("strs: invalid replacement pattern: %s", reason)
}
