package object

import "fmt"

// Package object raises plain Go errors for protocol violations; it cannot
// depend on internal/errtypes (which itself builds Error objects on top of
// object.Object) without an import cycle. internal/ox lifts these into
// catchable Errors at the embedder-API boundary: Context.Set as an
// AccessError, other paths through errtypes.Wrap as a SystemError.

var errNotAKey = fmt.Errorf("object: property key must be a singleton string")

func errConstWrite(name string) error {
	return fmt.Errorf("object: %q is read-only", name)
}

func errNotCallable() error {
	return fmt.Errorf("object: value is not callable")
}

func errNoSuchIndex(i int) error {
	return fmt.Errorf("object: index %d out of range", i)
}
