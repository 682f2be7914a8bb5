package loader

import (
	"fmt"

	"github.com/gongke-cn/ox/internal/errtypes"
)

func errCircular(path string) *errtypes.Error {
	return errtypes.NewReferenceError(fmt.Sprintf("circular reference: %s", path), nil)
}

func errNotFound(spec string) *errtypes.Error {
	return errtypes.NewReferenceError(fmt.Sprintf("module not found: %s", spec), nil)
}

func errBadSpec(spec, reason string) *errtypes.Error {
	return errtypes.NewReferenceError(fmt.Sprintf("invalid import %q: %s", spec, reason), nil)
}
