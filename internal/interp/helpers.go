package interp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gongke-cn/ox/internal/bytecode"
	"github.com/gongke-cn/ox/internal/strs"
	"github.com/gongke-cn/ox/internal/value"
)

// concatStrings builds a new owned String holding a's bytes followed by
// b's, grounded on strs.String.Concat (§4.5 immutability: concatenation
// always allocates, never mutates either operand).
func concatStrings(a, b value.Value) (value.Value, error) {
	as, aok := a.ObjectVal().(*strs.String)
	bs, bok := b.ObjectVal().(*strs.String)
	if !aok || !bok {
		return value.Nil, fmt.Errorf("interp: concat operands must be strings")
	}
	return value.FromObject(as.Concat(bs)), nil
}

// modFloat is Go's floating remainder, matching the teacher's OpMod
// (math.Mod rather than C's fmod-via-integer-truncation behaviour for
// negative operands is deliberately the same function either way).
func modFloat(x, y float64) float64 {
	return math.Mod(x, y)
}

func errArithType(op bytecode.OpCode) error {
	return fmt.Errorf("interp: %s operands must be numbers", op)
}

// formatNumber renders a float64 the way a thrown bare number becomes an
// error message: integral values print without a trailing ".0", mirroring
// the teacher's number-to-string convention.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
