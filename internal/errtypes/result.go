package errtypes

import "github.com/gongke-cn/ox/internal/value"

// Outcome is the three-valued result convention of §4.9: many embedder-API
// operations distinguish "succeeded with a value" from "legitimately does
// not apply" (e.g. looking up a key that's absent) from "failed" (a real
// error), and collapsing the last two into a single bool would force every
// caller to pick one meaning for a miss. Ok carries the success value, Err
// carries the *Error, and neither set means False.
type Outcome struct {
	ok    bool
	err   bool
	value value.Value
	cause *Error
}

// Ok returns a successful Outcome carrying v.
func Ok(v value.Value) Outcome { return Outcome{ok: true, value: v} }

// Err returns a failed Outcome carrying e.
func Err(e *Error) Outcome { return Outcome{err: true, cause: e} }

// False returns the "does not apply" Outcome.
func False() Outcome { return Outcome{} }

// IsOk reports the Ok case.
func (o Outcome) IsOk() bool { return o.ok }

// IsErr reports the Err case.
func (o Outcome) IsErr() bool { return o.err }

// IsFalse reports the False case.
func (o Outcome) IsFalse() bool { return !o.ok && !o.err }

// Value returns the success payload; Nil in the Err/False cases.
func (o Outcome) Value() value.Value { return o.value }

// Error returns the failure payload; nil in the Ok/False cases.
func (o Outcome) Error() *Error { return o.cause }

// Catcher is the matching half of Throw: a catch clause names the error
// kinds it handles (empty means "catch everything"); Matches reports
// whether e should be intercepted here rather than propagated further up
// the frame chain.
type Catcher struct {
	Kinds []Kind
}

// Matches reports whether e's kind is one c was declared to catch.
func (c Catcher) Matches(e *Error) bool {
	if len(c.Kinds) == 0 {
		return true
	}
	for _, k := range c.Kinds {
		if k == e.kind {
			return true
		}
	}
	return false
}
