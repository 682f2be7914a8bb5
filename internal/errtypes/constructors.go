package errtypes

import "github.com/gongke-cn/ox/internal/function"

// Convenience constructors for each of the nine built-in kinds (§4.9),
// mirroring ox_error.c's ox_*_error_new family.

func NewError(msg string, fr *function.Frame) *Error {
	return New(KindError, msg, fr)
}
func NewSystemError(msg string, fr *function.Frame) *Error {
	return New(KindSystemError, msg, fr)
}
func NewNoMemoryError(msg string, fr *function.Frame) *Error {
	return New(KindNoMemoryError, msg, fr)
}
func NewNullError(msg string, fr *function.Frame) *Error {
	return New(KindNullError, msg, fr)
}
func NewRangeError(msg string, fr *function.Frame) *Error {
	return New(KindRangeError, msg, fr)
}
func NewAccessError(msg string, fr *function.Frame) *Error {
	return New(KindAccessError, msg, fr)
}
func NewTypeError(msg string, fr *function.Frame) *Error {
	return New(KindTypeError, msg, fr)
}
func NewSyntaxError(msg string, fr *function.Frame) *Error {
	return New(KindSyntaxError, msg, fr)
}
func NewReferenceError(msg string, fr *function.Frame) *Error {
	return New(KindReferenceError, msg, fr)
}
