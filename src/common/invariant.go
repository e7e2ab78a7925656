package common

import "fmt"

// InvariantError signals corrupted chain state or a logic defect. It is not
// recoverable: callers must not continue applying chain state after one is
// raised.
type InvariantError struct {
	Msg string
}

// Error implements the error interface.
func (e InvariantError) Error() string {
	return "invariant violation: " + e.Msg
}

// Invariantf panics with an InvariantError. Chain processing aborts through
// this path; it is never caught by the governance core itself.
func Invariantf(format string, args ...interface{}) {
	panic(InvariantError{Msg: fmt.Sprintf(format, args...)})
}
