// Package utils provides shared helpers for the marktree library.
package utils

import "fmt"

// Contract violation operations. Every panic raised by the library carries
// one of these so callers and tests can tell the violation classes apart.
const (
	OpOutOfRange         = "out-of-range"
	OpDuplicateInsert    = "duplicate-insert"
	OpIDOverflow         = "id-overflow"
	OpDuplicityOverflow  = "duplicity-overflow"
	OpInvariantViolation = "invariant-violation"
)

// ViolationError is the payload of every contract-violation panic.
// Violations are programming errors, not runtime conditions: they are never
// returned as error values.
type ViolationError struct {
	Op  string
	Msg string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("marktree: %s: %s", e.Op, e.Msg)
}

// Violate panics with a *ViolationError for the given operation.
func Violate(op, format string, args ...any) {
	panic(&ViolationError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Assert panics with an invariant violation unless cond holds.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		Violate(OpInvariantViolation, format, args...)
	}
}
