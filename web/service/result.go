// Package service implements the business logic of the household economy
// backend: user management, the permission model, banks, bank accounts,
// cards and authentication.
package service

// Result is the two-channel return value used by every business operation
// instead of errors for expected failure paths. The payload is only
// reachable through Value(), so an unchecked Result cannot leak a zero
// entity silently.
//
// Code conventions, shared by all operations:
//
//	< 0 -> unexpected server failure (opaque to the caller)
//	  0 -> success
//	> 0 -> operation-scoped validation/permission failure; each operation
//	       documents its own code table, codes are not globally unique.
type Result[T any] struct {
	valid   bool
	errCode int
	value   T
}

// Ok returns a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{valid: true, errCode: 0, value: value}
}

// Err returns a failed Result carrying an operation-scoped error code.
func Err[T any](errCode int) Result[T] {
	return Result[T]{valid: false, errCode: errCode}
}

// serverErr is the reserved code for unexpected failures.
const serverErr = -1

func (r Result[T]) Valid() bool {
	return r.valid
}

func (r Result[T]) Code() int {
	return r.errCode
}

func (r Result[T]) Value() T {
	return r.value
}
