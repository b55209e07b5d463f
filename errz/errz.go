// Package errz defines the compile-time and runtime error types reported by
// the Lox compiler and virtual machine.
package errz

// ErrorKind represents the category of a runtime error.
type ErrorKind int

const (
	// ErrRuntime indicates a general runtime error.
	ErrRuntime ErrorKind = iota
	// ErrType indicates an operand of the wrong type or a call to a value
	// that is not callable.
	ErrType
	// ErrName indicates an undefined or already defined global variable.
	ErrName
	// ErrArgs indicates a call with the wrong number of arguments.
	ErrArgs
	// ErrStack indicates a value stack or call frame overflow or underflow.
	ErrStack
	// ErrNative indicates a failure reported by a native function.
	ErrNative
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrRuntime:
		return "runtime error"
	case ErrType:
		return "type error"
	case ErrName:
		return "name error"
	case ErrArgs:
		return "args error"
	case ErrStack:
		return "stack error"
	case ErrNative:
		return "native error"
	default:
		return "error"
	}
}
