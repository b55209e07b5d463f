package errz

import (
	"fmt"
	"strings"
)

// StackFrame represents a single frame in the call stack at the point a
// runtime error occurred.
type StackFrame struct {
	// Function is the function name. It is empty for the top-level script.
	Function string
	Line     int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	if f.Function == "" {
		return fmt.Sprintf("[line %d] in script", f.Line)
	}
	return fmt.Sprintf("[line %d] in %s()", f.Line, f.Function)
}

// FormatStackTrace formats frames one per line, innermost first.
func FormatStackTrace(frames []StackFrame) string {
	lines := make([]string, 0, len(frames))
	for _, frame := range frames {
		lines = append(lines, frame.String())
	}
	return strings.Join(lines, "\n")
}

// RuntimeError is raised by the virtual machine when execution faults.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	// Stack holds the active frames, innermost first.
	Stack []StackFrame
	// Hint is an optional suggestion shown alongside the message.
	Hint  string
	Cause error
}

// NewRuntimeError creates a RuntimeError with a formatted message.
func NewRuntimeError(kind ErrorKind, stack []StackFrame, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Stack:   stack,
	}
}

// Error returns the message followed by the stack trace.
func (e *RuntimeError) Error() string {
	if len(e.Stack) == 0 {
		return e.Message
	}
	return e.Message + "\n" + FormatStackTrace(e.Stack)
}

// Unwrap returns the underlying cause of the error.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// WithCause wraps the error with a cause.
func (e *RuntimeError) WithCause(cause error) *RuntimeError {
	e.Cause = cause
	return e
}

// WithHint attaches a suggestion to the error.
func (e *RuntimeError) WithHint(hint string) *RuntimeError {
	e.Hint = hint
	return e
}
