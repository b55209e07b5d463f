package errz

import "fmt"

// CompileError is a single error reported by the compiler.
type CompileError struct {
	Line int
	// Where locates the error within the line, e.g. "at 'foo'" or "at end".
	// It is empty for errors reported by the lexer.
	Where   string
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", e.Line, e.Where, e.Message)
}
