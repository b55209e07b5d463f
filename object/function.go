package object

import (
	"fmt"

	"github.com/deepnoodle-ai/lox/bytecode"
)

// Function is a compiled Lox function. The top-level script is a Function
// without a name.
type Function struct {
	name  *String
	arity int
	chunk *bytecode.Chunk
}

func (f *Function) Type() string {
	return FUNCTION
}

// Name returns the function name, or an empty string for the script.
func (f *Function) Name() string {
	if f.name == nil {
		return ""
	}
	return f.name.value
}

// NameObject returns the interned name, or nil for the script.
func (f *Function) NameObject() *String {
	return f.name
}

// IsScript reports whether f is the top-level script function.
func (f *Function) IsScript() bool {
	return f.name == nil
}

func (f *Function) Arity() int {
	return f.arity
}

// SetArity records the number of declared parameters. It is only called by
// the compiler while the function body is being compiled.
func (f *Function) SetArity(arity int) {
	f.arity = arity
}

func (f *Function) Chunk() *bytecode.Chunk {
	return f.chunk
}

func (f *Function) String() string {
	if f.name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.name.value)
}
