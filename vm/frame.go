package vm

import "github.com/deepnoodle-ai/lox/object"

// CallFrame is the activation record of one function call. Its locals live
// on the shared value stack starting at base; stack[base] holds the called
// function itself, so local slot n is stack[base+n+1].
type CallFrame struct {
	function *object.Function
	ip       int
	base     int
}

// Function returns the function executing in this frame.
func (f *CallFrame) Function() *object.Function {
	return f.function
}

// FunctionName returns the name of the executing function, or "script" for
// the top-level code.
func (f *CallFrame) FunctionName() string {
	if f.function.IsScript() {
		return "script"
	}
	return f.function.Name()
}

// Line returns the source line of the most recently decoded instruction.
func (f *CallFrame) Line() int {
	return f.function.Chunk().Line(f.lastIP())
}

func (f *CallFrame) lastIP() int {
	if f.ip == 0 {
		return 0
	}
	return f.ip - 1
}

var _ object.CallSite = (*CallFrame)(nil)
