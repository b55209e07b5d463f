package vm

import "github.com/deepnoodle-ai/lox/op"

// Observer is an interface for observing VM execution events.
// Implementations can be used for profiling, debugging, coverage or
// execution tracing.
//
// Implementations can embed NoOpObserver to get default implementations
// for methods they don't need.
type Observer interface {
	// OnStep is called before each instruction is executed.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnCall is called after a new frame is pushed for a Lox function, or
	// before a native function runs.
	// Returns false to halt execution immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called when a Lox function returns.
	// Returns false to halt execution immediately.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the offset of the opcode in the active chunk.
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Line is the source line of the instruction.
	Line int

	// Function is the name of the executing function, "script" at top level.
	Function string

	// StackDepth is the current number of values on the stack.
	StackDepth int

	// FrameDepth is the current number of call frames.
	FrameDepth int
}

// CallEvent contains information about a function call.
type CallEvent struct {
	// FunctionName is the name of the function being called.
	FunctionName string

	// Native is true when the callee is implemented in Go.
	Native bool

	// ArgCount is the number of arguments passed to the function.
	ArgCount int

	// Line is the source line of the call instruction.
	Line int

	// FrameDepth is the call stack depth after the call.
	FrameDepth int
}

// ReturnEvent contains information about a function return.
type ReturnEvent struct {
	// FunctionName is the name of the function returning.
	FunctionName string

	// Line is the source line of the return.
	Line int

	// FrameDepth is the call stack depth after returning.
	FrameDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
