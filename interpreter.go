package lox

import (
	"context"

	"github.com/deepnoodle-ai/lox/compiler"
	"github.com/deepnoodle-ai/lox/internal/lexer"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/vm"
)

// Interpreter provides stateful execution for REPL and incremental
// evaluation. Unlike Eval, which creates fresh state on each call, an
// Interpreter keeps one heap and VM, so globals defined by one Run are
// visible to the next. A runtime error resets the stack but keeps the
// globals committed before it.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	heap     *object.Heap
	compiler *compiler.Compiler
	machine  *vm.VirtualMachine
}

// NewInterpreter creates an Interpreter with the builtins defined, unless
// WithoutBuiltins is given.
func NewInterpreter(opts ...Option) *Interpreter {
	o := collectOptions(opts...)
	heap := object.NewHeap()
	o.defineGlobals(heap)
	return &Interpreter{
		heap:     heap,
		compiler: compiler.New(heap, o.compilerOpts()...),
		machine:  vm.New(heap, o.vmOpts()...),
	}
}

// Compile compiles source against the interpreter's heap without running it.
func (i *Interpreter) Compile(source string) (*object.Function, error) {
	return i.compiler.Compile(lexer.Tokenize(source))
}

// Run compiles and executes source within this interpreter's state.
func (i *Interpreter) Run(ctx context.Context, source string) error {
	fn, err := i.Compile(source)
	if err != nil {
		return err
	}
	return i.machine.Interpret(ctx, fn)
}

// GlobalNames returns the sorted names of all defined globals, including
// the builtins.
func (i *Interpreter) GlobalNames() []string {
	return i.heap.GlobalNames()
}

// Heap returns the heap shared by the interpreter's compiler and VM.
func (i *Interpreter) Heap() *object.Heap {
	return i.heap
}
