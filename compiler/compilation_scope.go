package compiler

import (
	"github.com/deepnoodle-ai/lox/bytecode"
	"github.com/deepnoodle-ai/lox/object"
)

// FunctionKind distinguishes the top-level script from declared functions.
type FunctionKind int

const (
	ScriptKind FunctionKind = iota
	FunctionBodyKind
)

// CompilationScope is the compile-time state of one function. Scopes of
// nested function declarations link to the scope of the function that
// contains them.
type CompilationScope struct {
	enclosing *CompilationScope
	function  *object.Function
	kind      FunctionKind
	locals    *LocalScope
	depth     int
}

func newCompilationScope(enclosing *CompilationScope, fn *object.Function, kind FunctionKind) *CompilationScope {
	return &CompilationScope{
		enclosing: enclosing,
		function:  fn,
		kind:      kind,
	}
}

func (s *CompilationScope) Enclosing() *CompilationScope {
	return s.enclosing
}

func (s *CompilationScope) Function() *object.Function {
	return s.function
}

func (s *CompilationScope) Kind() FunctionKind {
	return s.kind
}

func (s *CompilationScope) Chunk() *bytecode.Chunk {
	return s.function.Chunk()
}

// Depth returns the current block nesting depth. Zero means global scope.
func (s *CompilationScope) Depth() int {
	return s.depth
}

// Locals returns the scope of the innermost open block, or nil at depth zero.
func (s *CompilationScope) Locals() *LocalScope {
	return s.locals
}

// BeginScope opens a block.
func (s *CompilationScope) BeginScope() {
	s.depth++
	s.locals = NewLocalScope(s.locals)
}

// EndScope closes the innermost block and returns the number of locals that
// went out of scope.
func (s *CompilationScope) EndScope() int {
	n := s.locals.Count()
	s.locals = s.locals.Enclosing()
	s.depth--
	return n
}
