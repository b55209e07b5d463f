package lox

import (
	"github.com/deepnoodle-ai/lox/bytecode"
	"github.com/deepnoodle-ai/lox/dis"
	"github.com/deepnoodle-ai/lox/object"
)

// Program is the compiled representation of Lox source code.
type Program struct {
	main *object.Function
	heap *object.Heap

	// Metadata
	source   string
	filename string
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Function returns the top-level script function.
func (p *Program) Function() *object.Function {
	return p.main
}

// Stats returns size statistics of the compiled bytecode.
func (p *Program) Stats() bytecode.Stats {
	return p.main.Chunk().Stats()
}

// Disassemble returns the disassembly of the script and every function it
// declares.
func (p *Program) Disassemble() (*dis.Function, error) {
	return dis.DisassembleFunction(p.main.Name(), p.main.Chunk())
}
