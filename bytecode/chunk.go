package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/lox/op"
	"github.com/deepnoodle-ai/lox/value"
)

// MaxConstants is the number of constants addressable by a one-byte operand.
const MaxConstants = 256

// Chunk is the bytecode of a single function.
type Chunk struct {
	code      []byte
	lines     []int
	constants []value.Value
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends one byte of code along with the source line it came from.
func (c *Chunk) Write(b byte, line int) {
	c.code = append(c.code, b)
	c.lines = append(c.lines, line)
}

// WriteOp appends an opcode.
func (c *Chunk) WriteOp(code op.Code, line int) {
	c.Write(byte(code), line)
}

// WriteAt overwrites a previously written byte. The line table is unchanged.
// It panics if offset is out of range.
func (c *Chunk) WriteAt(offset int, b byte) {
	if offset < 0 || offset >= len(c.code) {
		panic(fmt.Sprintf("bytecode: write at offset %d out of range [0, %d)", offset, len(c.code)))
	}
	c.code[offset] = b
}

// AddConstant appends v to the constant pool and returns its index. The pool
// is not limited here; callers that encode the index in one byte must check
// it against MaxConstants.
func (c *Chunk) AddConstant(v value.Value) int {
	c.constants = append(c.constants, v)
	return len(c.constants) - 1
}

// Len returns the number of code bytes.
func (c *Chunk) Len() int {
	return len(c.code)
}

// Byte returns the code byte at offset i.
func (c *Chunk) Byte(i int) byte {
	return c.code[i]
}

// ReadShort decodes the big-endian two-byte operand starting at offset i.
func (c *Chunk) ReadShort(i int) uint16 {
	return uint16(c.code[i])<<8 | uint16(c.code[i+1])
}

// Line returns the source line of the code byte at offset i.
func (c *Chunk) Line(i int) int {
	return c.lines[i]
}

// Constant returns the constant at index i.
func (c *Chunk) Constant(i int) value.Value {
	return c.constants[i]
}

// ConstantCount returns the size of the constant pool.
func (c *Chunk) ConstantCount() int {
	return len(c.constants)
}

// Code returns a copy of the instruction stream.
func (c *Chunk) Code() []byte {
	out := make([]byte, len(c.code))
	copy(out, c.code)
	return out
}

// Nested is implemented by constant pool objects that carry their own chunk,
// such as compiled functions.
type Nested interface {
	Name() string
	Chunk() *Chunk
}

// Stats contains statistics about compiled bytecode.
// This is useful for auditing scripts before execution.
type Stats struct {
	// CodeBytes is the total size of the instruction streams.
	CodeBytes int `json:"code_bytes"`

	// ConstantCount is the total number of constant pool entries.
	ConstantCount int `json:"constant_count"`

	// FunctionCount is the number of functions, including the chunk itself.
	FunctionCount int `json:"function_count"`
}

// Stats returns statistics for c and every function nested in its constants.
func (c *Chunk) Stats() Stats {
	stats := Stats{
		CodeBytes:     len(c.code),
		ConstantCount: len(c.constants),
		FunctionCount: 1,
	}
	for _, k := range c.constants {
		if !k.IsObject() {
			continue
		}
		nested, ok := k.AsObject().(Nested)
		if !ok {
			continue
		}
		child := nested.Chunk().Stats()
		stats.CodeBytes += child.CodeBytes
		stats.ConstantCount += child.ConstantCount
		stats.FunctionCount += child.FunctionCount
	}
	return stats
}
