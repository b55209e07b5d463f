// Package dis supports analysis of Lox bytecode by disassembling it.
// This works with the opcodes defined in the `op` package and the Chunk type
// from the `bytecode` package.
package dis

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/lox/bytecode"
	"github.com/deepnoodle-ai/lox/op"
	"github.com/fatih/color"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset   int     `json:"offset"`
	Line     int     `json:"line"`
	Opcode   op.Code `json:"-"`
	Name     string  `json:"name"`
	Operands []int   `json:"operands,omitempty"`

	// Target is the absolute destination of a jump or loop.
	Target int `json:"target,omitempty"`

	// Constant is the textual form of the referenced constant, if any.
	Constant string `json:"constant,omitempty"`
}

// Function is the disassembly of one function and of every function nested
// in its constant pool.
type Function struct {
	Name         string         `json:"name"`
	Instructions []Instruction  `json:"instructions"`
	Functions    []*Function    `json:"functions,omitempty"`
	Stats        bytecode.Stats `json:"stats"`
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(chunk *bytecode.Chunk) ([]Instruction, error) {
	var instructions []Instruction
	for offset := 0; offset < chunk.Len(); {
		code := op.Code(chunk.Byte(offset))
		if !code.IsValid() {
			return nil, fmt.Errorf("dis: unknown opcode %d at offset %d", byte(code), offset)
		}
		info := op.GetInfo(code)
		if info.OperandBytes > 0 && offset+info.OperandBytes >= chunk.Len() {
			return nil, fmt.Errorf("dis: truncated %s at offset %d", info.Name, offset)
		}
		instr := Instruction{
			Offset: offset,
			Line:   chunk.Line(offset),
			Opcode: code,
			Name:   info.Name,
		}
		switch info.OperandBytes {
		case 1:
			operand := int(chunk.Byte(offset + 1))
			instr.Operands = []int{operand}
			if code == op.Constant || code == op.GetGlobal || code == op.SetGlobal || code == op.DefineGlobal {
				if operand >= chunk.ConstantCount() {
					return nil, fmt.Errorf("dis: constant %d out of range at offset %d", operand, offset)
				}
				instr.Constant = chunk.Constant(operand).String()
			}
		case 2:
			jump := int(chunk.ReadShort(offset + 1))
			instr.Operands = []int{jump}
			next := offset + 1 + info.OperandBytes
			if code == op.Loop {
				instr.Target = next - jump
			} else {
				instr.Target = next + jump
			}
		}
		instructions = append(instructions, instr)
		offset += 1 + info.OperandBytes
	}
	return instructions, nil
}

// DisassembleFunction disassembles chunk and, recursively, every function
// found in its constant pool. An empty name denotes the top-level script.
func DisassembleFunction(name string, chunk *bytecode.Chunk) (*Function, error) {
	if name == "" {
		name = "<script>"
	}
	instructions, err := Disassemble(chunk)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	fn := &Function{
		Name:         name,
		Instructions: instructions,
		Stats:        chunk.Stats(),
	}
	for i := 0; i < chunk.ConstantCount(); i++ {
		c := chunk.Constant(i)
		if !c.IsObject() {
			continue
		}
		nested, ok := c.AsObject().(bytecode.Nested)
		if !ok {
			continue
		}
		child, err := DisassembleFunction(nested.Name(), nested.Chunk())
		if err != nil {
			return nil, err
		}
		fn.Functions = append(fn.Functions, child)
	}
	return fn, nil
}

var (
	headerColor   = color.New(color.FgMagenta, color.Bold)
	opcodeColor   = color.New(color.Bold)
	constantColor = color.New(color.FgYellow)
	targetColor   = color.New(color.FgCyan)
)

// Print writes a listing of fn and its nested functions to w, one line per
// instruction: offset, source line ("|" when unchanged), opcode, operand,
// and the constant or jump target it refers to.
func Print(fn *Function, w io.Writer) {
	headerColor.Fprintf(w, "== %s ==\n", fn.Name)
	for i, instr := range fn.Instructions {
		fmt.Fprintf(w, "%04d ", instr.Offset)
		if i > 0 && fn.Instructions[i-1].Line == instr.Line {
			fmt.Fprint(w, "   | ")
		} else {
			fmt.Fprintf(w, "%4d ", instr.Line)
		}
		if len(instr.Operands) == 0 {
			fmt.Fprintln(w, opcodeColor.Sprint(instr.Name))
			continue
		}
		fmt.Fprintf(w, "%s %4d", opcodeColor.Sprintf("%-16s", instr.Name), instr.Operands[0])
		switch {
		case instr.Constant != "":
			fmt.Fprintf(w, " '%s'", constantColor.Sprint(instr.Constant))
		case op.GetInfo(instr.Opcode).OperandBytes == 2:
			fmt.Fprintf(w, " -> %s", targetColor.Sprint(instr.Target))
		}
		fmt.Fprintln(w)
	}
	for _, child := range fn.Functions {
		fmt.Fprintln(w)
		Print(child, w)
	}
}
