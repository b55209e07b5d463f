// Package op defines opcodes used by the Lox compiler and virtual machine.
package op

// Code is a one-byte opcode that indicates an operation to execute. In a
// chunk it is followed by zero or more operand bytes, as described by its Info.
type Code byte

const (
	// Arithmetic
	Add Code = iota
	Subtract
	Multiply
	Divide
	Negate

	// Comparison
	Equal
	NotEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Logical
	Not

	// Literals
	True
	False
	Null

	// Stack
	Pop
	Constant

	// Variables
	GetGlobal
	SetGlobal
	DefineGlobal
	GetLocal
	SetLocal

	// Control flow
	Jump
	JumpIfFalse
	Loop

	// Calls
	Call
	Return

	// I/O
	Print
)

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// OperandBytes is the total width in bytes of the operands that follow
	// the opcode.
	OperandBytes int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Add, "ADD", 0},
		{Subtract, "SUBTRACT", 0},
		{Multiply, "MULTIPLY", 0},
		{Divide, "DIVIDE", 0},
		{Negate, "NEGATE", 0},
		{Equal, "EQUAL", 0},
		{NotEqual, "NOT_EQUAL", 0},
		{Greater, "GREATER", 0},
		{GreaterEqual, "GREATER_EQUAL", 0},
		{Less, "LESS", 0},
		{LessEqual, "LESS_EQUAL", 0},
		{Not, "NOT", 0},
		{True, "TRUE", 0},
		{False, "FALSE", 0},
		{Null, "NULL", 0},
		{Pop, "POP", 0},
		{Constant, "CONSTANT", 1},
		{GetGlobal, "GET_GLOBAL", 1},
		{SetGlobal, "SET_GLOBAL", 1},
		{DefineGlobal, "DEFINE_GLOBAL", 1},
		{GetLocal, "GET_LOCAL", 1},
		{SetLocal, "SET_LOCAL", 1},
		{Jump, "JUMP", 2},
		{JumpIfFalse, "JUMP_IF_FALSE", 2},
		{Loop, "LOOP", 2},
		{Call, "CALL", 1},
		{Return, "RETURN", 0},
		{Print, "PRINT", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandBytes: o.count,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsValid reports whether op is a known opcode.
func (op Code) IsValid() bool {
	return infos[op].Name != ""
}

func (op Code) String() string {
	if name := infos[op].Name; name != "" {
		return name
	}
	return "UNKNOWN"
}
