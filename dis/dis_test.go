package dis

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/lox/bytecode"
	"github.com/deepnoodle-ai/lox/compiler"
	"github.com/deepnoodle-ai/lox/internal/lexer"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/op"
	"github.com/deepnoodle-ai/lox/value"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, source string) *object.Function {
	t.Helper()
	fn, err := compiler.Compile(object.NewHeap(), lexer.Tokenize(source))
	require.Nil(t, err)
	return fn
}

func TestFunctionDisassembly(t *testing.T) {
	// Disable colors for consistent test output
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	fn := compile(t, `fun f(a) {
  return a;
}
print f(1);`)
	listing, err := DisassembleFunction(fn.Name(), fn.Chunk())
	require.Nil(t, err)

	var buf bytes.Buffer
	Print(listing, &buf)
	expected := strings.TrimSpace(`
== <script> ==
0000    3 CONSTANT            1 '<fn f>'
0002    | DEFINE_GLOBAL       0 'f'
0004    4 GET_GLOBAL          0 'f'
0006    | CONSTANT            2 '1'
0008    | CALL                1
0010    | PRINT
0011    | NULL
0012    | RETURN

== f ==
0000    2 GET_LOCAL           0
0002    | RETURN
0003    3 NULL
0004    | RETURN
`)
	require.Equal(t, expected+"\n", buf.String())
	require.Equal(t, 2, listing.Stats.FunctionCount)
}

func TestJumpTargets(t *testing.T) {
	fn := compile(t, `if (true) print 1;`)
	instructions, err := Disassemble(fn.Chunk())
	require.Nil(t, err)
	require.Equal(t, "JUMP_IF_FALSE", instructions[1].Name)
	require.Equal(t, []int{7}, instructions[1].Operands)
	require.Equal(t, 11, instructions[1].Target)
	require.Equal(t, "JUMP", instructions[5].Name)
	require.Equal(t, []int{1}, instructions[5].Operands)
	require.Equal(t, 12, instructions[5].Target)

	fn = compile(t, `while (false) {}`)
	instructions, err = Disassemble(fn.Chunk())
	require.Nil(t, err)
	require.Equal(t, op.Loop, instructions[3].Opcode)
	require.Equal(t, []int{8}, instructions[3].Operands)
	require.Equal(t, 0, instructions[3].Target)
	require.Equal(t, 8, instructions[1].Target)
}

func TestMalformedChunks(t *testing.T) {
	chunk := bytecode.NewChunk()
	chunk.Write(0xfe, 1)
	_, err := Disassemble(chunk)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unknown opcode 254")

	chunk = bytecode.NewChunk()
	chunk.WriteOp(op.Jump, 1)
	chunk.Write(0, 1)
	_, err = Disassemble(chunk)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "truncated JUMP")

	chunk = bytecode.NewChunk()
	chunk.WriteOp(op.Constant, 1)
	chunk.Write(3, 1)
	_, err = Disassemble(chunk)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "constant 3 out of range")
}

func TestJSON(t *testing.T) {
	chunk := bytecode.NewChunk()
	idx := chunk.AddConstant(value.Number(1.5))
	chunk.WriteOp(op.Constant, 7)
	chunk.Write(byte(idx), 7)
	chunk.WriteOp(op.Return, 7)

	listing, err := DisassembleFunction("", chunk)
	require.Nil(t, err)
	data, err := json.Marshal(listing)
	require.Nil(t, err)

	var decoded map[string]any
	require.Nil(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "<script>", decoded["name"])
	instructions := decoded["instructions"].([]any)
	require.Len(t, instructions, 2)
	first := instructions[0].(map[string]any)
	require.Equal(t, "CONSTANT", first["name"])
	require.Equal(t, "1.5", first["constant"])
	require.Equal(t, float64(7), first["line"])
	require.NotContains(t, decoded, "functions")
}
