package object

import (
	"testing"

	"github.com/deepnoodle-ai/lox/value"
	"github.com/stretchr/testify/require"
)

type site struct{}

func (site) FunctionName() string { return "script" }
func (site) Line() int            { return 1 }

func TestStringInterning(t *testing.T) {
	h := NewHeap()
	a := h.CreateString("x")
	b := h.CreateString("x")
	require.Same(t, a, b)
	require.Equal(t, 1, h.StringCount())
	require.Equal(t, 1, h.ObjectCount())
	require.True(t, value.FromObject(a).Equal(value.FromObject(b)))

	c := h.CreateString("y")
	require.NotSame(t, a, c)
	require.Equal(t, 2, h.StringCount())
}

func TestConcatenateInterns(t *testing.T) {
	h := NewHeap()
	ab := h.Concatenate(h.CreateString("a"), h.CreateString("b"))
	require.Equal(t, "ab", ab.Value())
	require.Same(t, ab, h.CreateString("ab"))
}

func TestGlobals(t *testing.T) {
	h := NewHeap()
	name := h.CreateString("answer")

	require.True(t, h.GetGlobal(name).IsNull())
	_, ok := h.LookupGlobal(name)
	require.False(t, ok)

	require.False(t, h.SetGlobal(name, value.Number(41)))
	require.True(t, h.SetGlobal(name, value.Number(42)))
	v, ok := h.LookupGlobal(name)
	require.True(t, ok)
	require.Equal(t, 42.0, v.AsNumber())

	require.True(t, h.DeleteGlobal(name))
	require.False(t, h.DeleteGlobal(name))
	require.True(t, h.GetGlobal(name).IsNull())
}

func TestGlobalsKeyedByInternedName(t *testing.T) {
	h := NewHeap()
	h.SetGlobal(h.CreateString("a"), value.Bool(true))
	require.True(t, h.GetGlobal(h.CreateString("a")).AsBool())
}

func TestFunctions(t *testing.T) {
	h := NewHeap()
	script := h.CreateFunction(nil)
	require.True(t, script.IsScript())
	require.Equal(t, "<script>", script.String())
	require.Equal(t, "", script.Name())
	require.NotNil(t, script.Chunk())

	fn := h.CreateFunction(h.CreateString("add"))
	fn.SetArity(2)
	require.False(t, fn.IsScript())
	require.Equal(t, "<fn add>", fn.String())
	require.Equal(t, "add", fn.Name())
	require.Equal(t, 2, fn.Arity())
	require.Equal(t, FUNCTION, fn.Type())
	require.NotSame(t, script.Chunk(), fn.Chunk())
}

func TestDefineNative(t *testing.T) {
	h := NewHeap()
	native := h.DefineNative("seven", 0, func(args []value.Value, _ CallSite, _ func(string)) value.Value {
		return value.Number(7)
	})
	require.Equal(t, "<native fn>", native.String())
	require.Equal(t, NATIVE, native.Type())

	v := h.GetGlobal(h.CreateString("seven"))
	got, ok := AsNative(v)
	require.True(t, ok)
	require.Same(t, native, got)
	require.Equal(t, 7.0, got.Call(nil, site{}, func(string) {}).AsNumber())
	require.Equal(t, []string{"seven"}, h.GlobalNames())
}

func TestNativeFailCallback(t *testing.T) {
	h := NewHeap()
	native := h.CreateNative("boom", 1, func(args []value.Value, s CallSite, fail func(string)) value.Value {
		fail("boom at " + s.FunctionName())
		return value.Null()
	})
	var msg string
	native.Call([]value.Value{value.Null()}, site{}, func(m string) { msg = m })
	require.Equal(t, "boom at script", msg)
}

func TestAsHelpers(t *testing.T) {
	h := NewHeap()
	s, ok := AsString(value.FromObject(h.CreateString("s")))
	require.True(t, ok)
	require.Equal(t, "s", s.Value())

	_, ok = AsString(value.Number(1))
	require.False(t, ok)
	_, ok = AsFunction(value.FromObject(h.CreateString("s")))
	require.False(t, ok)

	fn, ok := AsFunction(value.FromObject(h.CreateFunction(nil)))
	require.True(t, ok)
	require.True(t, fn.IsScript())
}

func TestForkSharesInterning(t *testing.T) {
	parent := NewHeap()
	x := parent.CreateString("x")
	parent.SetGlobal(x, value.Number(1))

	fork := parent.Fork()
	require.Same(t, x, fork.CreateString("x"))
	require.Empty(t, fork.GlobalNames())
	_, ok := fork.LookupGlobal(x)
	require.False(t, ok)

	y := fork.CreateString("y")
	require.Same(t, y, fork.CreateString("y"))
	require.Equal(t, 1, parent.StringCount())
	require.Equal(t, 2, fork.StringCount())
	require.Equal(t, 2, fork.ObjectCount())

	fork.SetGlobal(x, value.Number(2))
	require.Equal(t, value.Number(1), parent.GetGlobal(x))
	require.Equal(t, value.Number(2), fork.GetGlobal(x))

	// Siblings do not see each other's strings.
	require.NotSame(t, y, parent.Fork().CreateString("y"))
}
