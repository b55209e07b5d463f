package compiler

import (
	"testing"

	"github.com/deepnoodle-ai/lox/internal/token"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/stretchr/testify/require"
)

func ident(name string) token.Token {
	return token.New(token.IDENTIFIER, name, 1)
}

func TestLocalScopeSlots(t *testing.T) {
	outer := NewLocalScope(nil)
	for i, name := range []string{"a", "b", "c"} {
		slot, ok := outer.Add(ident(name))
		require.True(t, ok)
		require.Equal(t, i, slot)
	}
	inner := NewLocalScope(outer)
	slot, ok := inner.Add(ident("d"))
	require.True(t, ok)
	require.Equal(t, 3, slot)

	slot, local, ok := inner.Resolve("b")
	require.True(t, ok)
	require.Equal(t, 1, slot)
	require.Equal(t, "b", local.Name.Lexeme)

	_, _, ok = inner.Resolve("zz")
	require.False(t, ok)

	// A sibling of inner starts at the same slot.
	sibling := NewLocalScope(outer)
	slot, _ = sibling.Add(ident("e"))
	require.Equal(t, 3, slot)
}

func TestLocalScopeShadowing(t *testing.T) {
	outer := NewLocalScope(nil)
	outer.Add(ident("a"))
	outer.MarkInitialized(1)
	inner := NewLocalScope(outer)
	require.False(t, inner.Declares("a"))
	inner.Add(ident("a"))
	require.True(t, inner.Declares("a"))

	slot, local, ok := inner.Resolve("a")
	require.True(t, ok)
	require.Equal(t, 1, slot)
	require.Equal(t, Uninitialized, local.Depth)

	inner.MarkInitialized(2)
	_, local, _ = inner.Resolve("a")
	require.Equal(t, 2, local.Depth)
}

func TestLocalScopeLimit(t *testing.T) {
	scope := NewLocalScope(nil)
	for i := 0; i < MaxLocals-1; i++ {
		_, ok := scope.Add(ident("x"))
		require.True(t, ok)
	}
	nested := NewLocalScope(scope)
	slot, ok := nested.Add(ident("last"))
	require.True(t, ok)
	require.Equal(t, MaxLocals-1, slot)
	_, ok = nested.Add(ident("overflow"))
	require.False(t, ok)
	require.Equal(t, 1, nested.Count())
}

func TestCompilationScopeBlocks(t *testing.T) {
	heap := object.NewHeap()
	scope := newCompilationScope(nil, heap.CreateFunction(nil), ScriptKind)
	require.Equal(t, 0, scope.Depth())
	require.Nil(t, scope.Locals())

	scope.BeginScope()
	scope.Locals().Add(ident("a"))
	scope.Locals().Add(ident("b"))
	scope.BeginScope()
	require.Equal(t, 2, scope.Depth())
	scope.Locals().Add(ident("c"))
	require.Equal(t, 1, scope.EndScope())
	require.Equal(t, 2, scope.EndScope())
	require.Equal(t, 0, scope.Depth())
	require.Nil(t, scope.Locals())
	require.Equal(t, ScriptKind, scope.Kind())
	require.Nil(t, scope.Enclosing())
}
