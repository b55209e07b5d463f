package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type testObject struct{ name string }

func (o *testObject) Type() string   { return "test" }
func (o *testObject) String() string { return o.name }

func TestConstructors(t *testing.T) {
	require.True(t, Bool(true).IsBool())
	require.True(t, Bool(true).AsBool())
	require.False(t, Bool(false).AsBool())
	require.True(t, Null().IsNull())
	require.True(t, Number(2.5).IsNumber())
	require.Equal(t, 2.5, Number(2.5).AsNumber())

	obj := &testObject{name: "x"}
	v := FromObject(obj)
	require.True(t, v.IsObject())
	require.Same(t, obj, v.AsObject())
	require.True(t, FromObject(nil).IsNull())
}

func TestZeroValueIsFalse(t *testing.T) {
	var v Value
	require.Equal(t, BoolKind, v.Kind())
	require.False(t, v.AsBool())
}

func TestGuardedAccessPanics(t *testing.T) {
	require.PanicsWithValue(t, "value: accessing null value as number", func() {
		Null().AsNumber()
	})
	require.Panics(t, func() { Number(1).AsBool() })
	require.Panics(t, func() { Bool(true).AsObject() })
}

func TestIsFalsey(t *testing.T) {
	tests := []struct {
		value  Value
		falsey bool
	}{
		{Null(), true},
		{Bool(false), true},
		{Bool(true), false},
		{Number(0), true},
		{Number(1), false},
		{Number(-0.5), false},
		{FromObject(&testObject{}), false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.falsey, tt.value.IsFalsey(), tt.value.String())
	}
}

func TestEqual(t *testing.T) {
	a := &testObject{name: "a"}
	b := &testObject{name: "a"}
	require.True(t, Null().Equal(Null()))
	require.True(t, Number(3).Equal(Number(3)))
	require.False(t, Number(3).Equal(Number(4)))
	require.True(t, Bool(true).Equal(Bool(true)))
	require.False(t, Bool(false).Equal(Null()))
	require.False(t, Number(0).Equal(Bool(false)))
	require.True(t, FromObject(a).Equal(FromObject(a)))
	require.False(t, FromObject(a).Equal(FromObject(b)))
	require.False(t, Number(math.NaN()).Equal(Number(math.NaN())))
}

func TestString(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Null(), "null"},
		{Number(1), "1"},
		{Number(-2.5), "-2.5"},
		{Number(100), "100"},
		{Number(0.1), "0.1"},
		{Number(1.0 / 3.0), "0.3333333333333333"},
		{Number(1e21), "1e+21"},
		{Number(1e-7), "1e-07"},
		{Number(math.Inf(1)), "inf"},
		{Number(math.Inf(-1)), "-inf"},
		{Number(math.NaN()), "nan"},
		{FromObject(&testObject{name: "obj"}), "obj"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "number", Number(1).TypeName())
	require.Equal(t, "bool", Bool(true).TypeName())
	require.Equal(t, "null", Null().TypeName())
	require.Equal(t, "test", FromObject(&testObject{}).TypeName())
}
