// Package builtins defines the default set of native functions.
package builtins

import (
	"fmt"
	"time"

	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/value"
)

// Builtin describes a native function before it is bound to a heap.
type Builtin struct {
	Name  string
	Arity int
	Fn    object.NativeFn
}

var now = time.Now

// Clock returns the number of milliseconds since the Unix epoch.
func Clock(args []value.Value, site object.CallSite, fail func(string)) value.Value {
	return value.Number(float64(now().UnixMilli()))
}

// Len returns the length in bytes of a string.
func Len(args []value.Value, site object.CallSite, fail func(string)) value.Value {
	s, ok := object.AsString(args[0])
	if !ok {
		fail(fmt.Sprintf("type error: len() expected a string (%s given)", args[0].TypeName()))
		return value.Null()
	}
	return value.Number(float64(s.Len()))
}

// String returns the textual form of any value as a string.
func String(heap *object.Heap) object.NativeFn {
	return func(args []value.Value, site object.CallSite, fail func(string)) value.Value {
		if _, ok := object.AsString(args[0]); ok {
			return args[0]
		}
		return value.FromObject(heap.CreateString(args[0].String()))
	}
}

// Type returns the type name of a value.
func Type(heap *object.Heap) object.NativeFn {
	return func(args []value.Value, site object.CallSite, fail func(string)) value.Value {
		return value.FromObject(heap.CreateString(args[0].TypeName()))
	}
}

// Builtins returns the native functions, bound to heap for the ones that
// allocate.
func Builtins(heap *object.Heap) []Builtin {
	return []Builtin{
		{Name: "clock", Arity: 0, Fn: Clock},
		{Name: "len", Arity: 1, Fn: Len},
		{Name: "str", Arity: 1, Fn: String(heap)},
		{Name: "type", Arity: 1, Fn: Type(heap)},
	}
}

// Define binds every builtin to a global variable in heap.
func Define(heap *object.Heap) {
	for _, b := range Builtins(heap) {
		heap.DefineNative(b.Name, b.Arity, b.Fn)
	}
}
