// Package object provides the heap-allocated Lox object types and the Heap
// that creates them.
//
// Objects are referenced from a value.Value and compare by identity. There
// is no collector: every object created through a Heap stays registered with
// it for the lifetime of the Heap.
//
// Type switches are used to get at a concrete type:
//
//	switch obj := v.AsObject().(type) {
//	case *object.String:
//		fmt.Println("string", obj.Value())
//	case *object.Function:
//		fmt.Println("function", obj.Name())
//	}
package object

import "github.com/deepnoodle-ai/lox/value"

// Type names of the object kinds.
const (
	STRING   = "string"
	FUNCTION = "function"
	NATIVE   = "native"
)

// AsString returns the String referenced by v, if any.
func AsString(v value.Value) (*String, bool) {
	if !v.IsObject() {
		return nil, false
	}
	s, ok := v.AsObject().(*String)
	return s, ok
}

// AsFunction returns the Function referenced by v, if any.
func AsFunction(v value.Value) (*Function, bool) {
	if !v.IsObject() {
		return nil, false
	}
	fn, ok := v.AsObject().(*Function)
	return fn, ok
}

// AsNative returns the NativeFunction referenced by v, if any.
func AsNative(v value.Value) (*NativeFunction, bool) {
	if !v.IsObject() {
		return nil, false
	}
	fn, ok := v.AsObject().(*NativeFunction)
	return fn, ok
}
