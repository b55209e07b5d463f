package object

import "github.com/deepnoodle-ai/lox/value"

// CallSite describes the frame a native function is called from.
type CallSite interface {
	// FunctionName returns the name of the calling function, or "script".
	FunctionName() string

	// Line returns the source line of the call instruction.
	Line() int
}

// NativeFn is the calling convention for functions implemented in Go. args
// aliases the caller's stack and must not be retained. Calling fail aborts
// the call with a runtime error carrying msg; the returned value is then
// ignored.
type NativeFn func(args []value.Value, site CallSite, fail func(msg string)) value.Value

// NativeFunction wraps a NativeFn together with its declared arity.
type NativeFunction struct {
	name  string
	arity int
	fn    NativeFn
}

func (n *NativeFunction) Type() string {
	return NATIVE
}

func (n *NativeFunction) Name() string {
	return n.name
}

func (n *NativeFunction) Arity() int {
	return n.arity
}

// Call invokes the wrapped function. The arity is not checked here.
func (n *NativeFunction) Call(args []value.Value, site CallSite, fail func(msg string)) value.Value {
	return n.fn(args, site, fail)
}

func (n *NativeFunction) String() string {
	return "<native fn>"
}
