package object

import (
	"sort"

	"github.com/deepnoodle-ai/lox/bytecode"
	"github.com/deepnoodle-ai/lox/value"
)

// Heap allocates objects, interns strings and owns the global variable
// table. Objects are never freed. A Heap is not safe for concurrent use.
type Heap struct {
	parent  *Heap
	objects []value.Object
	strings map[string]*String
	globals map[*String]value.Value
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{
		strings: map[string]*String{},
		globals: map[*String]value.Value{},
	}
}

// Fork returns a heap with an empty globals table that interns through h:
// strings already in h keep their identity, new ones are created in the
// fork. h is only read by its forks, so any number of forks may be used
// concurrently as long as nothing else writes to h.
func (h *Heap) Fork() *Heap {
	fork := NewHeap()
	fork.parent = h
	return fork
}

func (h *Heap) lookupString(s string) (*String, bool) {
	for heap := h; heap != nil; heap = heap.parent {
		if str, ok := heap.strings[s]; ok {
			return str, true
		}
	}
	return nil, false
}

// CreateString returns the interned string with the given content, creating
// it on first use.
func (h *Heap) CreateString(s string) *String {
	if str, ok := h.lookupString(s); ok {
		return str
	}
	str := &String{value: s}
	h.strings[s] = str
	h.objects = append(h.objects, str)
	return str
}

// Concatenate returns the interned concatenation of a and b.
func (h *Heap) Concatenate(a, b *String) *String {
	return h.CreateString(a.value + b.value)
}

// CreateFunction returns a new function with an empty chunk. A nil name
// creates the top-level script function.
func (h *Heap) CreateFunction(name *String) *Function {
	fn := &Function{name: name, chunk: bytecode.NewChunk()}
	h.objects = append(h.objects, fn)
	return fn
}

// CreateNative wraps fn as a native function object.
func (h *Heap) CreateNative(name string, arity int, fn NativeFn) *NativeFunction {
	native := &NativeFunction{name: name, arity: arity, fn: fn}
	h.objects = append(h.objects, native)
	return native
}

// SetGlobal binds name to v. It returns true if name was already bound, in
// which case its value is replaced.
func (h *Heap) SetGlobal(name *String, v value.Value) bool {
	_, existed := h.globals[name]
	h.globals[name] = v
	return existed
}

// GetGlobal returns the value bound to name, or null if it is unbound.
func (h *Heap) GetGlobal(name *String) value.Value {
	if v, ok := h.globals[name]; ok {
		return v
	}
	return value.Null()
}

// LookupGlobal returns the value bound to name and whether it is bound.
func (h *Heap) LookupGlobal(name *String) (value.Value, bool) {
	v, ok := h.globals[name]
	return v, ok
}

// DeleteGlobal removes the binding for name. It returns true if a binding
// was removed.
func (h *Heap) DeleteGlobal(name *String) bool {
	if _, ok := h.globals[name]; !ok {
		return false
	}
	delete(h.globals, name)
	return true
}

// DefineNative creates a native function and binds it to a global of the
// same name.
func (h *Heap) DefineNative(name string, arity int, fn NativeFn) *NativeFunction {
	native := h.CreateNative(name, arity, fn)
	h.SetGlobal(h.CreateString(name), value.FromObject(native))
	return native
}

// GlobalNames returns the names of all bound globals in sorted order.
func (h *Heap) GlobalNames() []string {
	names := make([]string, 0, len(h.globals))
	for name := range h.globals {
		names = append(names, name.value)
	}
	sort.Strings(names)
	return names
}

// ObjectCount returns the number of objects allocated so far, including
// those of the heap h was forked from.
func (h *Heap) ObjectCount() int {
	n := len(h.objects)
	if h.parent != nil {
		n += h.parent.ObjectCount()
	}
	return n
}

// StringCount returns the number of distinct interned strings visible to h.
func (h *Heap) StringCount() int {
	n := len(h.strings)
	if h.parent != nil {
		n += h.parent.StringCount()
	}
	return n
}
