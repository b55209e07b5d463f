// Package lox compiles and runs Lox programs.
//
// The lower level packages (compiler, vm, object) can be used directly; this
// package wires them together:
//
//	err := lox.Eval(ctx, `print "hello";`)
package lox

import (
	"context"
	"io"

	"github.com/deepnoodle-ai/lox/builtins"
	"github.com/deepnoodle-ai/lox/compiler"
	"github.com/deepnoodle-ai/lox/internal/lexer"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/vm"
	"github.com/rs/zerolog"
)

// Option configures a Lox compilation or execution.
type Option func(*options)

type native struct {
	name  string
	arity int
	fn    object.NativeFn
}

type options struct {
	output               io.Writer
	logger               zerolog.Logger
	trace                bool
	observer             vm.Observer
	contextCheckInterval int
	withoutBuiltins      bool
	natives              []native
	filename             string
}

func collectOptions(opts ...Option) *options {
	o := &options{
		logger:               zerolog.Nop(),
		contextCheckInterval: vm.DefaultContextCheckInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	return []compiler.Option{compiler.WithLogger(o.logger)}
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{
		vm.WithLogger(o.logger),
		vm.WithTrace(o.trace),
		vm.WithContextCheckInterval(o.contextCheckInterval),
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// defineGlobals binds the builtins and any natives supplied with WithNative.
func (o *options) defineGlobals(heap *object.Heap) {
	if !o.withoutBuiltins {
		builtins.Define(heap)
	}
	for _, n := range o.natives {
		heap.DefineNative(n.name, n.arity, n.fn)
	}
}

// WithOutput sets the writer that print statements write to. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLogger sets the logger passed to the compiler and the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTrace logs every executed instruction together with the stack.
func WithTrace(enabled bool) Option {
	return func(o *options) {
		o.trace = enabled
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithContextCheckInterval sets the number of instructions between checks
// for context cancellation.
func WithContextCheckInterval(interval int) Option {
	return func(o *options) {
		o.contextCheckInterval = interval
	}
}

// WithoutBuiltins leaves out the default native functions (clock, len, str
// and type).
func WithoutBuiltins() Option {
	return func(o *options) {
		o.withoutBuiltins = true
	}
}

// WithNative defines an additional native function as a global. This option
// is additive. A native named like a builtin replaces it.
func WithNative(name string, arity int, fn object.NativeFn) Option {
	return func(o *options) {
		o.natives = append(o.natives, native{name: name, arity: arity, fn: fn})
	}
}

// WithFilename records the file the source was read from.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// Compile lexes and compiles source. The returned Program owns the heap its
// constants were allocated in. Compile errors are returned together.
func Compile(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	heap := object.NewHeap()
	main, err := compiler.Compile(heap, lexer.Tokenize(source), o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	return &Program{
		main:     main,
		heap:     heap,
		source:   source,
		filename: o.filename,
	}, nil
}

// Run executes a compiled program with fresh globals. The program itself is
// never modified, so it may be run any number of times, concurrently too.
func Run(ctx context.Context, p *Program, opts ...Option) error {
	o := collectOptions(opts...)
	heap := p.heap.Fork()
	o.defineGlobals(heap)
	return vm.New(heap, o.vmOpts()...).Interpret(ctx, p.main)
}

// Eval is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Run().
func Eval(ctx context.Context, source string, opts ...Option) error {
	p, err := Compile(source, opts...)
	if err != nil {
		return err
	}
	return Run(ctx, p, opts...)
}
