package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithOutput sets the writer that PRINT writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.out = w
	}
}

// WithLogger sets the logger used for trace output and lifecycle events.
func WithLogger(log zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.log = log
	}
}

// WithTrace enables a trace log event for every dispatched instruction,
// carrying the stack contents and the decoded instruction. Events are logged
// at debug level.
func WithTrace(enabled bool) Option {
	return func(vm *VirtualMachine) {
		vm.trace = enabled
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of
// 0 disables checking. The default is DefaultContextCheckInterval (1000).
//
// Lower values provide more responsive cancellation at a small cost per
// instruction.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// The observer receives callbacks for instruction steps, function calls,
// and function returns.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast. Returning false from any observer method
// halts execution with ErrHalted.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
