// Package vm provides a VirtualMachine that executes compiled Lox bytecode.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/lox/errz"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/op"
	"github.com/deepnoodle-ai/lox/value"
	"github.com/rs/zerolog"
)

const (
	MaxFrames  = 64
	FrameSlots = 256
	StackMax   = MaxFrames * FrameSlots

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var (
	// ErrAlreadyRunning is returned when Interpret is called on a VM that is
	// executing another function.
	ErrAlreadyRunning = errors.New("vm is already running")

	// ErrHalted is the cause of the error returned when an observer stops
	// execution.
	ErrHalted = errors.New("execution halted by observer")
)

// stackFault is raised by push, pop and peek. Interpret recovers it and
// converts it to a runtime error.
type stackFault string

type VirtualMachine struct {
	heap       *object.Heap
	stack      []value.Value
	sp         int // number of values on the stack
	frames     [MaxFrames]CallFrame
	frameCount int
	out        io.Writer
	log        zerolog.Logger
	trace      bool
	running    bool
	runMutex   sync.Mutex

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// observer receives callbacks for execution events. If nil, no callbacks
	// are made.
	observer Observer
}

// New creates a Virtual Machine that allocates from and resolves globals in
// heap. The heap is normally shared with the compiler that produced the code.
func New(heap *object.Heap, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		heap:                 heap,
		stack:                make([]value.Value, StackMax),
		out:                  os.Stdout,
		log:                  zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

func (vm *VirtualMachine) Heap() *object.Heap {
	return vm.heap
}

// DefineNative binds a native function to a global variable.
func (vm *VirtualMachine) DefineNative(name string, arity int, fn object.NativeFn) *object.NativeFunction {
	return vm.heap.DefineNative(name, arity, fn)
}

// StackSize returns the number of values on the stack. It is zero whenever
// the VM is idle.
func (vm *VirtualMachine) StackSize() int {
	return vm.sp
}

// FrameCount returns the number of active call frames.
func (vm *VirtualMachine) FrameCount() int {
	return vm.frameCount
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return ErrAlreadyRunning
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Interpret executes fn, normally the script function returned by the
// compiler, until it returns. Globals defined by fn remain in the heap, so a
// VM can run successive pieces of code that build on each other. A runtime
// error aborts execution and leaves the stack and frames empty.
func (vm *VirtualMachine) Interpret(ctx context.Context, fn *object.Function) (err error) {
	if fn == nil {
		return errors.New("vm: nil function")
	}
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = vm.recoverError(r)
		}
		if err != nil {
			vm.log.Debug().Err(err).Msg("runtime error")
			vm.reset()
		}
		vm.stop()
	}()

	vm.reset()
	vm.push(value.FromObject(fn))
	if err := vm.call(fn, 0); err != nil {
		return err
	}
	return vm.run(ctx)
}

func (vm *VirtualMachine) run(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	frame := &vm.frames[vm.frameCount-1]
	chunk := frame.function.Chunk()

	for {
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return vm.runtimeError(errz.ErrRuntime, "Execution cancelled.").WithCause(ctx.Err())
				default:
				}
			}
		}

		if frame.ip >= chunk.Len() {
			return vm.runtimeError(errz.ErrRuntime, "Instruction pointer %d out of range.", frame.ip)
		}
		opcode := op.Code(chunk.Byte(frame.ip))

		if vm.trace {
			vm.traceInstruction(frame, opcode)
		}
		if vm.observer != nil {
			event := StepEvent{
				IP:         frame.ip,
				Opcode:     opcode,
				OpcodeName: opcode.String(),
				Line:       chunk.Line(frame.ip),
				Function:   frame.FunctionName(),
				StackDepth: vm.sp,
				FrameDepth: vm.frameCount,
			}
			if !vm.observer.OnStep(event) {
				return vm.halted()
			}
		}
		frame.ip++

		switch opcode {
		case op.Constant:
			vm.push(chunk.Constant(int(vm.readByte(frame))))
		case op.True:
			vm.push(value.Bool(true))
		case op.False:
			vm.push(value.Bool(false))
		case op.Null:
			vm.push(value.Null())
		case op.Pop:
			vm.pop()
		case op.Add:
			b, a := vm.peek(0), vm.peek(1)
			if a.IsNumber() && b.IsNumber() {
				vm.pop()
				vm.pop()
				vm.push(value.Number(a.AsNumber() + b.AsNumber()))
				break
			}
			as, aok := object.AsString(a)
			bs, bok := object.AsString(b)
			if !aok || !bok {
				return vm.typeError("Operands must be two numbers or two strings.")
			}
			vm.pop()
			vm.pop()
			vm.push(value.FromObject(vm.heap.Concatenate(as, bs)))
		case op.Subtract, op.Multiply, op.Divide,
			op.Greater, op.GreaterEqual, op.Less, op.LessEqual:
			a, b, ok := vm.numberOperands()
			if !ok {
				return vm.typeError("Operands must be numbers.")
			}
			vm.push(arithmetic(opcode, a, b))
		case op.Equal:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Equal(b)))
		case op.NotEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(!a.Equal(b)))
		case op.Not:
			vm.push(value.Bool(vm.pop().IsFalsey()))
		case op.Negate:
			if !vm.peek(0).IsNumber() {
				return vm.typeError("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))
		case op.GetLocal:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.base+slot+1])
		case op.SetLocal:
			slot := int(vm.readByte(frame))
			vm.stack[frame.base+slot+1] = vm.peek(0)
		case op.GetGlobal:
			name := vm.readString(frame)
			v, ok := vm.heap.LookupGlobal(name)
			if !ok {
				return vm.undefinedVariable(name)
			}
			vm.push(v)
		case op.SetGlobal:
			name := vm.readString(frame)
			if !vm.heap.SetGlobal(name, vm.peek(0)) {
				vm.heap.DeleteGlobal(name)
				return vm.undefinedVariable(name)
			}
		case op.DefineGlobal:
			name := vm.readString(frame)
			if _, exists := vm.heap.LookupGlobal(name); exists {
				return vm.runtimeError(errz.ErrName, "Variable '%s' is already defined.", name.Value())
			}
			vm.heap.SetGlobal(name, vm.peek(0))
			vm.pop()
		case op.Jump:
			offset := vm.readShort(frame)
			frame.ip += offset
		case op.JumpIfFalse:
			offset := vm.readShort(frame)
			if vm.peek(0).IsFalsey() {
				frame.ip += offset
			}
		case op.Loop:
			offset := vm.readShort(frame)
			frame.ip -= offset
		case op.Call:
			argCount := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]
			chunk = frame.function.Chunk()
		case op.Return:
			result := vm.pop()
			vm.frameCount--
			if vm.observer != nil {
				event := ReturnEvent{
					FunctionName: frame.FunctionName(),
					Line:         frame.Line(),
					FrameDepth:   vm.frameCount,
				}
				if !vm.observer.OnReturn(event) {
					return vm.halted()
				}
			}
			if vm.frameCount == 0 {
				vm.reset()
				return nil
			}
			vm.truncate(frame.base)
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]
			chunk = frame.function.Chunk()
		case op.Print:
			if _, err := fmt.Fprintln(vm.out, vm.pop().String()); err != nil {
				return vm.runtimeError(errz.ErrRuntime, "Print failed: %v", err).WithCause(err)
			}
		default:
			return vm.runtimeError(errz.ErrRuntime, "Unknown opcode %d.", byte(opcode))
		}
	}
}

func arithmetic(code op.Code, a, b float64) value.Value {
	switch code {
	case op.Subtract:
		return value.Number(a - b)
	case op.Multiply:
		return value.Number(a * b)
	case op.Divide:
		return value.Number(a / b)
	case op.Greater:
		return value.Bool(a > b)
	case op.GreaterEqual:
		return value.Bool(a >= b)
	case op.Less:
		return value.Bool(a < b)
	case op.LessEqual:
		return value.Bool(a <= b)
	}
	panic(fmt.Sprintf("vm: %s is not an arithmetic opcode", code))
}

// numberOperands pops the two topmost values if both are numbers. The stack
// is left untouched otherwise.
func (vm *VirtualMachine) numberOperands() (a, b float64, ok bool) {
	bv, av := vm.peek(0), vm.peek(1)
	if !av.IsNumber() || !bv.IsNumber() {
		return 0, 0, false
	}
	vm.pop()
	vm.pop()
	return av.AsNumber(), bv.AsNumber(), true
}

func (vm *VirtualMachine) callValue(callee value.Value, argCount int) error {
	if fn, ok := object.AsFunction(callee); ok {
		return vm.call(fn, argCount)
	}
	if native, ok := object.AsNative(callee); ok {
		return vm.callNative(native, argCount)
	}
	return vm.typeError("Can only call functions and classes.")
}

// call pushes a frame for fn. The callee and its arguments are already on
// the stack.
func (vm *VirtualMachine) call(fn *object.Function, argCount int) error {
	if argCount != fn.Arity() {
		return vm.runtimeError(errz.ErrArgs, "Expected %d arguments but got %d.", fn.Arity(), argCount)
	}
	if vm.frameCount == MaxFrames {
		return vm.runtimeError(errz.ErrStack, "Stack overflow.")
	}
	line := 0
	if vm.frameCount > 0 {
		line = vm.frames[vm.frameCount-1].Line()
	}
	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.function = fn
	frame.ip = 0
	frame.base = vm.sp - argCount - 1

	if vm.observer != nil {
		event := CallEvent{
			FunctionName: frame.FunctionName(),
			ArgCount:     argCount,
			Line:         line,
			FrameDepth:   vm.frameCount,
		}
		if !vm.observer.OnCall(event) {
			return vm.halted()
		}
	}
	return nil
}

// callNative runs native synchronously on the arguments in place. Its result
// replaces the callee and the arguments.
func (vm *VirtualMachine) callNative(native *object.NativeFunction, argCount int) error {
	if argCount != native.Arity() {
		return vm.runtimeError(errz.ErrArgs, "Expected %d arguments but got %d.", native.Arity(), argCount)
	}
	site := &vm.frames[vm.frameCount-1]
	if vm.observer != nil {
		event := CallEvent{
			FunctionName: native.Name(),
			Native:       true,
			ArgCount:     argCount,
			Line:         site.Line(),
			FrameDepth:   vm.frameCount,
		}
		if !vm.observer.OnCall(event) {
			return vm.halted()
		}
	}

	var failed bool
	var message string
	fail := func(msg string) {
		failed = true
		message = msg
	}
	result := native.Call(vm.stack[vm.sp-argCount:vm.sp], site, fail)
	if failed {
		return vm.runtimeError(errz.ErrNative, "%s", message)
	}
	vm.truncate(vm.sp - argCount - 1)
	vm.push(result)
	return nil
}

func (vm *VirtualMachine) readByte(frame *CallFrame) byte {
	b := frame.function.Chunk().Byte(frame.ip)
	frame.ip++
	return b
}

func (vm *VirtualMachine) readShort(frame *CallFrame) int {
	n := frame.function.Chunk().ReadShort(frame.ip)
	frame.ip += 2
	return int(n)
}

func (vm *VirtualMachine) readString(frame *CallFrame) *object.String {
	c := frame.function.Chunk().Constant(int(vm.readByte(frame)))
	return c.AsObject().(*object.String)
}

func (vm *VirtualMachine) push(v value.Value) {
	if vm.sp == len(vm.stack) {
		panic(stackFault("Stack overflow."))
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VirtualMachine) pop() value.Value {
	if vm.sp == 0 {
		panic(stackFault("Stack empty on pop."))
	}
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = value.Null()
	return v
}

// peek returns the value distance slots below the top of the stack.
func (vm *VirtualMachine) peek(distance int) value.Value {
	index := vm.sp - 1 - distance
	if index < 0 {
		panic(stackFault("Stack empty on peek."))
	}
	return vm.stack[index]
}

// truncate drops every value at or above index sp.
func (vm *VirtualMachine) truncate(sp int) {
	for i := sp; i < vm.sp; i++ {
		vm.stack[i] = value.Null()
	}
	vm.sp = sp
}

func (vm *VirtualMachine) reset() {
	vm.truncate(0)
	vm.frameCount = 0
}

// captureStack builds a stack trace from the active call frames, innermost
// first.
func (vm *VirtualMachine) captureStack() []errz.StackFrame {
	frames := make([]errz.StackFrame, 0, vm.frameCount)
	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		frames = append(frames, errz.StackFrame{
			Function: frame.function.Name(),
			Line:     frame.Line(),
		})
	}
	return frames
}

// runtimeError creates a RuntimeError carrying the current stack trace.
func (vm *VirtualMachine) runtimeError(kind errz.ErrorKind, format string, args ...any) *errz.RuntimeError {
	return errz.NewRuntimeError(kind, vm.captureStack(), format, args...)
}

func (vm *VirtualMachine) typeError(format string, args ...any) *errz.RuntimeError {
	return vm.runtimeError(errz.ErrType, format, args...)
}

func (vm *VirtualMachine) undefinedVariable(name *object.String) *errz.RuntimeError {
	err := vm.runtimeError(errz.ErrName, "Undefined variable '%s'.", name.Value())
	if suggestions := errz.SuggestSimilar(name.Value(), vm.heap.GlobalNames()); len(suggestions) > 0 {
		err.WithHint(errz.FormatSuggestions(suggestions))
	}
	return err
}

func (vm *VirtualMachine) halted() *errz.RuntimeError {
	return vm.runtimeError(errz.ErrRuntime, "Execution halted.").WithCause(ErrHalted)
}

func (vm *VirtualMachine) recoverError(r any) error {
	if fault, ok := r.(stackFault); ok {
		return vm.runtimeError(errz.ErrStack, "%s", string(fault))
	}
	return vm.runtimeError(errz.ErrRuntime, "panic: %v", r)
}

func (vm *VirtualMachine) traceInstruction(frame *CallFrame, code op.Code) {
	var stack strings.Builder
	for _, v := range vm.stack[:vm.sp] {
		fmt.Fprintf(&stack, "[ %s ]", v.String())
	}
	vm.log.Debug().
		Str("fn", frame.FunctionName()).
		Int("ip", frame.ip).
		Str("op", code.String()).
		Int("line", frame.function.Chunk().Line(frame.ip)).
		Str("stack", stack.String()).
		Msg("exec")
}
