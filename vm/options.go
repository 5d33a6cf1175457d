package vm

import "io"

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithInput sets the input byte source. When a program executes an input
// instruction past the end of this stream, the current cell is set to zero.
// By default the input is empty.
func WithInput(input io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = input
	}
}

// WithOutput sets the output byte sink. By default output is discarded.
func WithOutput(output io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = output
	}
}

// WithMaxSteps sets the maximum number of instruction steps the machine may
// execute before failing with a step-limit error. The default is effectively
// unbounded.
func WithMaxSteps(maxSteps int64) Option {
	return func(vm *VirtualMachine) {
		vm.maxSteps = maxSteps
	}
}

// WithMaxMemBytes sets the maximum tape size in bytes. Growth in either
// direction that would exceed this limit fails with a memory-limit error.
// The default is effectively unbounded.
func WithMaxMemBytes(maxMemBytes int) Option {
	return func(vm *VirtualMachine) {
		vm.maxMemBytes = maxMemBytes
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value
// of 0 disables checking. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events. The observer
// receives a callback per executed instruction, enabling tracers and
// profilers without modifying the interpreter core.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false from a callback halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
