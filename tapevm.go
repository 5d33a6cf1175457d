// Package tapevm compiles and executes programs written in a minimal,
// Turing-complete tape-machine language: eight single-character instructions
// operating on a byte-addressable, bidirectionally unbounded memory tape.
//
// A compiled Program is immutable and safe for concurrent use; it may be
// executed any number of times against different input and output streams,
// with per-execution resource ceilings on tape size and step count.
package tapevm

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/tapevm/compiler"
	"github.com/cloudcmds/tapevm/errors"
	"github.com/cloudcmds/tapevm/vm"
)

const (
	// DefaultEvalMaxSteps is the step ceiling applied by Eval when no
	// explicit limit is given, so an accidental infinite loop cannot hang
	// a caller.
	DefaultEvalMaxSteps int64 = 5_000_000

	// DefaultEvalMaxMemBytes is the tape-size ceiling applied by Eval when
	// no explicit limit is given.
	DefaultEvalMaxMemBytes = 1 << 20
)

// Option configures a tapevm compilation or execution.
type Option func(*options)

type options struct {
	filename             string
	debugChar            bool
	maxSteps             int64
	maxMemBytes          int
	contextCheckInterval int
	observer             vm.Observer
}

func collectOptions(opts ...Option) *options {
	o := &options{
		maxSteps:             -1,
		maxMemBytes:          -1,
		contextCheckInterval: -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	var opts []compiler.Option
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	if o.debugChar {
		opts = append(opts, compiler.WithDebugChar())
	}
	return opts
}

func (o *options) vmOpts(input io.Reader, output io.Writer) []vm.Option {
	opts := []vm.Option{vm.WithInput(input), vm.WithOutput(output)}
	if o.maxSteps >= 0 {
		opts = append(opts, vm.WithMaxSteps(o.maxSteps))
	}
	if o.maxMemBytes >= 0 {
		opts = append(opts, vm.WithMaxMemBytes(o.maxMemBytes))
	}
	if o.contextCheckInterval >= 0 {
		opts = append(opts, vm.WithContextCheckInterval(o.contextCheckInterval))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used for error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithDebugChar enables the extended instruction set, in which `?` emits
// the current pointer address and cell value as `[<address>,<cell>]`.
func WithDebugChar() Option {
	return func(o *options) {
		o.debugChar = true
	}
}

// WithMaxSteps sets the maximum number of instruction steps an execution
// may take before failing with a step-limit error.
func WithMaxSteps(maxSteps int64) Option {
	return func(o *options) {
		o.maxSteps = maxSteps
	}
}

// WithMaxMemBytes sets the maximum tape size in bytes for an execution.
func WithMaxMemBytes(maxMemBytes int) Option {
	return func(o *options) {
		o.maxMemBytes = maxMemBytes
	}
}

// WithContextCheckInterval sets how often an execution checks ctx.Done(),
// in number of instructions. A value of 0 disables checking.
func WithContextCheckInterval(interval int) Option {
	return func(o *options) {
		o.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events. The observer
// receives a callback per executed instruction.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Compile compiles source text into an executable Program. The returned
// Program is immutable and safe for concurrent use: multiple goroutines can
// execute the same Program simultaneously.
func Compile(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	code, err := compiler.Compile(source, o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	return &Program{code: code}, nil
}

// CompileReader compiles source read from a byte stream. A failed read is
// reported as a compile error wrapping the underlying stream error.
func CompileReader(r io.Reader, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	code, err := compiler.CompileReader(r, o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	return &Program{code: code}, nil
}

// Run executes a compiled program with explicit input and output streams.
// Output is a side effect on the provided sink, not a return value. Limits
// default to effectively unbounded; set ceilings with WithMaxSteps and
// WithMaxMemBytes. Each call creates fresh runtime state, allowing
// concurrent execution of the same Program.
func Run(ctx context.Context, program *Program, input io.Reader, output io.Writer, opts ...Option) error {
	o := collectOptions(opts...)
	return vm.Run(ctx, program.code, o.vmOpts(input, output)...)
}

// Eval is a convenience that compiles and runs source code, returning the
// captured output as text. Unlike Run, it applies conservative default
// resource ceilings (DefaultEvalMaxSteps, DefaultEvalMaxMemBytes) unless
// explicit limits are given. On failure it returns the output produced
// before the failure along with the error; limit errors additionally carry
// the output bytes.
func Eval(ctx context.Context, source, input string, opts ...Option) (string, error) {
	o := collectOptions(opts...)
	if o.maxSteps < 0 {
		o.maxSteps = DefaultEvalMaxSteps
	}
	if o.maxMemBytes < 0 {
		o.maxMemBytes = DefaultEvalMaxMemBytes
	}

	code, err := compiler.Compile(source, o.compilerOpts()...)
	if err != nil {
		return "", err
	}

	var output bytes.Buffer
	if err := vm.Run(ctx, code, o.vmOpts(strings.NewReader(input), &output)...); err != nil {
		var limitErr *errors.LimitError
		if stderrors.As(err, &limitErr) {
			limitErr.Output = append([]byte(nil), output.Bytes()...)
		}
		return output.String(), err
	}
	return output.String(), nil
}

// Check compiles each of the given sources, keyed by name, and aggregates
// every compile diagnostic into a single error. A nil result means every
// source compiled. Sources are checked in name order for deterministic
// reporting.
func Check(sources map[string]string, opts ...Option) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var result *multierror.Error
	for _, name := range names {
		combined := append(append([]Option(nil), opts...), WithFilename(name))
		if _, err := Compile(sources[name], combined...); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
