// Package vm provides a VirtualMachine that executes compiled tapevm code.
package vm

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/cloudcmds/tapevm/compiler"
	"github.com/cloudcmds/tapevm/errors"
	"github.com/cloudcmds/tapevm/op"
)

const (
	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrHalted is returned when an observer stops execution by returning false
// from a callback.
var ErrHalted = stderrors.New("execution halted by observer")

// VirtualMachine executes one compiled program against caller-supplied
// input and output streams. The compiled code is shared and immutable; all
// mutable execution state (tape, counters) is owned by the machine, so any
// number of machines may run the same code concurrently. A single machine
// must not be run concurrently with itself.
type VirtualMachine struct {
	ip          int   // instruction pointer
	steps       int64 // instruction steps executed
	tape        *Tape
	main        *compiler.Code
	input       io.Reader
	output      io.Writer
	maxSteps    int64
	maxMemBytes int
	running     bool
	runMutex    sync.Mutex
	inputBuf    [1]byte

	// contextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// observer receives a callback per executed instruction. If nil, no
	// callbacks are made.
	observer Observer
}

// New creates a new Virtual Machine for the given compiled code.
func New(main *compiler.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		tape:                 NewTape(),
		output:               io.Discard,
		maxSteps:             math.MaxInt64,
		maxMemBytes:          math.MaxInt,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		if opt != nil {
			opt(vm)
		}
	}
	return vm
}

func (m *VirtualMachine) start() error {
	m.runMutex.Lock()
	defer m.runMutex.Unlock()
	if m.running {
		return fmt.Errorf("vm is already running")
	}
	m.running = true
	return nil
}

func (m *VirtualMachine) stop() {
	m.runMutex.Lock()
	defer m.runMutex.Unlock()
	m.running = false
}

// Run executes the program to completion. Normal termination occurs when
// the instruction pointer runs past the end of the instruction sequence.
func (m *VirtualMachine) Run(ctx context.Context) error {
	if m.main == nil {
		return fmt.Errorf("no main code available")
	}
	if err := m.start(); err != nil {
		return err
	}
	defer m.stop()
	return m.eval(ctx)
}

// Steps returns the number of instruction steps executed so far.
func (m *VirtualMachine) Steps() int64 {
	return m.steps
}

func (m *VirtualMachine) eval(ctx context.Context) error {
	code := m.main
	count := code.InstructionCount()
	done := ctx.Done()

	for m.ip < count {
		m.steps++
		if m.steps > m.maxSteps {
			// The location identifies the instruction that would have
			// executed next.
			return errors.NewStepLimitError(m.maxSteps, code.LocationAt(m.ip), code.Source())
		}
		if done != nil && m.contextCheckInterval > 0 && m.steps%int64(m.contextCheckInterval) == 0 {
			select {
			case <-done:
				return ctx.Err()
			default:
			}
		}

		instr := code.Instruction(m.ip)
		if m.observer != nil {
			event := StepEvent{
				IP:       m.ip,
				Opcode:   instr.Op,
				Operand:  instr.Operand,
				Pointer:  m.tape.Logical(),
				Cell:     m.tape.Cell(),
				Steps:    m.steps,
				Location: code.LocationAt(m.ip),
			}
			if !m.observer.OnStep(event) {
				return ErrHalted
			}
		}

		switch instr.Op {
		case op.Add:
			m.tape.Add(byte(instr.Operand))

		case op.Move:
			if err := m.tape.Move(instr.Operand, m.maxMemBytes); err != nil {
				var limitErr *errors.LimitError
				if stderrors.As(err, &limitErr) {
					limitErr.Location = code.LocationAt(m.ip)
					limitErr.Source = code.Source()
				}
				return err
			}

		case op.LoopBegin:
			if m.tape.Cell() == 0 {
				m.ip = instr.Operand
			}

		case op.LoopEnd:
			if m.tape.Cell() != 0 {
				m.ip = instr.Operand
			}

		case op.Output:
			if _, err := m.output.Write([]byte{m.tape.Cell()}); err != nil {
				return errors.NewOutputError(err, code.LocationAt(m.ip), code.Source())
			}

		case op.Input:
			value, err := m.readByte()
			if err != nil {
				return errors.NewInputError(err, code.LocationAt(m.ip), code.Source())
			}
			m.tape.SetCell(value)

		case op.Debug:
			if _, err := fmt.Fprintf(m.output, "[%d,%d]", m.tape.Logical(), m.tape.Cell()); err != nil {
				return errors.NewOutputError(err, code.LocationAt(m.ip), code.Source())
			}
		}

		m.ip++
	}
	return nil
}

// readByte reads one byte from the input source. End of input is not an
// error: the returned byte is zero. A nil input behaves as an empty stream.
func (m *VirtualMachine) readByte() (byte, error) {
	if m.input == nil {
		return 0, nil
	}
	for {
		n, err := m.input.Read(m.inputBuf[:])
		if n > 0 {
			return m.inputBuf[0], nil
		}
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
