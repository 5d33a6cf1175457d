package vm

import (
	"github.com/rs/zerolog"

	"github.com/cloudcmds/tapevm/errors"
	"github.com/cloudcmds/tapevm/op"
)

// Observer is an interface for observing VM execution events.
// Implementations can be used for tracing, profiling or debugging without
// modifying the interpreter core.
//
// Callbacks run synchronously during execution and should be fast.
type Observer interface {
	// OnStep is called once per executed instruction, before the
	// instruction's effects are applied. Returns false to halt execution
	// immediately.
	OnStep(event StepEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the instruction pointer (index into the instruction array).
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// Operand is the instruction's operand, if it has one.
	Operand int

	// Pointer is the logical (signed) tape address before the step.
	Pointer int

	// Cell is the value of the current cell before the step.
	Cell byte

	// Steps is the number of steps executed, including this one.
	Steps int64

	// Location is the source location of the instruction.
	Location errors.SourceLocation
}

// NoOpObserver is an Observer implementation that does nothing. Embed this
// in an observer to provide default implementations for methods it does not
// need.
type NoOpObserver struct{}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// TraceObserver logs every executed instruction at trace level. Attach it
// with WithObserver to follow an execution instruction by instruction.
type TraceObserver struct {
	logger zerolog.Logger
}

// NewTraceObserver creates a TraceObserver that logs through the given
// logger.
func NewTraceObserver(logger zerolog.Logger) *TraceObserver {
	return &TraceObserver{logger: logger}
}

func (o *TraceObserver) OnStep(event StepEvent) bool {
	o.logger.Trace().
		Int64("step", event.Steps).
		Int("ip", event.IP).
		Str("op", op.GetInfo(event.Opcode).Name).
		Int("operand", event.Operand).
		Int("pointer", event.Pointer).
		Uint8("cell", event.Cell).
		Str("location", event.Location.String()).
		Msg("step")
	return true
}

var _ Observer = (*TraceObserver)(nil)
