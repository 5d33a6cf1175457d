package tapevm

import (
	"github.com/cloudcmds/tapevm/compiler"
)

// Program is the compiled representation of tape-machine source code.
// It is immutable after creation and safe for concurrent use. Multiple
// goroutines can execute the same Program simultaneously.
type Program struct {
	code *compiler.Code // Internal, immutable compiled code
}

// ID returns the unique identifier assigned to this program at compile time.
func (p *Program) ID() string {
	return p.code.ID()
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.code.Source()
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.code.Filename()
}

// InstructionCount returns the number of compiled instructions.
func (p *Program) InstructionCount() int {
	return p.code.InstructionCount()
}

// Code returns the internal compiler.Code for use by the VM and the
// disassembler.
func (p *Program) Code() *compiler.Code {
	return p.code
}
