package compiler

import (
	"strings"

	"github.com/cloudcmds/tapevm/errors"
	"github.com/cloudcmds/tapevm/op"
)

// Instruction is one unit of compiled, executable behavior. The meaning of
// Operand depends on the opcode: the mod-256 addend for Add, the signed
// pointer displacement for Move, and the index of the matching partner for
// LoopBegin and LoopEnd.
type Instruction struct {
	Op      op.Code
	Operand int
}

// Code is the compiled representation of a source program. It is immutable
// after compilation and safe for concurrent use. Multiple virtual machines
// can execute the same Code simultaneously.
type Code struct {
	id           string
	instructions []Instruction
	source       string
	filename     string

	// Source map: one location per instruction for error reporting
	locations []errors.SourceLocation
}

// ID returns the unique identifier assigned to this code at compile time.
func (c *Code) ID() string {
	return c.id
}

func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

func (c *Code) Instruction(index int) Instruction {
	return c.instructions[index]
}

func (c *Code) Source() string {
	return c.source
}

func (c *Code) Filename() string {
	return c.filename
}

// LocationAt returns the source location for the instruction at the given
// index. If no location is recorded, an empty SourceLocation is returned.
func (c *Code) LocationAt(ip int) errors.SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return errors.SourceLocation{}
	}
	return c.locations[ip]
}

// LocationsCount returns the number of recorded source locations.
func (c *Code) LocationsCount() int {
	return len(c.locations)
}

// SourceLine returns the source code line at the given zero-based line
// number. If the line is out of range, an empty string is returned.
func (c *Code) SourceLine(line int) string {
	if c.source == "" || line < 0 {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if line >= len(lines) {
		return ""
	}
	return lines[line]
}

func (c *Code) emit(opcode op.Code, operand int, loc errors.SourceLocation) {
	c.instructions = append(c.instructions, Instruction{Op: opcode, Operand: operand})
	c.locations = append(c.locations, loc)
}

func (c *Code) lastInstruction() *Instruction {
	if len(c.instructions) == 0 {
		return nil
	}
	return &c.instructions[len(c.instructions)-1]
}
