// Package op defines opcodes used by the tapevm compiler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Arithmetic and pointer movement
	Add  Code = 1
	Move Code = 2

	// Control flow
	LoopBegin Code = 10
	LoopEnd   Code = 11

	// Stream transfer
	Output Code = 20
	Input  Code = 21

	// Introspection (present only when the debug capability is enabled)
	Debug Code = 30
)

// Info contains information about an opcode.
type Info struct {
	Code       Code
	Name       string
	HasOperand bool
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand bool
	}
	ops := []opInfo{
		{Add, "ADD", true},
		{Move, "MOVE", true},
		{LoopBegin, "LOOP_BEGIN", true},
		{LoopEnd, "LOOP_END", true},
		{Output, "OUTPUT", false},
		{Input, "INPUT", false},
		{Debug, "DEBUG", false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:       o.op,
			Name:       o.name,
			HasOperand: o.operand,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}
