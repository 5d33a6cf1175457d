// Package dis disassembles compiled tapevm programs into a readable listing.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudcmds/tapevm/compiler"
	"github.com/cloudcmds/tapevm/op"
)

// Row is one line of a disassembly listing.
type Row struct {
	Offset   int
	Opcode   string
	Operand  string // empty when the opcode has no operand
	Location string // "line:column", zero-based
}

// Disassemble returns one Row per instruction of the compiled code.
func Disassemble(code *compiler.Code) []Row {
	count := code.InstructionCount()
	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		instr := code.Instruction(i)
		info := op.GetInfo(instr.Op)
		operand := ""
		if info.HasOperand {
			operand = strconv.Itoa(instr.Operand)
		}
		loc := code.LocationAt(i)
		rows = append(rows, Row{
			Offset:   i,
			Opcode:   info.Name,
			Operand:  operand,
			Location: fmt.Sprintf("%d:%d", loc.Line, loc.Column),
		})
	}
	return rows
}

// Print writes the disassembly of the compiled code to w as an ASCII table.
func Print(code *compiler.Code, w io.Writer) error {
	rows := Disassemble(code)

	offsetWidth := len("OFFSET")
	opcodeWidth := len("OPCODE")
	operandWidth := len("OPERAND")
	locationWidth := len("LOCATION")
	for _, row := range rows {
		offsetWidth = max(offsetWidth, len(strconv.Itoa(row.Offset)))
		opcodeWidth = max(opcodeWidth, len(row.Opcode))
		operandWidth = max(operandWidth, len(row.Operand))
		locationWidth = max(locationWidth, len(row.Location))
	}

	border := fmt.Sprintf("+-%s-+-%s-+-%s-+-%s-+\n",
		strings.Repeat("-", offsetWidth),
		strings.Repeat("-", opcodeWidth),
		strings.Repeat("-", operandWidth),
		strings.Repeat("-", locationWidth))

	if _, err := io.WriteString(w, border); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "| %*s | %-*s | %*s | %-*s |\n",
		offsetWidth, "OFFSET",
		opcodeWidth, "OPCODE",
		operandWidth, "OPERAND",
		locationWidth, "LOCATION"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, border); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "| %*d | %-*s | %*s | %-*s |\n",
			offsetWidth, row.Offset,
			opcodeWidth, row.Opcode,
			operandWidth, row.Operand,
			locationWidth, row.Location); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, border); err != nil {
		return err
	}
	return nil
}
