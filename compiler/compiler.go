// Package compiler turns tape-machine source text into executable Code.
//
// Only eight punctuation characters are significant (plus `?` when the
// debug capability is enabled); every other character is inert and silently
// skipped, though newlines still advance line/column tracking so that
// diagnostics can point at exact source positions. Consecutive runs of
// `+`/`-` and `<`/`>` are coalesced into single instructions during the
// scan, and loop brackets are resolved into bidirectional jump targets.
package compiler

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/cloudcmds/tapevm/errors"
	"github.com/cloudcmds/tapevm/op"
	"github.com/gofrs/uuid"
)

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the filename associated with the compiled code.
// This is used for error messages.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithDebugChar enables the extended instruction set, in which `?` compiles
// to an instruction that emits the current pointer address and cell value.
// When disabled (the default), `?` is inert like any other insignificant
// character.
func WithDebugChar() Option {
	return func(c *Compiler) {
		c.debugChar = true
	}
}

// Compiler compiles tape-machine source text into Code.
type Compiler struct {
	filename  string
	debugChar bool
}

// New creates a new Compiler with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Compile is a convenience that compiles source text with a one-off Compiler.
func Compile(source string, opts ...Option) (*Code, error) {
	return New(opts...).Compile(source)
}

// CompileReader is a convenience that compiles a byte stream with a one-off
// Compiler.
func CompileReader(r io.Reader, opts ...Option) (*Code, error) {
	return New(opts...).CompileReader(r)
}

// Compile compiles the given source text.
func (c *Compiler) Compile(source string) (*Code, error) {
	return c.compile(strings.NewReader(source), source)
}

// CompileReader compiles source read from r. The source text is retained on
// the returned Code for diagnostics, exactly as with Compile.
func (c *Compiler) CompileReader(r io.Reader) (*Code, error) {
	return c.compile(r, "")
}

// openBracket records a pending `[` during bracket resolution.
type openBracket struct {
	index int // index of the LoopBegin instruction
	loc   errors.SourceLocation
}

func (c *Compiler) compile(r io.Reader, fullSource string) (*Code, error) {
	code := &Code{
		id:       uuid.Must(uuid.NewV4()).String(),
		filename: c.filename,
	}

	// When compiling from a stream, accumulate the text so the compiled
	// code still carries a shareable source handle for error rendering.
	var read strings.Builder
	sourceSoFar := func() string {
		if fullSource != "" {
			return fullSource
		}
		return read.String()
	}

	var stack []openBracket
	br := bufio.NewReader(r)
	line, column := 0, 0

	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewSourceReadError(err)
		}
		if fullSource == "" {
			read.WriteRune(ch)
		}
		loc := errors.SourceLocation{Filename: c.filename, Line: line, Column: column}
		if ch == '\n' {
			line++
			column = 0
		} else {
			column++
		}

		switch ch {
		case '+', '-':
			delta := byte(1)
			if ch == '-' {
				delta = 255
			}
			// Coalesce into the previous instruction when it is also an
			// Add. The merged instruction keeps the location of the run's
			// first character.
			if last := code.lastInstruction(); last != nil && last.Op == op.Add {
				last.Operand = int(byte(last.Operand) + delta)
				continue
			}
			code.emit(op.Add, int(delta), loc)

		case '<', '>':
			delta := 1
			if ch == '<' {
				delta = -1
			}
			if last := code.lastInstruction(); last != nil && last.Op == op.Move {
				merged, ok := addChecked(last.Operand, delta)
				if !ok {
					// Tape addresses are not modular, so displacement
					// overflow must fail fast rather than silently wrap.
					return nil, errors.NewCompileError(errors.E1003, loc, sourceSoFar())
				}
				last.Operand = merged
				continue
			}
			code.emit(op.Move, delta, loc)

		case '[':
			stack = append(stack, openBracket{index: len(code.instructions), loc: loc})
			code.emit(op.LoopBegin, -1, loc)

		case ']':
			if len(stack) == 0 {
				return nil, errors.NewCompileError(errors.E1001, loc, sourceSoFar())
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			end := len(code.instructions)
			code.instructions[open.index].Operand = end
			code.emit(op.LoopEnd, open.index, loc)

		case '.':
			code.emit(op.Output, 0, loc)

		case ',':
			code.emit(op.Input, 0, loc)

		case '?':
			if c.debugChar {
				code.emit(op.Debug, 0, loc)
			}
		}
	}

	if len(stack) > 0 {
		// Report the earliest remaining open bracket for a deterministic,
		// left-to-right-first diagnostic.
		return nil, errors.NewCompileError(errors.E1002, stack[0].loc, sourceSoFar())
	}

	code.source = sourceSoFar()
	return code, nil
}

func addChecked(a, b int) (int, bool) {
	if b > 0 && a > math.MaxInt-b {
		return 0, false
	}
	if b < 0 && a < math.MinInt-b {
		return 0, false
	}
	return a + b, true
}
