// Package errors defines structured error types with source locations for
// compile-time and run-time diagnostics.
package errors

import (
	"fmt"
)

// SourceLocation represents a position in source code. Line and Column are
// zero-based and counted in characters, not bytes.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// LineNumber returns the 1-based line number for this location.
func (s SourceLocation) LineNumber() int {
	return s.Line + 1
}

// ColumnNumber returns the 1-based column number for this location.
func (s SourceLocation) ColumnNumber() int {
	return s.Column + 1
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// CompileError indicates that source code could not be compiled. Location is
// nil for errors with no position in the source, such as a failed read from
// a streaming source.
type CompileError struct {
	Code     ErrorCode
	Message  string
	Location *SourceLocation
	Source   string // shared handle to the original source text
	Err      error
}

func (e *CompileError) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("compile error: %s (%d:%d)",
			e.Message, e.Location.Line, e.Location.Column)
	}
	return fmt.Sprintf("compile error: %s", e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e)
}

// NewCompileError creates a CompileError located at the given position.
func NewCompileError(code ErrorCode, loc SourceLocation, source string) *CompileError {
	return &CompileError{
		Code:     code,
		Message:  code.Description(),
		Location: &loc,
		Source:   source,
	}
}

// NewSourceReadError creates a CompileError wrapping a failed read from a
// streaming source.
func NewSourceReadError(err error) *CompileError {
	return &CompileError{
		Code:    E1004,
		Message: fmt.Sprintf("%s: %v", E1004.Description(), err),
		Err:     err,
	}
}

// LimitError indicates that an execution exceeded a configured resource
// ceiling. Limit holds the configured value that was exceeded. Output holds
// whatever output the execution produced before failing, when the entry
// point captured it; with caller-supplied streams the partial output is
// already on the caller's sink and Output is nil.
type LimitError struct {
	Code     ErrorCode
	Limit    int64
	Location SourceLocation
	Source   string
	Output   []byte
}

func (e *LimitError) Error() string {
	switch e.Code {
	case E3002:
		return fmt.Sprintf("run error: memory limit reached (%d bytes)", e.Limit)
	default:
		return fmt.Sprintf("run error: step limit reached (%d)", e.Limit)
	}
}

func (e *LimitError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e)
}

// NewStepLimitError creates a LimitError for an exceeded step ceiling.
// The location identifies the instruction that would have executed next.
func NewStepLimitError(limit int64, loc SourceLocation, source string) *LimitError {
	return &LimitError{Code: E3001, Limit: limit, Location: loc, Source: source}
}

// NewMemoryLimitError creates a LimitError for an exceeded tape-size ceiling.
func NewMemoryLimitError(limit int64) *LimitError {
	return &LimitError{Code: E3002, Limit: limit}
}

// IOError marks a failure that originated in a caller-supplied input or
// output stream rather than in the interpreter itself. The underlying
// stream error is propagated verbatim via Unwrap.
type IOError struct {
	Code     ErrorCode
	Location SourceLocation
	Source   string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("run error: %s: %v", e.Code.Description(), e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e)
}

// NewInputError creates an IOError for a failed read from the input source.
func NewInputError(err error, loc SourceLocation, source string) *IOError {
	return &IOError{Code: E3003, Location: loc, Source: source, Err: err}
}

// NewOutputError creates an IOError for a failed write to the output sink.
func NewOutputError(err error, loc SourceLocation, source string) *IOError {
	return &IOError{Code: E3004, Location: loc, Source: source, Err: err}
}
