package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// snippetContext is the maximum number of source characters shown on each
// side of the failing column.
const snippetContext = 10

// ellipsis marks a truncated side of a source snippet.
const ellipsis = "..."

// Colors used for error formatting
var (
	colorError    = color.New(color.FgRed)
	colorErrorHdr = color.New(color.FgRed, color.Bold)
	colorCode     = color.New(color.FgHiBlack)
	colorLocation = color.New(color.FgCyan)
	colorPipe     = color.New(color.FgHiBlack)
	colorCaret    = color.New(color.FgHiRed)
	colorNote     = color.New(color.FgHiBlue)
)

// Formatter formats errors with source snippets and optional ANSI colors.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if f.UseColor {
		return c.Sprint(s)
	}
	return s
}

// Format renders an error produced by the compiler or the virtual machine
// as a multi-line diagnostic. Errors of other types are rendered with their
// plain Error string.
func (f *Formatter) Format(err error) string {
	switch e := err.(type) {
	case *CompileError:
		return f.format("compile error", e.Code, e.Message, e.Location, e.Source, "")
	case *LimitError:
		note := fmt.Sprintf("limit was %d", e.Limit)
		if len(e.Output) > 0 {
			note += fmt.Sprintf("; %d bytes of output were produced before the failure", len(e.Output))
		}
		loc := e.Location
		return f.format("run error", e.Code, e.Code.Description(), &loc, e.Source, note)
	case *IOError:
		loc := e.Location
		return f.format("run error", e.Code, e.Code.Description(), &loc, e.Source,
			fmt.Sprintf("caused by: %v", e.Err))
	default:
		return err.Error()
	}
}

func (f *Formatter) format(kind string, code ErrorCode, message string, loc *SourceLocation, source, note string) string {
	var b strings.Builder

	// Header: "compile error[E1002]: unmatched opening bracket"
	b.WriteString(f.paint(colorErrorHdr, kind))
	b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", code)))
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(message)
	b.WriteString("\n")

	// Location arrow: " --> file.bf:0:25"
	if loc != nil {
		b.WriteString(" ")
		b.WriteString(f.paint(colorLocation, "--> "+loc.String()))
		b.WriteString("\n")

		// Source snippet with caret
		if source != "" {
			snippet, caret := RenderSnippet(source, *loc)
			if snippet != "" {
				b.WriteString(f.paint(colorPipe, "  | "))
				b.WriteString(snippet)
				b.WriteString("\n")
				b.WriteString(f.paint(colorPipe, "  | "))
				b.WriteString(strings.Repeat(" ", caret))
				b.WriteString(f.paint(colorCaret, "^"))
				b.WriteString("\n")
			}
		}
	}

	if note != "" {
		b.WriteString(f.paint(colorPipe, "  = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(note)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSnippet extracts the source line at the given location, truncated to
// at most snippetContext characters on each side of the failing column with
// ellipsis markers on truncated sides. The returned caret offset is the
// character position of the failing column within the snippet.
func RenderSnippet(source string, loc SourceLocation) (snippet string, caret int) {
	lines := strings.Split(source, "\n")
	if loc.Line < 0 || loc.Line >= len(lines) {
		return "", 0
	}
	runes := []rune(lines[loc.Line])
	col := loc.Column
	if col < 0 || col > len(runes) {
		return "", 0
	}

	start := col - snippetContext
	if start < 0 {
		start = 0
	}
	end := col + snippetContext + 1
	if end > len(runes) {
		end = len(runes)
	}

	var b strings.Builder
	caret = col - start
	if start > 0 {
		b.WriteString(ellipsis)
		caret += len(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String(), caret
}
