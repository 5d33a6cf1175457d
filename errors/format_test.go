package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderSnippetShortLine(t *testing.T) {
	snippet, caret := RenderSnippet("+[", SourceLocation{Line: 0, Column: 1})
	require.Equal(t, "+[", snippet)
	require.Equal(t, 1, caret)
}

func TestRenderSnippetTruncatedLeft(t *testing.T) {
	source := strings.Repeat("+", 30) + "["
	snippet, caret := RenderSnippet(source, SourceLocation{Line: 0, Column: 30})
	require.Equal(t, "...++++++++++[", snippet)
	require.Equal(t, 13, caret)
}

func TestRenderSnippetTruncatedRight(t *testing.T) {
	source := "[" + strings.Repeat("+", 30)
	snippet, caret := RenderSnippet(source, SourceLocation{Line: 0, Column: 0})
	require.Equal(t, "["+strings.Repeat("+", 10)+"...", snippet)
	require.Equal(t, 0, caret)
}

func TestRenderSnippetTruncatedBothSides(t *testing.T) {
	source := strings.Repeat("+", 40)
	snippet, caret := RenderSnippet(source, SourceLocation{Line: 0, Column: 20})
	require.Equal(t, "..."+strings.Repeat("+", 21)+"...", snippet)
	require.Equal(t, 13, caret)
}

func TestRenderSnippetSelectsLine(t *testing.T) {
	source := "++++\n  [-]\n...."
	snippet, caret := RenderSnippet(source, SourceLocation{Line: 1, Column: 2})
	require.Equal(t, "  [-]", snippet)
	require.Equal(t, 2, caret)
}

func TestRenderSnippetOutOfRange(t *testing.T) {
	snippet, _ := RenderSnippet("+", SourceLocation{Line: 5, Column: 0})
	require.Equal(t, "", snippet)
}

func TestFormatCompileError(t *testing.T) {
	source := "+++++[>+++++++>++<<-]>.>.["
	err := NewCompileError(E1002, SourceLocation{Line: 0, Column: 25}, source)
	out := NewFormatter(false).Format(err)
	expected := "compile error[E1002]: unmatched opening bracket\n" +
		" --> 0:25\n" +
		"  | ...++<<-]>.>.[\n" +
		"  | " + strings.Repeat(" ", 13) + "^\n"
	require.Equal(t, expected, out)
}

func TestFormatLimitErrorNote(t *testing.T) {
	err := NewStepLimitError(100, SourceLocation{Line: 0, Column: 2}, "+[]")
	err.Output = []byte("partial")
	out := NewFormatter(false).Format(err)
	require.Contains(t, out, "run error[E3001]: step limit reached")
	require.Contains(t, out, " --> 0:2")
	require.Contains(t, out, "note: limit was 100; 7 bytes of output were produced before the failure")
}

func TestFormatIOError(t *testing.T) {
	err := NewOutputError(stderrors.New("pipe closed"), SourceLocation{Line: 0, Column: 0}, ".")
	out := NewFormatter(false).Format(err)
	require.Contains(t, out, "run error[E3004]: output write failed")
	require.Contains(t, out, "note: caused by: pipe closed")
}

func TestFormatOtherError(t *testing.T) {
	err := stderrors.New("something else")
	require.Equal(t, "something else", NewFormatter(false).Format(err))
}
