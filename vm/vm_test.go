package vm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/tapevm/compiler"
	"github.com/cloudcmds/tapevm/errors"
)

const helloWorld = "++++++++[>+++++++++++++>++++<<-]>.---.+++++++..+++.>.<++++++++.--------.+++.------.--------."

func compileSource(t *testing.T, source string, opts ...compiler.Option) *compiler.Code {
	t.Helper()
	code, err := compiler.Compile(source, opts...)
	require.Nil(t, err)
	return code
}

func TestHelloWorld(t *testing.T) {
	code := compileSource(t, helloWorld)
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, "hello world", out.String())
}

func TestEchoUppercase(t *testing.T) {
	code := compileSource(t, ",[>++++[<-------->-]<.,]")
	var out bytes.Buffer
	err := Run(context.Background(), code,
		WithInput(strings.NewReader("foobar")),
		WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "FOOBAR", out.String())
}

// From http://brainfuck.org/tests.b by Daniel B Cristofani: exercises input
// past end-of-stream, which must read as zero.
func TestInputBeyondEndOfStream(t *testing.T) {
	code := compileSource(t, ">,>+++++++++,>+++++++++++[<++++++<++++++<+>>>-]<<.>.<<-.>.>.<<.")
	var out bytes.Buffer
	err := Run(context.Background(), code,
		WithInput(strings.NewReader("\n")),
		WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "LB\nLB\n", out.String())
}

// From http://brainfuck.org/tests.b: several obscure problems in one
// program, including an initially skipped loop and inert characters.
func TestObscureProblems(t *testing.T) {
	code := compileSource(t, `[]++++++++++[>>+>+>++++++[<<+<+++>>>-]<<<<-]"A*$";@![#>>+<<]>[>>]<<<<[>++<[-]]>.>.`)
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, "H\n", out.String())
}

// Goes to the 30,000th cell exactly.
const thirtyThousandCells = "++++[>++++++<-]>[>+++++>+++++++<<-]>>++++<[[>[[>>+<<-]<]>>>-]>-[>+>+<<-]>]+++++[>+++++++<<++>-]>.<<."

func TestMemoryLimitBoundary(t *testing.T) {
	code := compileSource(t, thirtyThousandCells)

	var out bytes.Buffer
	err := Run(context.Background(), code,
		WithOutput(&out),
		WithMaxMemBytes(30_000))
	require.Nil(t, err)
	require.Equal(t, "#\n", out.String())

	err = Run(context.Background(), code, WithMaxMemBytes(29_999))
	require.NotNil(t, err)

	var limitErr *errors.LimitError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, errors.E3002, limitErr.Code)
	require.Equal(t, int64(29_999), limitErr.Limit)
	require.Equal(t, code.Source(), limitErr.Source)
}

type stepCounter struct {
	count int64
}

func (c *stepCounter) OnStep(StepEvent) bool {
	c.count++
	return true
}

func TestStepLimitIsExact(t *testing.T) {
	code := compileSource(t, "+[]")
	counter := &stepCounter{}
	err := Run(context.Background(), code,
		WithMaxSteps(100),
		WithObserver(counter))
	require.NotNil(t, err)

	var limitErr *errors.LimitError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, errors.E3001, limitErr.Code)
	require.Equal(t, int64(100), limitErr.Limit)

	// Exactly 100 instructions executed, not 100±ε
	require.Equal(t, int64(100), counter.count)
}

func TestStepLimitLocation(t *testing.T) {
	// With a limit of 4, the failing step would have been the LoopEnd at
	// column 2: Add, LoopBegin, LoopEnd, LoopEnd, then the ceiling.
	code := compileSource(t, "+[]")
	err := Run(context.Background(), code, WithMaxSteps(4))

	var limitErr *errors.LimitError
	require.ErrorAs(t, err, &limitErr)
	require.Equal(t, 0, limitErr.Location.Line)
	require.Equal(t, 2, limitErr.Location.Column)
	require.Equal(t, "+[]", limitErr.Source)
}

func TestInputEndOfStreamSetsZero(t *testing.T) {
	code := compileSource(t, "+,.")
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, []byte{0}, out.Bytes())
}

type badReader struct{}

func (badReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("bad disk")
}

func TestInputFailure(t *testing.T) {
	code := compileSource(t, ",")
	err := Run(context.Background(), code, WithInput(badReader{}))
	require.NotNil(t, err)

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, errors.E3003, ioErr.Code)
	require.EqualError(t, ioErr.Unwrap(), "bad disk")
}

type badWriter struct{}

func (badWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("pipe closed")
}

func TestOutputFailure(t *testing.T) {
	code := compileSource(t, "+.")
	err := Run(context.Background(), code, WithOutput(badWriter{}))
	require.NotNil(t, err)

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, errors.E3004, ioErr.Code)
	require.EqualError(t, ioErr.Unwrap(), "pipe closed")
}

func TestDebugChar(t *testing.T) {
	code := compileSource(t, "?+?>?+?", compiler.WithDebugChar())
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, "[0,0][0,1][1,0][1,1]", out.String())
}

func TestDebugCharDisabled(t *testing.T) {
	code := compileSource(t, "?+?>?+?")
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, "", out.String())
}

func TestDebugCharNegativeAddress(t *testing.T) {
	code := compileSource(t, "<?", compiler.WithDebugChar())
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, "[-1,0]", out.String())
}

func TestLoopSkippedWhenCellIsZero(t *testing.T) {
	code := compileSource(t, "[.]")
	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
	require.Equal(t, "", out.String())
}

func TestEmptyProgram(t *testing.T) {
	code := compileSource(t, "")
	require.Nil(t, Run(context.Background(), code))
}

func TestRepeatedRunsAreDeterministic(t *testing.T) {
	code := compileSource(t, helloWorld)
	for i := 0; i < 3; i++ {
		var out bytes.Buffer
		require.Nil(t, Run(context.Background(), code, WithOutput(&out)))
		require.Equal(t, "hello world", out.String())
	}
}

func TestConcurrentExecutionsAreIndependent(t *testing.T) {
	code := compileSource(t, ",[.,]") // echo
	inputs := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

	outputs := make([]string, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			var out bytes.Buffer
			errs[i] = Run(context.Background(), code,
				WithInput(strings.NewReader(input)),
				WithOutput(&out))
			outputs[i] = out.String()
		}(i, input)
	}
	wg.Wait()

	for i, input := range inputs {
		require.Nil(t, errs[i])
		require.Equal(t, input, outputs[i])
	}
}

func TestContextCancellation(t *testing.T) {
	code := compileSource(t, "+[]")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, code, WithContextCheckInterval(10))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunGuardRejectsNilCode(t *testing.T) {
	machine := New(nil)
	require.NotNil(t, machine.Run(context.Background()))
}

func TestSteps(t *testing.T) {
	code := compileSource(t, "+.-.")
	machine := New(code)
	require.Nil(t, machine.Run(context.Background()))
	require.Equal(t, int64(4), machine.Steps())
}

func BenchmarkHelloWorld(b *testing.B) {
	code, err := compiler.Compile(helloWorld)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Run(context.Background(), code); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := compiler.Compile(helloWorld); err != nil {
			b.Fatal(err)
		}
	}
}
