// Command tapevm compiles and runs tape-machine programs.
//
// Usage:
//
//	tapevm [flags] [file]
//	tapevm -c '++[->+<]'
//	tapevm -check file1.bf file2.bf
//
// Program input is read from stdin and output is written to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/cloudcmds/tapevm"
	"github.com/cloudcmds/tapevm/dis"
	"github.com/cloudcmds/tapevm/errors"
	"github.com/cloudcmds/tapevm/vm"
)

func main() {
	var (
		code     = flag.String("c", "", "program text to run")
		debug    = flag.Bool("debug", false, "enable the ? debug instruction")
		maxSteps = flag.Int64("max-steps", 0, "maximum instruction steps (0 = unlimited)")
		maxMem   = flag.Int("max-mem", 0, "maximum tape size in bytes (0 = unlimited)")
		disasm   = flag.Bool("dis", false, "print a disassembly listing instead of running")
		check    = flag.Bool("check", false, "compile the given files and report diagnostics")
		trace    = flag.Bool("trace", false, "log every executed instruction to stderr")
		noColor  = flag.Bool("no-color", false, "disable colored output")
	)
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}
	formatter := errors.NewFormatter(!*noColor)

	var opts []tapevm.Option
	if *debug {
		opts = append(opts, tapevm.WithDebugChar())
	}

	if *check {
		os.Exit(runCheck(flag.Args(), formatter, opts))
	}

	source, filename, err := readSource(*code, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tapevm: %v\n", err)
		os.Exit(1)
	}
	if filename != "" {
		opts = append(opts, tapevm.WithFilename(filename))
	}

	program, err := tapevm.Compile(source, opts...)
	if err != nil {
		fmt.Fprint(os.Stderr, formatter.Format(err))
		os.Exit(1)
	}

	if *disasm {
		if err := dis.Print(program.Code(), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "tapevm: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *maxSteps > 0 {
		opts = append(opts, tapevm.WithMaxSteps(*maxSteps))
	}
	if *maxMem > 0 {
		opts = append(opts, tapevm.WithMaxMemBytes(*maxMem))
	}
	if *trace {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.TraceLevel).
			With().Str("program_id", program.ID()).Logger()
		opts = append(opts, tapevm.WithObserver(vm.NewTraceObserver(logger)))
	}

	if err := tapevm.Run(context.Background(), program, os.Stdin, os.Stdout, opts...); err != nil {
		fmt.Fprint(os.Stderr, formatter.Format(err))
		os.Exit(1)
	}
}

func readSource(code string, args []string) (source, filename string, err error) {
	if code != "" {
		return code, "", nil
	}
	if len(args) == 0 {
		return "", "", fmt.Errorf("no program given (pass a file or use -c)")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}

func runCheck(paths []string, formatter *errors.Formatter, opts []tapevm.Option) int {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "tapevm: no files to check")
		return 1
	}
	sources := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tapevm: %v\n", err)
			return 1
		}
		sources[path] = string(data)
	}
	err := tapevm.Check(sources, opts...)
	if err == nil {
		fmt.Printf("checked %d file(s): ok\n", len(paths))
		return 0
	}
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			fmt.Fprint(os.Stderr, formatter.Format(e))
		}
	} else {
		fmt.Fprint(os.Stderr, formatter.Format(err))
	}
	return 1
}
