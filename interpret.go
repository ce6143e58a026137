package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"ember/compiler"
	"ember/lexer"
	"ember/report"
	"ember/vm"
)

const (
	// exit codes in the sysexits tradition: 64 for input that failed to
	// scan or compile, 70 for a runtime failure
	exitCompileError = subcommands.ExitStatus(64)
	exitRuntimeError = subcommands.ExitStatus(70)
)

// interpret runs one piece of source through the whole pipeline:
// lex, compile, execute. Diagnostics render against the source on
// stderr; a successful run prints the program's result on stdout.
func interpret(source string, trace bool) subcommands.ExitStatus {
	reporter := report.New()

	lex := lexer.New(source, reporter)
	tokens, err := lex.Scan()
	if err != nil {
		reporter.Emit(source, os.Stderr)
		return exitCompileError
	}

	comp := compiler.New(tokens, reporter)
	if err := comp.Compile(); err != nil {
		reporter.Emit(source, os.Stderr)
		return exitCompileError
	}

	machine := vm.New(comp.Script(), comp.TakeObjects())
	defer machine.Free()
	if trace {
		machine.EnableTrace()
	}

	if machine.Run() != vm.ResultOk {
		return exitRuntimeError
	}
	return subcommands.ExitSuccess
}

// runFile reads a source file, trims trailing whitespace and runs it to
// completion. Empty input is a successful no-op.
func runFile(path string, trace bool) subcommands.ExitStatus {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
		return subcommands.ExitFailure
	}

	source := strings.TrimRight(string(data), " \t\r\n")
	if source == "" {
		return subcommands.ExitSuccess
	}
	return interpret(source, trace)
}
