package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"ember/compiler"
	"ember/lexer"
	"ember/report"
)

// disassembleCmd compiles a source file and prints the chunk listing
// instead of running it.
type disassembleCmd struct{}

func (*disassembleCmd) Name() string     { return "disassemble" }
func (*disassembleCmd) Synopsis() string { return "Print the bytecode of a source file" }
func (*disassembleCmd) Usage() string {
	return `disassemble <path>:
  Compile the file and print a human-readable bytecode listing. A file
  that fails to compile still prints whatever was emitted before the
  failure.
`
}
func (*disassembleCmd) SetFlags(f *flag.FlagSet) {}

func (*disassembleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "File not provided")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", args[0], err)
		return subcommands.ExitFailure
	}
	source := strings.TrimRight(string(data), " \t\r\n")

	reporter := report.New()
	lex := lexer.New(source, reporter)
	tokens, scanErr := lex.Scan()

	comp := compiler.New(tokens, reporter)
	if compileErr := comp.Compile(); scanErr != nil || compileErr != nil {
		reporter.Emit(source, os.Stderr)
		// The partial chunk is still worth looking at. When compilation
		// got as far as finalizing the chunk, that chunk holds the code.
		partial := comp.Chunk()
		if len(comp.Chunks()) > 0 {
			partial = comp.Script()
		}
		partial.Disassemble(args[0], os.Stdout)
		return exitCompileError
	}

	comp.Script().Disassemble(args[0], os.Stdout)
	return subcommands.ExitSuccess
}
