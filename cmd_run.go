package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// runCmd executes a source file.
type runCmd struct {
	trace bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute an Ember source file" }
func (*runCmd) Usage() string {
	return `run [-trace] <path>:
  Compile the file and run it to completion.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.trace, "trace", false, "log every executed instruction")
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "File not provided")
		return subcommands.ExitUsageError
	}
	return runFile(args[0], cmd.trace)
}
