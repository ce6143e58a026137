package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&replCmd{}, "ember")
	subcommands.Register(&runCmd{}, "ember")
	subcommands.Register(&disassembleCmd{}, "ember")

	flag.Parse()

	args := flag.Args()
	switch {
	case len(args) == 0:
		// Bare `ember` drops straight into the REPL.
		os.Exit(int(runRepl()))
	case len(args) == 1 && !isCommand(args[0]):
		// `ember <path>` runs a source file without naming the run
		// command.
		os.Exit(int(runFile(args[0], false)))
	case !isCommand(args[0]):
		fmt.Fprintln(os.Stderr, "usage: ember [<path> | repl | run <path> | disassemble <path>]")
		os.Exit(0)
	default:
		os.Exit(int(subcommands.Execute(context.Background())))
	}
}

func isCommand(name string) bool {
	switch name {
	case "repl", "run", "disassemble", "help", "flags", "commands":
		return true
	}
	return false
}
