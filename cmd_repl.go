package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

// replCmd implements the REPL command.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Ember session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive session. Each line is compiled and run; the
  result prints on success. Type exit to leave.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runRepl()
}

func runRepl() subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start the REPL: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Welcome to Ember!")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			// io.EOF on ctrl-d
			return subcommands.ExitSuccess
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return subcommands.ExitSuccess
		}

		interpret(line, false)
	}
}
