package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/temirov/printproject/internal/cli"
	"github.com/temirov/printproject/internal/utils"
)

// main is the entry point for the print-project command.
func main() {
	rootCommand := cli.NewRootCommand(cli.Dependencies{})
	rootCommand.SetArgs(cli.NormalizeArguments(rootCommand, os.Args[1:]))
	if applicationExecutionError := fang.Execute(
		context.Background(),
		rootCommand,
		fang.WithVersion(utils.GetApplicationVersion()),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithNotifySignal(os.Interrupt),
	); applicationExecutionError != nil {
		os.Exit(1)
	}
}
