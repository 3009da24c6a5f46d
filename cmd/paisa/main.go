package main

import (
	"context"
	"flag"
	"os"

	"github.com/bobmcallan/paisa-buddy/internal/cli"
	"github.com/google/subcommands"
)

func main() {
	rt := cli.NewRuntime()

	// Handles COMP_LINE when invoked by the shell for completion and exits.
	cli.Completion(rt).Complete("paisa")

	commander := subcommands.NewCommander(flag.CommandLine, "paisa")
	rt.SetFlags(flag.CommandLine)
	cli.Register(commander, rt)

	flag.Parse()
	status := commander.Execute(context.Background())
	if err := rt.Close(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	os.Exit(int(status))
}
