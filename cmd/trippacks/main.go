// Package main is the entry point for the trippacks command.
// Its sole responsibility is running the root command and mapping errors to
// exit codes. No business logic belongs here.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkordes/trippacks/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "trippacks:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
