package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gxo-labs/matchmap/internal/cli"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := cli.NewRootCommand(cli.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return cli.ExitSuccess
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra itself.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", cmd.Name())
		return cli.ExitUsageError
	}
	if exitErr.Err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
	}
	return exitErr.Code
}
