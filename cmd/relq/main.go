package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/relq/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own errors; cobra-level ones (bad flags,
		// wrong arg count) are printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "relq:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
