// Command qsfilter translates URL query strings into filter specs, SQL and
// query results.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/qsfilter/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// ExitErrors were already reported through the output formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
