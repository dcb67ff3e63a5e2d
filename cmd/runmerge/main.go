// Command runmerge merges a sequencing run's sample sheet, the Epi database
// export and the MinKNOW run report into one detailed run report.
package main

import (
	"fmt"
	"os"

	"github.com/poliolab/runmerge/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Structured error output already happened inside the command;
		// only the exit code and a terse line are left to do here.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
