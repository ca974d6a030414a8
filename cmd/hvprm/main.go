// Command hvprm removes content libraries and the activities using them.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/hvprm/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
