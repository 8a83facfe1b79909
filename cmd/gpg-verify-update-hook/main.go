package main

import (
	"fmt"
	"os"

	"github.com/sebschrader/gpg-verify-update-hook/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()

	// Standard output may carry host protocol framing; everything this
	// tool says goes to stderr.
	cmd.SetOut(os.Stderr)
	cmd.SetErr(os.Stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
