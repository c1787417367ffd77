// Command ioflow runs the repository's automation flows from the
// command line: the lint-and-test check, documentation publishing,
// kernel registration and release creation.
package main

import (
	"os"

	ioerrors "github.com/utilitywarehouse/iolib/errors"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(ioerrors.ExitCode(err))
	}
}
