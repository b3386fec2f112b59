// Command molscene is the command line client: it parses MOL2 files, builds
// alkanes and frames scenes, in-process or against an apiserver.
package main

import (
	"os"

	"github.com/turtacn/molscene/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
