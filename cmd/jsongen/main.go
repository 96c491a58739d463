// jsongen CLI - Command-line interface for the jsongen document generator
package main

import (
	"os"

	"github.com/getmockd/jsongen/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	os.Exit(cli.Execute())
}
