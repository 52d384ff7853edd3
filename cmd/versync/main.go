// versync - build version synchronizer for Voice4Net TFVC builds.
package main

import (
	"os"

	"github.com/voice4net/versync/internal/cli"
	"github.com/voice4net/versync/internal/config"
	"github.com/voice4net/versync/internal/version"
)

// Version information, overridden by ldflags for release builds.
var (
	Version   = "v1.2.0"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		// Misconfiguration aborts before any scanning and gets its own
		// exit code so build definitions can tell it apart from a
		// failed check-in.
		if config.IsConfigError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
