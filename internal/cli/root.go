// Package cli provides the command-line interface for versync.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voice4net/versync/internal/logging"
	"github.com/voice4net/versync/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	debug   bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command. Version information comes from the
// version package, which main populates before Execute runs.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "versync",
		Short: "Advance the build version and check the change into TFVC",
		Long: `versync ` + version.Version + ` - Built: ` + version.BuildTime + `

Resolves the current 4-part assembly version under the build's source root,
advances it, stamps every version-bearing file, publishes the new build
number to the build host, and checks the edits in as a single changeset.

Designed to run inside a build agent: the source root, collection endpoint,
workspace and build number are read from the agent environment and can be
overridden by flags or the config file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultLogger()
			if verbose || debug {
				logging.SetGlobalLevel(-1) // zerolog.DebugLevel
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nreceived signal %v, cancelling\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	rootCmd.AddCommand(newSyncCmd())
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}
