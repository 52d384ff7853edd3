package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voice4net/versync/internal/config"
	"github.com/voice4net/versync/internal/sync"
	"github.com/voice4net/versync/internal/tfs"
)

// newSyncCmd creates the 'sync' command.
func newSyncCmd() *cobra.Command {
	var raw config.RawFlags
	var sourcesRoot string
	var collectionURL string
	var workspaceName string
	var buildNumber string
	var agentName string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Resolve, advance, stamp, and check in the build version",
		Long: `Scan the source root for the authoritative current version, advance it per
the increment flags, rewrite every version-bearing file, publish the new
build number, and submit the edits as one changeset.

Examples:
  # Default: bump the build component and check in
  versync sync

  # Bump the revision component instead
  versync sync --increment-build=false --increment-revision

  # Stamp files locally without touching the collection
  versync sync --no-checkin

  # Re-stamp the current version without advancing it (implies --no-checkin)
  versync sync --no-increment

  # Only consider files mentioning the product
  versync sync --filter Voice4Net`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := GetLogger()

			flags := config.ResolveFlags(raw)

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if sourcesRoot != "" {
				cfg.SourcesRoot = sourcesRoot
			}
			if collectionURL != "" {
				cfg.CollectionURL = collectionURL
			}
			if workspaceName != "" {
				cfg.WorkspaceName = workspaceName
			}
			if buildNumber != "" {
				cfg.BuildNumber = buildNumber
			}
			if agentName != "" {
				cfg.AgentName = agentName
			}

			if err := cfg.Validate(flags.Checkin); err != nil {
				return err
			}

			var provider tfs.Provider
			if flags.Checkin {
				if cfg.NeedsToken() {
					token, err := promptToken(cfg.CollectionURL)
					if err != nil {
						return err
					}
					cfg.Token = token
				}
				client, err := tfs.NewClient(cfg)
				if err != nil {
					return fmt.Errorf("failed to connect to collection: %w", err)
				}
				provider = client
			}

			runner := sync.Runner{
				Config:   cfg,
				Flags:    flags,
				Provider: provider,
				Log:      log,
				Out:      os.Stdout,
			}
			result, err := runner.Run(GetContext())
			if err != nil {
				return err
			}

			switch {
			case !result.Found:
				log.Infof("done: no version to advance")
			case result.Changeset != 0:
				log.Infof("done: %s -> %s, %d files, changeset %d",
					result.Current, result.Next, result.Rewritten, result.Changeset)
			default:
				log.Infof("done: %s -> %s, %d files (no check-in)",
					result.Current, result.Next, result.Rewritten)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw.IncrementBuild, "increment-build", true, "Increment the build component")
	cmd.Flags().BoolVar(&raw.IncrementRevision, "increment-revision", false, "Increment the revision component (reset to 0 when build also advances)")
	cmd.Flags().BoolVar(&raw.DoNotIncrement, "no-increment", false, "Keep the current version and skip check-in (overrides the other increment flags)")
	cmd.Flags().BoolVar(&raw.SkipCheckin, "no-checkin", false, "Rewrite files locally without checking in")
	cmd.Flags().StringVar(&raw.FilterPattern, "filter", "", "Only consider files matching this pattern (regex, falls back to substring)")

	cmd.Flags().StringVar(&sourcesRoot, "source-root", "", "Source tree to scan (default: BUILD_SOURCESDIRECTORY)")
	cmd.Flags().StringVar(&collectionURL, "collection", "", "Collection URL (default: SYSTEM_TEAMFOUNDATIONCOLLECTIONURI)")
	cmd.Flags().StringVar(&workspaceName, "workspace", "", "Build workspace name (default: BUILD_REPOSITORY_TFVC_WORKSPACE)")
	cmd.Flags().StringVar(&buildNumber, "build-number", "", "Running build identifier (default: BUILD_BUILDNUMBER)")
	cmd.Flags().StringVar(&agentName, "agent", "", "Build agent name (default: AGENT_NAME)")

	return cmd
}
