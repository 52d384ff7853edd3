// Package sync drives one version-advance run: locate the authoritative
// current version, compute the next one, publish the new build identifier,
// rewrite every matching file, and check the edits in as a single changeset.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/voice4net/versync/internal/buildid"
	"github.com/voice4net/versync/internal/checkin"
	"github.com/voice4net/versync/internal/config"
	"github.com/voice4net/versync/internal/logging"
	"github.com/voice4net/versync/internal/scan"
	"github.com/voice4net/versync/internal/tfs"
	"github.com/voice4net/versync/internal/vertoken"
)

// Runner executes one run. Provider may be nil when check-in is disabled.
type Runner struct {
	Config   config.Config
	Flags    config.Flags
	Provider tfs.Provider
	Log      *logging.Logger

	// Out receives the build-host protocol lines; everything else goes to
	// the logger.
	Out io.Writer
}

// Result summarizes what the run did.
type Result struct {
	// Found is false when no authoritative version exists under the
	// source root; the run is then a clean no-op.
	Found bool

	Current vertoken.Version
	Next    vertoken.Version

	// Rewritten counts files whose content was updated locally.
	Rewritten int

	// Changeset is the committed changeset number, 0 when check-in was
	// skipped or nothing changed.
	Changeset int
}

// Run performs the full sequence. Only configuration and transaction
// failures surface as errors; a missing version or an unresolvable file is
// narrated and absorbed.
func (r Runner) Run(ctx context.Context) (Result, error) {
	var result Result

	current, found, err := r.findCurrentVersion()
	if err != nil {
		return result, err
	}
	if !found {
		r.Log.Infof("no authoritative version found under %s, nothing to do", r.Config.SourcesRoot)
		return result, nil
	}
	result.Found = true
	result.Current = current

	next := vertoken.Increment(current, r.Flags.IncrementBuild, r.Flags.IncrementRevision)
	result.Next = next
	r.Log.Infof("version %s -> %s", current, next)

	updated, err := buildid.Publisher{Out: r.Out}.Publish(r.Config.BuildNumber, next)
	if err != nil {
		return result, err
	}
	r.Log.Infof("build number is now %q", updated)

	var tx *checkin.Transaction
	if r.Flags.Checkin {
		tx, err = checkin.Open(ctx, r.Provider, r.Config.WorkspaceName, r.Config.AgentName, r.Config.TempDir, r.Log)
		if err != nil {
			return result, err
		}
		defer func() {
			if closeErr := tx.Close(ctx); closeErr != nil {
				r.Log.Warnf("teardown incomplete: %v", closeErr)
			}
		}()
	}

	if err := r.rewriteAll(ctx, tx, next, &result); err != nil {
		return result, err
	}

	if tx != nil && result.Rewritten > 0 {
		comment := fmt.Sprintf("versync: update version %s -> %s", current, next)
		changeset, err := tx.Commit(ctx, comment)
		if err != nil {
			return result, err
		}
		result.Changeset = changeset
	}

	return result, nil
}

// findCurrentVersion scans the narrow first-pass filename set and stops at
// the first file that bears a version, passes the custom filter, and yields
// a parseable value.
func (r Runner) findCurrentVersion() (vertoken.Version, bool, error) {
	candidates, err := scan.Find(r.Config.SourcesRoot, scan.FirstPassNames)
	if err != nil {
		return vertoken.Version{}, false, err
	}

	for _, c := range candidates {
		if !vertoken.IsVersionBearing(c.Text) {
			continue
		}
		if !vertoken.MatchesCustomFilter(c.Text, r.Flags.FilterPattern, r.Flags.FilterEnabled) {
			r.Log.Debugf("%s excluded by filter %q", c.Path, r.Flags.FilterPattern)
			continue
		}
		if v, ok := vertoken.Extract(c.Text); ok {
			r.Log.Infof("current version %s found in %s", v, c.Path)
			return v, true, nil
		}
	}
	return vertoken.Version{}, false, nil
}

// rewriteAll runs the broad second pass: every matching file is rewritten
// locally and, when a transaction is open, routed through checkout-edit. A
// file with no workspace mapping is skipped, not fatal.
func (r Runner) rewriteAll(ctx context.Context, tx *checkin.Transaction, next vertoken.Version, result *Result) error {
	candidates, err := scan.Find(r.Config.SourcesRoot, scan.SecondPassNames)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		if !vertoken.IsVersionBearing(c.Text) {
			r.Log.Debugf("%s carries no version tokens, skipped", c.Path)
			continue
		}
		if !vertoken.MatchesCustomFilter(c.Text, r.Flags.FilterPattern, r.Flags.FilterEnabled) {
			r.Log.Debugf("%s excluded by filter %q", c.Path, r.Flags.FilterPattern)
			continue
		}

		rewritten := vertoken.Rewrite(c.Text, next)
		if err := writeLocal(c.Path, rewritten); err != nil {
			return err
		}
		result.Rewritten++
		r.Log.Infof("rewrote %s (%d tokens)", c.Path, len(vertoken.TokensIn(c.Text)))

		if tx == nil {
			continue
		}
		serverPath, err := tx.ResolveServerPath(c.Path)
		if err != nil {
			r.Log.Warnf("skipping check-in of %s: %v", c.Path, err)
			continue
		}
		if err := tx.CheckOutAndEdit(ctx, serverPath, []byte(rewritten)); err != nil {
			return err
		}
	}

	return nil
}

// writeLocal overwrites a source file in place. Checked-out trees often
// arrive read-only, so the read-only bit is cleared first.
func writeLocal(path, content string) error {
	if err := os.Chmod(path, 0644); err != nil {
		return fmt.Errorf("failed to make %s writable: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	return nil
}
