// Package checkin drives the checkout-edit-checkin protocol as one logical
// unit: a temporary workspace is opened, every file is mapped to a private
// temp path, fetched, marked for edit and overwritten, and the accumulated
// changes are submitted as a single changeset. Teardown runs on every exit
// path, commit or not.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/voice4net/versync/internal/logging"
	"github.com/voice4net/versync/internal/tfs"
)

// ErrNoMapping indicates a local path not covered by any workspace folder
// mapping. It is recoverable: the file is skipped and the run continues.
var ErrNoMapping = errors.New("no workspace mapping covers path")

// ErrTransactionClosed indicates a call against a transaction whose
// workspace has already been torn down.
var ErrTransactionClosed = errors.New("transaction already closed")

// Transaction owns one temporary workspace and its per-file mappings. Not
// safe for concurrent use; a run is strictly sequential by design.
type Transaction struct {
	provider tfs.Provider
	log      *logging.Logger
	tempDir  string

	agentMappings []tfs.Mapping
	workspace     tfs.Workspace
	pending       []tfs.PendingChange
	committed     bool
	closed        bool
}

// Open connects the transaction: it resolves the build agent's own
// workspace mappings (used for path resolution) and creates a uniquely
// named temporary workspace for the edits. The caller must Close the
// returned transaction on every path.
func Open(ctx context.Context, provider tfs.Provider, workspaceName, agentName, tempDir string, log *logging.Logger) (*Transaction, error) {
	agentMappings, err := provider.BuildMappings(ctx, workspaceName, agentName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve build workspace: %w", err)
	}
	if len(agentMappings) == 0 {
		log.Warnf("no usable workspace %q for agent %q; files without mappings will be skipped", workspaceName, agentName)
	}

	name := fmt.Sprintf("versync-%s-%s", agentName, uuid.NewString()[:8])
	workspace, err := provider.CreateWorkspace(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace %q: %w", name, err)
	}
	log.Debugf("opened temporary workspace %s", workspace.Name())

	return &Transaction{
		provider:      provider,
		log:           log,
		tempDir:       tempDir,
		agentMappings: agentMappings,
		workspace:     workspace,
	}, nil
}

// ResolveServerPath maps a local file path to its server path using the
// longest-prefix-matching folder mapping. Nested mappings can overlap; the
// mapping whose local root is the longest string match wins. A path covered
// by no mapping resolves to ErrNoMapping.
func (t *Transaction) ResolveServerPath(localPath string) (string, error) {
	slashed := toSlash(localPath)

	best := -1
	bestLen := -1
	for i, m := range t.agentMappings {
		root := strings.TrimSuffix(toSlash(m.LocalPath), "/")
		if !hasPathPrefix(slashed, root) {
			continue
		}
		if len(root) > bestLen {
			best, bestLen = i, len(root)
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMapping, localPath)
	}

	m := t.agentMappings[best]
	rel := strings.TrimPrefix(slashed[bestLen:], "/")
	server := strings.TrimSuffix(m.ServerPath, "/")
	if rel == "" {
		return server, nil
	}
	return server + "/" + rel, nil
}

// CheckOutAndEdit maps serverPath into the temporary workspace at a private
// temp location, fetches the latest server content there, pends an edit, and
// overwrites the file with newContent. Nothing is committed until Commit.
func (t *Transaction) CheckOutAndEdit(ctx context.Context, serverPath string, newContent []byte) error {
	if t.closed {
		return ErrTransactionClosed
	}

	localPath := filepath.Join(t.tempDir, uuid.NewString()[:8]+"-"+path.Base(serverPath))
	if err := t.workspace.Map(ctx, serverPath, localPath); err != nil {
		return fmt.Errorf("failed to map %s: %w", serverPath, err)
	}
	// The mapping exists on the server from here on; record it before any
	// fallible step so Close can always tear it down.
	t.pending = append(t.pending, tfs.PendingChange{
		ServerPath: serverPath,
		LocalPath:  localPath,
	})

	if err := t.workspace.Fetch(ctx, serverPath, localPath); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", serverPath, err)
	}
	if err := t.workspace.PendEdit(ctx, serverPath); err != nil {
		return fmt.Errorf("failed to check out %s: %w", serverPath, err)
	}
	// Fetched files arrive read-only; checking out clears that locally.
	if err := os.Chmod(localPath, 0644); err != nil {
		return fmt.Errorf("failed to make %s writable: %w", localPath, err)
	}
	if err := os.WriteFile(localPath, newContent, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	t.log.Debugf("checked out %s -> %s", serverPath, localPath)
	return nil
}

// PendingCount returns the number of accumulated changes.
func (t *Transaction) PendingCount() int {
	return len(t.pending)
}

// Commit submits every accumulated change as one changeset. The pending set
// is consumed exactly once; a second Commit has nothing to submit.
func (t *Transaction) Commit(ctx context.Context, comment string) (int, error) {
	if t.closed {
		return 0, ErrTransactionClosed
	}
	if t.committed || len(t.pending) == 0 {
		return 0, nil
	}

	changeset, err := t.workspace.CheckIn(ctx, t.pending, comment)
	if err != nil {
		return 0, fmt.Errorf("check-in failed: %w", err)
	}
	t.committed = true
	t.log.Infof("committed changeset %d (%d files)", changeset, len(t.pending))
	return changeset, nil
}

// Close tears down everything the transaction created: every per-file
// mapping is removed and its temp file made deletable and deleted, then the
// temporary workspace itself is deleted. Close runs best-effort across all
// resources and reports the joined errors; it is safe to call exactly once
// on every exit path, including after a failed Commit.
func (t *Transaction) Close(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	for _, change := range t.pending {
		if err := t.workspace.Unmap(ctx, change.ServerPath); err != nil {
			errs = append(errs, err)
		}
		// Fetched files can come back read-only; make them deletable.
		if err := os.Chmod(change.LocalPath, 0644); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		if err := os.Remove(change.LocalPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	t.pending = nil

	if err := t.workspace.Delete(ctx); err != nil {
		errs = append(errs, err)
	} else {
		t.log.Debugf("deleted temporary workspace %s", t.workspace.Name())
	}

	return errors.Join(errs...)
}

// toSlash flips separators to forward slashes so Windows and portable
// spellings compare alike. Case is preserved; only the comparison in
// hasPathPrefix ignores it.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// hasPathPrefix reports whether p lives under root, ignoring case and
// matching whole path segments only.
func hasPathPrefix(p, root string) bool {
	if len(p) < len(root) || !strings.EqualFold(p[:len(root)], root) {
		return false
	}
	rest := p[len(root):]
	return rest == "" || strings.HasPrefix(rest, "/")
}
