// Package tfs talks to a Team Foundation version-control collection.
//
// The capability surface is kept behind the Provider and Workspace
// interfaces so the check-in transaction can run against an in-memory
// implementation in tests.
package tfs

import "context"

// Mapping associates a server-tracked path with a local filesystem path.
type Mapping struct {
	ServerPath string
	LocalPath  string
}

// PendingChange is one checked-out, locally edited file awaiting submission.
type PendingChange struct {
	ServerPath string
	LocalPath  string
}

// Provider is a connected version-control session.
type Provider interface {
	// BuildMappings returns the folder mappings of the build agent's own
	// workspace, used to resolve local source paths to server paths.
	// When the agent owns no workspace by that name, or more than one,
	// the result is empty with no error; callers degrade to skipping
	// per-file check-in rather than failing the build.
	BuildMappings(ctx context.Context, workspaceName, agentName string) ([]Mapping, error)

	// CreateWorkspace creates a temporary workspace owned by this run.
	CreateWorkspace(ctx context.Context, name string) (Workspace, error)
}

// Workspace is a server-side workspace the run can map files into.
type Workspace interface {
	Name() string

	// Map adds a working-folder mapping from serverPath to localPath.
	Map(ctx context.Context, serverPath, localPath string) error

	// Unmap removes the working-folder mapping for serverPath.
	Unmap(ctx context.Context, serverPath string) error

	// Fetch downloads the latest server version of serverPath into
	// localPath.
	Fetch(ctx context.Context, serverPath, localPath string) error

	// PendEdit marks serverPath as checked out for edit in this
	// workspace.
	PendEdit(ctx context.Context, serverPath string) error

	// CheckIn submits every pending change as one changeset and returns
	// the new changeset number.
	CheckIn(ctx context.Context, changes []PendingChange, comment string) (int, error)

	// Delete removes the workspace from the server.
	Delete(ctx context.Context) error
}
