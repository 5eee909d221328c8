package repositories

import "context"

// GitRepository inspects a local git checkout.
type GitRepository interface {
	// CurrentBranch returns the short name of the branch HEAD points to.
	CurrentBranch(ctx context.Context, dir string) (string, error)

	// RemoteRepository returns the "owner/name" slug of the origin remote.
	RemoteRepository(ctx context.Context, dir string) (string, error)
}
