package ports

import "context"

// VCS answers questions about a version-controlled tree. Every query is independent.
//
//go:generate mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type VCS interface {
	// Head returns the full identifier of the checked out commit.
	Head(ctx context.Context, root string) (string, error)

	// TagsAt returns the tags pointing exactly at commit, in the backend's order.
	TagsAt(ctx context.Context, root, commit string) ([]string, error)

	// Remotes maps each remote name to its fetch URL.
	Remotes(ctx context.Context, root string) (map[string]string, error)

	// IsDirty reports uncommitted changes, untracked files or divergence from the tracking branch.
	IsDirty(ctx context.Context, root string) (bool, error)
}

// RepositoryLocator finds the root of a version-controlled tree.
type RepositoryLocator interface {
	// Locate returns the first candidate directory that holds VCS metadata.
	Locate(candidates []string) (root string, found bool)
}
