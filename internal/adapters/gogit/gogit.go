// Package gogit queries repositories in-process with go-git.
package gogit

import (
	"context"
	"errors"
	"slices"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.VCS = (*Client)(nil)

// Client implements ports.VCS without a git binary.
type Client struct{}

// New creates a Client.
func New() *Client {
	return &Client{}
}

func open(ctx context.Context, root string) (*git.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := git.PlainOpen(root)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, zerr.With(domain.ErrNotARepository, "root", root)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNotARepository.Error()), "root", root)
	}
	return repo, nil
}

// Head returns the full hash of HEAD.
func (c *Client) Head(ctx context.Context, root string) (string, error) {
	repo, err := open(ctx, root)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", zerr.With(domain.ErrNoCommit, "root", root)
	}
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrNoCommit.Error()), "root", root)
	}
	return ref.Hash().String(), nil
}

// TagsAt returns the tags whose target is commit, sorted by name the way git tag lists them.
// Annotated tags are peeled to the commit they point at.
func (c *Client) TagsAt(ctx context.Context, root, commit string) ([]string, error) {
	repo, err := open(ctx, root)
	if err != nil {
		return nil, err
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, zerr.With(err, "root", root)
	}
	defer iter.Close()

	want := plumbing.NewHash(commit)
	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, tagErr := repo.TagObject(target); tagErr == nil {
			target = tag.Target
		}
		if target == want {
			tags = append(tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(err, "root", root)
	}
	slices.Sort(tags)
	return tags, nil
}

// Remotes maps each remote to its first configured URL.
func (c *Client) Remotes(ctx context.Context, root string) (map[string]string, error) {
	repo, err := open(ctx, root)
	if err != nil {
		return nil, err
	}
	list, err := repo.Remotes()
	if err != nil {
		return nil, zerr.With(err, "root", root)
	}
	remotes := make(map[string]string, len(list))
	for _, remote := range list {
		cfg := remote.Config()
		if len(cfg.URLs) == 0 {
			continue
		}
		remotes[cfg.Name] = cfg.URLs[0]
	}
	return remotes, nil
}

// IsDirty reports whether the worktree has staged, unstaged or untracked changes,
// or whether the checked out branch has diverged from its upstream.
func (c *Client) IsDirty(ctx context.Context, root string) (bool, error) {
	repo, err := open(ctx, root)
	if err != nil {
		return false, err
	}
	if _, err := repo.Head(); errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, zerr.With(domain.ErrNoCommit, "root", root)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, zerr.With(err, "root", root)
	}
	status, err := wt.Status()
	if err != nil {
		return false, zerr.With(err, "root", root)
	}
	if !status.IsClean() {
		return true, nil
	}
	return divergedFromUpstream(repo)
}

// divergedFromUpstream compares HEAD with the remote-tracking ref of its branch.
// A detached HEAD, a branch without upstream, or an upstream that was never fetched count as in sync.
func divergedFromUpstream(repo *git.Repository) (bool, error) {
	head, err := repo.Head()
	if err != nil {
		return false, err
	}
	if !head.Name().IsBranch() {
		return false, nil
	}
	cfg, err := repo.Config()
	if err != nil {
		return false, err
	}
	branch, ok := cfg.Branches[head.Name().Short()]
	if !ok || branch.Remote == "" || branch.Merge == "" {
		return false, nil
	}
	upstream, err := repo.Reference(plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short()), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return upstream.Hash() != head.Hash(), nil
}
