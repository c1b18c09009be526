package gogit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/whence/internal/adapters/gogit"
	"go.trai.ch/whence/internal/core/domain"
)

var signature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// newRepo creates a repository with one commit and returns its path and the commit hash.
func newRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600))
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{Author: signature, Committer: signature})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestClient_Head(t *testing.T) {
	dir, commit := newRepo(t)

	head, err := gogit.New().Head(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, commit, head)
}

func TestClient_Head_NoCommit(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gogit.New().Head(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoCommit.Error())
}

func TestClient_IsDirty_NoCommit(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gogit.New().IsDirty(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoCommit.Error())
}

func TestClient_NotARepository(t *testing.T) {
	_, err := gogit.New().Head(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNotARepository.Error())
}

func TestClient_CanceledContext(t *testing.T) {
	dir, _ := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gogit.New().Remotes(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_TagsAt(t *testing.T) {
	dir, commit := newRepo(t)
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	_, err = repo.CreateTag("v1.0.0", head.Hash(), nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("release", head.Hash(), &git.CreateTagOptions{Tagger: signature, Message: "release"})
	require.NoError(t, err)

	tags, err := gogit.New().TagsAt(context.Background(), dir, commit)
	require.NoError(t, err)
	assert.Equal(t, []string{"release", "v1.0.0"}, tags)

	tags, err = gogit.New().TagsAt(context.Background(), dir, "0000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestClient_Remotes(t *testing.T) {
	dir, _ := newRepo(t)
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)

	remotes, err := gogit.New().Remotes(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, remotes)
	assert.NotNil(t, remotes)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/o/r.git", "https://mirror.example.com/o/r.git"},
	})
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "upstream", URLs: []string{"git@example.com:u/r.git"}})
	require.NoError(t, err)

	remotes, err = gogit.New().Remotes(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"origin":   "https://example.com/o/r.git",
		"upstream": "git@example.com:u/r.git",
	}, remotes)
}

func TestClient_IsDirty(t *testing.T) {
	dir, _ := newRepo(t)
	client := gogit.New()

	dirty, err := client.IsDirty(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package changed\n"), 0o600))
	dirty, err = client.IsDirty(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestClient_IsDirty_Upstream(t *testing.T) {
	dir, commit := newRepo(t)
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	branch := head.Name().Short()

	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://example.com/o/r.git"}})
	require.NoError(t, err)
	require.NoError(t, repo.CreateBranch(&config.Branch{
		Name:   branch,
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName(branch),
	}))

	tracking := plumbing.NewRemoteReferenceName("origin", branch)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(tracking, plumbing.NewHash(commit))))

	dirty, err := gogit.New().IsDirty(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, dirty, "in sync with upstream")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "second.go"), []byte("package main\n"), 0o600))
	_, err = wt.Add("second.go")
	require.NoError(t, err)
	_, err = wt.Commit("second", &git.CommitOptions{Author: signature, Committer: signature})
	require.NoError(t, err)

	dirty, err = gogit.New().IsDirty(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, dirty, "ahead of upstream")
}
