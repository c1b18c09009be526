// Package gitcli queries repositories through the git command line client.
package gitcli

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.VCS = (*Client)(nil)

// stableEnv pins git's messages to English and keeps it from prompting.
var stableEnv = []string{"LC_ALL=C", "LANG=C", "GIT_TERMINAL_PROMPT=0"}

// Client implements ports.VCS by running git through a ports.CommandRunner.
type Client struct {
	runner  ports.CommandRunner
	binary  string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBinary sets the git executable.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTimeout bounds each git invocation.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Client.
func New(runner ports.CommandRunner, opts ...Option) *Client {
	c := &Client{
		runner:  runner,
		binary:  domain.DefaultGitBinary,
		timeout: domain.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) git(ctx context.Context, root string, args ...string) (string, error) {
	out, err := c.runner.Run(ctx, ports.Command{
		Name:    c.binary,
		Args:    append([]string{"-C", root}, args...),
		Env:     stableEnv,
		Timeout: c.timeout,
	})
	if err != nil {
		return "", zerr.With(err, "root", root)
	}
	return out, nil
}

// Head returns the full hash of HEAD.
func (c *Client) Head(ctx context.Context, root string) (string, error) {
	out, err := c.git(ctx, root, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return "", err
	}
	commit := strings.TrimSpace(out)
	if commit == "" {
		return "", zerr.With(domain.ErrNoCommit, "root", root)
	}
	return commit, nil
}

// TagsAt returns the tags pointing at commit in the order git lists them.
func (c *Client) TagsAt(ctx context.Context, root, commit string) ([]string, error) {
	out, err := c.git(ctx, root, "tag", "--points-at", commit)
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

// Remotes maps each remote to its fetch URL.
func (c *Client) Remotes(ctx context.Context, root string) (map[string]string, error) {
	out, err := c.git(ctx, root, "remote", "-v")
	if err != nil {
		return nil, err
	}
	return ParseRemotes(out), nil
}

// IsDirty parses git status. A branch without commits has no state to compare against.
func (c *Client) IsDirty(ctx context.Context, root string) (bool, error) {
	out, err := c.git(ctx, root, "status")
	if err != nil {
		return false, err
	}
	if HasNoCommits(out) {
		return false, zerr.With(domain.ErrNoCommit, "root", root)
	}
	return ParseStatus(out), nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
