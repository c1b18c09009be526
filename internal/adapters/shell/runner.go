// Package shell runs external tools with captured output.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

var errNoDir = errors.New("working directory does not exist")

// waitDelay bounds how long a killed command may keep its output pipes open.
const waitDelay = 500 * time.Millisecond

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	timeout time.Duration
}

// NewRunner creates a Runner whose commands time out after timeout unless they set their own.
// A non-positive timeout selects domain.DefaultCommandTimeout.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = domain.DefaultCommandTimeout
	}
	return &Runner{timeout: timeout}
}

// Run executes the command in its directory and returns standard output.
// The environment is the process environment overlaid with cmd.Env.
func (r *Runner) Run(ctx context.Context, cmd ports.Command) (string, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if cmd.Dir != "" {
		if info, err := os.Stat(cmd.Dir); err != nil || !info.IsDir() {
			return "", zerr.With(zerr.Wrap(errNoDir, domain.ErrCommandFailed.Error()), "dir", cmd.Dir)
		}
	}

	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(executable) {
		lp, err := lookPath(cmd.Name, env)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrToolNotFound.Error()), "tool", cmd.Name)
		}
		executable = lp
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // tool and arguments are chosen by adapters
	c.Args[0] = cmd.Name
	c.Dir = cmd.Dir
	c.Env = env
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrCommandTimeout.Error()), "command", commandLine(cmd)),
			"timeout", timeout.String(),
		)
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return "", zerr.With(zerr.Wrap(err, domain.ErrToolNotFound.Error()), "tool", cmd.Name)
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	failure := zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", commandLine(cmd))
	failure = zerr.With(failure, "exit_code", exitCode)
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		failure = zerr.With(failure, "stderr", msg)
	}
	return "", failure
}

func commandLine(cmd ports.Command) string {
	return strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
}

// resolveEnvironment applies overrides on top of the system environment, replacing entries by key.
func resolveEnvironment(sysEnv, overrides []string) []string {
	env := slices.Clone(sysEnv)
	for _, entry := range overrides {
		key, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		env = slices.DeleteFunc(env, func(existing string) bool {
			k, _, _ := strings.Cut(existing, "=")
			return k == key
		})
		env = append(env, entry)
	}
	return env
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	if strings.ContainsRune(file, filepath.Separator) {
		if err := findExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}

	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
