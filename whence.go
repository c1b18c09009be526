// Package whence reports where an installed Go module came from: the version the
// build recorded, the module metadata the go command sees, and the state of the
// repository checkout the code lives in, if any.
package whence

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.trai.ch/whence/internal/adapters/buildinfo"
	"go.trai.ch/whence/internal/adapters/distinfo"
	"go.trai.ch/whence/internal/adapters/fs"
	"go.trai.ch/whence/internal/adapters/gitcli"
	"go.trai.ch/whence/internal/adapters/gogit"
	"go.trai.ch/whence/internal/adapters/golist"
	"go.trai.ch/whence/internal/adapters/logger"
	"go.trai.ch/whence/internal/adapters/shell"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/whence/internal/engine/resolver"
)

// Report is the provenance of one module.
type Report = domain.Report

type settings struct {
	reference   string
	verbose     bool
	logOutput   io.Writer
	binary      string
	searchPaths []string
	gogit       bool
	timeout     time.Duration
}

// Option configures Find.
type Option func(*settings)

// WithReference sets a file or directory inside the module. It is required.
func WithReference(path string) Option {
	return func(s *settings) { s.reference = path }
}

// WithVerbose logs every probe step at debug level.
func WithVerbose(verbose bool) Option {
	return func(s *settings) { s.verbose = verbose }
}

// WithLogOutput sends log output to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(s *settings) { s.logOutput = w }
}

// WithBinary inspects the build info of the Go binary at path instead of the running program.
func WithBinary(path string) Option {
	return func(s *settings) { s.binary = path }
}

// WithMetadataSearchPaths reads dist-info and egg-info descriptors from dirs
// instead of asking the go command.
func WithMetadataSearchPaths(dirs ...string) Option {
	return func(s *settings) { s.searchPaths = append(s.searchPaths, dirs...) }
}

// WithGoGit reads repositories in-process instead of running git.
func WithGoGit() Option {
	return func(s *settings) { s.gogit = true }
}

// WithTimeout bounds each external command. By default git gets 10s and the go command 30s.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// Find resolves the provenance of the module name. Probe failures leave the
// corresponding fields unset; only invalid arguments produce an error.
func Find(ctx context.Context, name string, opts ...Option) (Report, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	log := logger.New()
	log.SetOutput(s.logOutput)
	if s.verbose {
		log.SetLevel(slog.LevelDebug)
	}

	r, err := resolver.New(name, s.reference, s.deps(log))
	if err != nil {
		return Report{}, err
	}
	return r.Resolve(ctx), nil
}

func (s *settings) deps(log ports.Logger) resolver.Deps {
	runner := shell.NewRunner(domain.DefaultCommandTimeout)
	vcsTimeout, metaTimeout := domain.DefaultCommandTimeout, domain.DefaultMetadataTimeout
	if s.timeout > 0 {
		vcsTimeout, metaTimeout = s.timeout, s.timeout
	}

	var pm ports.PackageManager
	if s.binary != "" {
		pm = buildinfo.NewFile(s.binary, buildinfo.WithLogger(log))
	} else {
		pm = buildinfo.NewSelf(buildinfo.WithLogger(log))
	}

	var meta ports.MetadataResolver
	if len(s.searchPaths) > 0 {
		meta = distinfo.New(s.searchPaths...)
	} else {
		meta = golist.New(runner, golist.WithTimeout(metaTimeout))
	}

	var vcs ports.VCS
	if s.gogit {
		vcs = gogit.New()
	} else {
		vcs = gitcli.New(runner, gitcli.WithTimeout(vcsTimeout))
	}

	return resolver.Deps{
		Logger:         log,
		PackageManager: pm,
		Metadata:       meta,
		Locator:        fs.NewLocator(),
		VCS:            vcs,
	}
}
