// Package app implements the application layer for whence.
package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"

	"go.trai.ch/whence/internal/adapters/buildinfo"
	"go.trai.ch/whence/internal/adapters/config"
	"go.trai.ch/whence/internal/adapters/distinfo"
	"go.trai.ch/whence/internal/adapters/fs"
	"go.trai.ch/whence/internal/adapters/gitcli"
	"go.trai.ch/whence/internal/adapters/gogit"
	"go.trai.ch/whence/internal/adapters/golist"
	"go.trai.ch/whence/internal/adapters/telemetry"
	"go.trai.ch/whence/internal/build"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/whence/internal/engine/resolver"
	"go.trai.ch/whence/internal/ui/output"
	"go.trai.ch/whence/internal/ui/render"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// levelled is implemented by loggers whose verbosity and format can change at runtime.
type levelled interface {
	SetLevel(level slog.Level)
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	runner       ports.CommandRunner
	locator      ports.RepositoryLocator
	watcher      ports.Watcher
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	runner ports.CommandRunner,
	locator ports.RepositoryLocator,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		runner:       runner,
		locator:      locator,
		watcher:      w,
	}
}

// RunOptions are the settings shared by every command. Non-empty values override the config file.
type RunOptions struct {
	// Reference is a file or directory inside the package being resolved.
	Reference string
	// Binary is a Go binary to inspect instead of the running one.
	Binary string
	// ConfigPath is the config file, or a directory to discover it from.
	ConfigPath string
	// VCSBackend selects "cli" or "gogit".
	VCSBackend string
	// MetadataBackend selects "golist" or "distinfo".
	MetadataBackend string
	Verbose         bool
	LogJSON         bool
	Trace           bool
}

// ShowOptions configuration for the Show method.
type ShowOptions struct {
	RunOptions
	JSON    bool
	Details bool
}

// session holds the collaborators of one command invocation.
type session struct {
	cfg      *domain.Config
	deps     resolver.Deps
	provider *telemetry.Provider
}

func (s *session) newResolver(name, reference string) (*resolver.Resolver, error) {
	return resolver.New(name, reference, s.deps, resolver.WithTracer(s.provider.Tracer(resolver.TracerName)))
}

func (s *session) close(ctx context.Context) {
	_ = s.provider.Shutdown(context.WithoutCancel(ctx))
}

// prepare loads the configuration, applies the command line overrides and builds the adapters.
func (a *App) prepare(opts RunOptions) (*session, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	cfg = cfg.Clone()

	if opts.Verbose {
		cfg.Log.Verbose = true
	}
	if opts.LogJSON {
		cfg.Log.JSON = true
	}
	if opts.VCSBackend != "" {
		if cfg.VCS.Backend, err = config.ParseVCSBackend(opts.VCSBackend); err != nil {
			return nil, err
		}
	}
	if opts.MetadataBackend != "" {
		if cfg.Metadata.Backend, err = config.ParseMetadataBackend(opts.MetadataBackend); err != nil {
			return nil, err
		}
	}

	a.configureLogger(cfg.Log)

	return &session{
		cfg: cfg,
		deps: resolver.Deps{
			Logger:         a.logger,
			PackageManager: a.packageManager(opts.Binary),
			Metadata:       a.metadataResolver(cfg.Metadata),
			Locator:        a.repositoryLocator(cfg.VCS.Markers),
			VCS:            a.vcs(cfg.VCS),
		},
		provider: telemetry.NewProvider(a.logger, opts.Trace),
	}, nil
}

func (a *App) configureLogger(cfg domain.LogConfig) {
	l, ok := a.logger.(levelled)
	if !ok {
		return
	}
	l.SetJSON(cfg.JSON)
	if cfg.Verbose {
		l.SetLevel(slog.LevelDebug)
	} else {
		l.SetLevel(slog.LevelError)
	}
}

func (a *App) packageManager(binary string) ports.PackageManager {
	if binary != "" {
		return buildinfo.NewFile(binary, buildinfo.WithLogger(a.logger))
	}
	return buildinfo.NewSelf(buildinfo.WithLogger(a.logger))
}

func (a *App) metadataResolver(cfg domain.MetadataConfig) ports.MetadataResolver {
	if cfg.Backend == domain.MetadataBackendDistInfo {
		return distinfo.New(cfg.SearchPaths...)
	}
	return golist.New(a.runner, golist.WithBinary(cfg.Binary), golist.WithTimeout(cfg.Timeout))
}

func (a *App) repositoryLocator(markers []string) ports.RepositoryLocator {
	if len(markers) == 0 || slices.Equal(markers, domain.DefaultVCSMarkers()) {
		return a.locator
	}
	return fs.NewLocator(markers...)
}

func (a *App) vcs(cfg domain.VCSConfig) ports.VCS {
	if cfg.Backend == domain.VCSBackendGoGit {
		return gogit.New()
	}
	return gitcli.New(a.runner, gitcli.WithBinary(cfg.Binary), gitcli.WithTimeout(cfg.Timeout))
}

// Show resolves every named package concurrently and prints the reports in argument order.
func (a *App) Show(ctx context.Context, w io.Writer, names []string, opts ShowOptions) error {
	if len(names) == 0 {
		return domain.ErrNoPackagesSpecified
	}

	s, err := a.prepare(opts.RunOptions)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	reports := make([]domain.Report, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			r, err := s.newResolver(name, opts.Reference)
			if err != nil {
				return err
			}
			reports[i] = r.Resolve(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.JSON {
		return writeJSON(w, names, reports)
	}

	p := render.New(w, output.ColorProfile(w))
	for i, name := range names {
		if err := printReport(p, name, reports[i], opts.Details); err != nil {
			return err
		}
	}
	return nil
}

// Version prints the provenance of whence itself.
func (a *App) Version(ctx context.Context, w io.Writer, opts RunOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	reference := opts.Reference
	if reference == "" {
		reference = "."
	}
	r, err := s.newResolver(build.ModulePath, reference)
	if err != nil {
		return err
	}
	return render.New(w, output.ColorProfile(w)).Summary(build.ModulePath, r.Resolve(ctx))
}

func printReport(p *render.Printer, name string, report domain.Report, details bool) error {
	if details {
		return p.Details(name, report)
	}
	return p.Summary(name, report)
}

type namedReport struct {
	Name   string        `json:"name"`
	Report domain.Report `json:"report"`
}

func writeJSON(w io.Writer, names []string, reports []domain.Report) error {
	out := make([]namedReport, len(names))
	for i, name := range names {
		out[i] = namedReport{Name: name, Report: reports[i]}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
