// Package resolver merges the package manager, metadata and VCS probes into a provenance report.
package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
)

// TracerName is the instrumentation scope of the resolver's spans.
const TracerName = "go.trai.ch/whence/internal/engine/resolver"

// Span names, one per probe.
const (
	SpanPackageManager = "whence.probe.package_manager"
	SpanMetadata       = "whence.probe.metadata"
	SpanLocate         = "whence.locate"
	SpanVCS            = "whence.probe.vcs"
)

// Deps are the collaborators a Resolver probes through. Nil collaborators produce no data.
type Deps struct {
	Logger         ports.Logger
	PackageManager ports.PackageManager
	Metadata       ports.MetadataResolver
	Locator        ports.RepositoryLocator
	VCS            ports.VCS
}

// Resolver determines the provenance of one package.
type Resolver struct {
	name       string
	packageDir string
	deps       Deps
	tracer     trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTracer records probe spans on t instead of the global tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// New creates a Resolver for name. reference is a file or directory inside the package;
// a directory is used as the package directory, a file contributes its parent.
func New(name, reference string, deps Deps, opts ...Option) (*Resolver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidPackageName
	}
	if strings.TrimSpace(reference) == "" {
		return nil, zerr.With(domain.ErrMissingReferencePath, "package", name)
	}

	packageDir, err := packageDirOf(reference)
	if err != nil {
		return nil, zerr.With(err, "reference", reference)
	}

	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}

	r := &Resolver{
		name:       name,
		packageDir: packageDir,
		deps:       deps,
		tracer:     otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func packageDirOf(reference string) (string, error) {
	abs, err := filepath.Abs(reference)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve reference path")
	}
	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return abs, nil
	}
	return filepath.Dir(abs), nil
}

// Name returns the package name being resolved.
func (r *Resolver) Name() string {
	return r.name
}

// PackageDir returns the directory derived from the reference path.
func (r *Resolver) PackageDir() string {
	return r.packageDir
}

// Resolution is a Report together with the intermediate probe results it was built from.
type Resolution struct {
	Report         domain.Report
	PackageManager domain.ProbeResult[domain.PackageInfo]
	Metadata       domain.ProbeResult[domain.MetadataInfo]
	// Candidates are the directories searched for a repository, in order.
	Candidates []string
	// Root is the repository root, empty when none was found.
	Root string
	VCS  domain.ProbeResult[domain.VCSInfo]
}

// Resolve probes every source and returns the merged report. Probe failures only
// remove that probe's contribution; Resolve never fails. Results are not cached.
func (r *Resolver) Resolve(ctx context.Context) domain.Report {
	return r.Inspect(ctx).Report
}

// Inspect runs a resolution and keeps the intermediate results.
func (r *Resolver) Inspect(ctx context.Context) Resolution {
	var res Resolution
	var draft domain.ReportFields

	res.PackageManager = probe(ctx, r, SpanPackageManager, r.probePackageManager)
	if res.PackageManager.OK() {
		mergePackageInfo(&draft, res.PackageManager.Data())
	} else {
		r.deps.Logger.Debug(fmt.Sprintf("package manager probe for %s failed: %v", r.name, res.PackageManager.Reason()))
	}

	res.Metadata = probe(ctx, r, SpanMetadata, r.probeMetadata)
	if res.Metadata.OK() {
		info := res.Metadata.Data()
		draft.MetadataVersion = info.Version
		draft.MetadataURL = info.URL
	} else {
		r.deps.Logger.Debug(fmt.Sprintf("metadata probe for %s failed: %v", r.name, res.Metadata.Reason()))
	}

	res.Candidates = r.candidates(res.PackageManager, res.Metadata)
	located := probe(ctx, r, SpanLocate, func(context.Context) (string, error) {
		return r.locate(res.Candidates)
	})
	res.Root = located.Data()

	if res.Root == "" {
		r.deps.Logger.Debug(fmt.Sprintf("no repository found for %s in %v", r.name, res.Candidates))
		res.Report = domain.NewReport(draft)
		return res
	}

	res.VCS = probe(ctx, r, SpanVCS, func(ctx context.Context) (domain.VCSInfo, error) {
		return r.probeVCS(ctx, res.Root)
	})
	if res.VCS.OK() {
		info := res.VCS.Data()
		draft.VCSCommit = info.Commit
		draft.VCSTag = info.Tag
		draft.VCSRemotes = info.Remotes
		draft.VCSIsDirty = info.Dirty
	} else {
		r.deps.Logger.Debug(fmt.Sprintf("vcs probe in %s failed: %v", res.Root, res.VCS.Reason()))
	}

	res.Report = domain.NewReport(draft)
	return res
}

// mergePackageInfo copies only the values the package manager actually reported.
func mergePackageInfo(draft *domain.ReportFields, info domain.PackageInfo) {
	if !info.Found {
		return
	}
	if info.Version != "" {
		draft.PkgMgrVersion = info.Version
	}
	if info.URL != "" {
		draft.PkgMgrURL = info.URL
	}
	if info.Requirement != "" {
		draft.PkgMgrRequirement = info.Requirement
	}
}

// candidates lists the package directory followed by the reported install locations, without repeats.
func (r *Resolver) candidates(
	pkg domain.ProbeResult[domain.PackageInfo],
	meta domain.ProbeResult[domain.MetadataInfo],
) []string {
	dirs := []string{r.packageDir}
	if pkg.OK() && pkg.Data().Found {
		dirs = append(dirs, pkg.Data().Location)
	}
	if meta.OK() {
		dirs = append(dirs, meta.Data().Location)
	}

	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" || slices.Contains(out, dir) {
			continue
		}
		out = append(out, dir)
	}
	return out
}

func (r *Resolver) locate(candidates []string) (string, error) {
	if r.deps.Locator == nil {
		return "", nil
	}
	root, found := r.deps.Locator.Locate(candidates)
	if !found {
		return "", nil
	}
	return root, nil
}

// probe runs fn inside a span and converts errors and panics into a failed result.
func probe[T any](
	ctx context.Context,
	r *Resolver,
	spanName string,
	fn func(context.Context) (T, error),
) (res domain.ProbeResult[T]) {
	ctx, span := r.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("whence.package", r.name),
	))
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			err := zerr.With(domain.ErrProbePanicked, "panic", fmt.Sprint(p))
			recordFailure(span, err)
			res = domain.Failed[T](err)
		}
	}()

	data, err := fn(ctx)
	if err != nil {
		recordFailure(span, err)
		return domain.Failed[T](err)
	}
	return domain.Succeeded(data)
}

// guard runs a single query and converts a panic into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = zerr.With(domain.ErrProbePanicked, "panic", fmt.Sprint(p))
		}
	}()
	return fn()
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}
