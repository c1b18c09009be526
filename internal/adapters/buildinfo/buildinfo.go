// Package buildinfo exposes the modules compiled into a Go binary as installed distributions.
package buildinfo

import (
	"context"
	"debug/buildinfo"
	"fmt"
	"path/filepath"
	"runtime/debug"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

var _ ports.PackageManager = (*Reader)(nil)

// Reader implements ports.PackageManager over the build information embedded in a binary.
type Reader struct {
	info       *debug.BuildInfo
	err        error
	moduleRoot string
	logger     ports.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithModuleRoot sets the main module's directory, used to resolve relative local replacements.
func WithModuleRoot(dir string) Option {
	return func(r *Reader) {
		r.moduleRoot = dir
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger ports.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Reader over already loaded build information. A nil info behaves like a
// binary built without module support.
func New(info *debug.BuildInfo, opts ...Option) *Reader {
	r := &Reader{info: info, logger: nopLogger{}}
	if info == nil {
		r.err = domain.ErrBuildInfoUnavailable
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSelf creates a Reader over the running binary.
func NewSelf(opts ...Option) *Reader {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = nil
	}
	return New(info, opts...)
}

// NewFile creates a Reader over the Go binary at path.
func NewFile(path string, opts ...Option) *Reader {
	info, err := buildinfo.ReadFile(path)
	if err != nil {
		r := New(nil, opts...)
		r.err = zerr.With(zerr.Wrap(err, domain.ErrBuildInfoUnavailable.Error()), "binary", path)
		return r
	}
	return New(info, opts...)
}

// Installed lists the main module followed by every dependency.
func (r *Reader) Installed(ctx context.Context) ([]domain.Distribution, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dists := make([]domain.Distribution, 0, len(r.info.Deps)+1)
	if r.info.Main.Path != "" {
		dists = append(dists, r.mainDistribution())
	}
	for _, dep := range r.info.Deps {
		if dep == nil {
			continue
		}
		dists = append(dists, r.depDistribution(dep))
	}
	return dists, nil
}

// Freeze renders how the module named by dist entered the binary.
func (r *Reader) Freeze(ctx context.Context, dist domain.Distribution) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if dist.Name == r.info.Main.Path {
		return r.freezeMain(), nil
	}
	var found *debug.Module
	for _, dep := range r.info.Deps {
		if dep != nil && dep.Path == dist.Name {
			found = dep
		}
	}
	if found == nil {
		return "", zerr.With(domain.ErrDistributionNotFound, "package", dist.Name)
	}
	return freezeDep(found), nil
}

func (r *Reader) mainDistribution() domain.Distribution {
	m := r.info.Main
	version := cleanVersion(m.Version)
	lines := descriptor(m.Path, version)
	vcs := r.vcsSettings()
	if vcs.system != "" {
		lines = append(lines, "Vcs: "+vcs.system)
	}
	if vcs.revision != "" {
		lines = append(lines, "Vcs-Revision: "+vcs.revision)
	}
	if vcs.modified != "" {
		lines = append(lines, "Vcs-Modified: "+vcs.modified)
	}
	return domain.Distribution{
		Name:     m.Path,
		Version:  version,
		Location: r.moduleRoot,
		Metadata: lines,
	}
}

func (r *Reader) depDistribution(dep *debug.Module) domain.Distribution {
	version := cleanVersion(dep.Version)
	var location string
	if dep.Replace != nil {
		if dep.Replace.Version != "" {
			version = cleanVersion(dep.Replace.Version)
		} else {
			location = r.localDir(dep)
		}
	}

	lines := descriptor(dep.Path, version)
	if module.IsPseudoVersion(version) {
		if rev, err := module.PseudoVersionRev(version); err == nil {
			lines = append(lines, "Vcs-Revision: "+rev)
		}
	}
	return domain.Distribution{
		Name:     dep.Path,
		Version:  version,
		Location: location,
		Metadata: lines,
	}
}

// localDir resolves the directory of a filesystem replacement. A relative directory is
// only usable when the main module's root is known.
func (r *Reader) localDir(dep *debug.Module) string {
	dir := dep.Replace.Path
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	if r.moduleRoot == "" {
		r.logger.Debug(fmt.Sprintf("cannot resolve relative replacement %s => %s without a module root", dep.Path, dir))
		return ""
	}
	return filepath.Join(r.moduleRoot, dir)
}

func (r *Reader) freezeMain() string {
	m := r.info.Main
	vcs := r.vcsSettings()
	if vcs.system != "" && vcs.revision != "" {
		return fmt.Sprintf("%s+https://%s@%s", vcs.system, m.Path, vcs.revision)
	}
	if v := cleanVersion(m.Version); v != "" {
		return m.Path + "@" + v
	}
	return m.Path
}

func freezeDep(dep *debug.Module) string {
	pin := dep.Path + "@" + dep.Version
	if dep.Replace == nil {
		return pin
	}
	if dep.Replace.Version == "" {
		return dep.Path + " => " + dep.Replace.Path
	}
	return pin + " => " + dep.Replace.Path + "@" + dep.Replace.Version
}

type vcsSettings struct {
	system   string
	revision string
	modified string
}

func (r *Reader) vcsSettings() vcsSettings {
	var s vcsSettings
	for _, setting := range r.info.Settings {
		switch setting.Key {
		case "vcs":
			s.system = setting.Value
		case "vcs.revision":
			s.revision = setting.Value
		case "vcs.modified":
			s.modified = setting.Value
		}
	}
	return s
}

// descriptor renders the core descriptor lines for a module.
func descriptor(path, version string) []string {
	lines := []string{
		"Metadata-Version: 2.1",
		"Name: " + path,
	}
	if version != "" {
		lines = append(lines, "Version: "+version)
	}
	if homepage := domain.ModuleHomepage(path); homepage != "" {
		lines = append(lines, domain.HomepageKey+": "+homepage)
	}
	return lines
}

// cleanVersion drops placeholders such as "(devel)" that are not real versions.
func cleanVersion(v string) string {
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}
