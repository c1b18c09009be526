// Package golist asks the go command which module version a directory builds against.
package golist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/mod/module"
)

var _ ports.MetadataResolver = (*Resolver)(nil)

// Module mirrors the subset of `go list -m -json` output that is used.
type Module struct {
	Path    string
	Version string
	Replace *Module
	Dir     string
	Main    bool
	Origin  *Origin
	Error   *ModuleError
}

// Origin describes where a module version was fetched from.
type Origin struct {
	VCS  string
	URL  string
	Hash string
	Ref  string
}

// ModuleError is a per-module failure reported by go list.
type ModuleError struct {
	Err string
}

// Resolver implements ports.MetadataResolver with `go list -m -json`.
type Resolver struct {
	runner  ports.CommandRunner
	binary  string
	timeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBinary sets the go executable.
func WithBinary(binary string) Option {
	return func(r *Resolver) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithTimeout bounds each go invocation.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New creates a Resolver.
func New(runner ports.CommandRunner, opts ...Option) *Resolver {
	r := &Resolver{
		runner:  runner,
		binary:  domain.DefaultGoBinary,
		timeout: domain.DefaultMetadataTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Require returns the module named name as selected by the build list of workDir.
func (r *Resolver) Require(ctx context.Context, name, workDir string) ([]domain.Distribution, error) {
	if err := module.CheckImportPath(name); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDistributionNotFound.Error()), "package", name)
	}

	out, err := r.runner.Run(ctx, ports.Command{
		Dir:     workDir,
		Name:    r.binary,
		Args:    []string{"list", "-m", "-json", name},
		Timeout: r.timeout,
	})
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}

	modules, err := Decode(strings.NewReader(out))
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}

	dists := make([]domain.Distribution, 0, len(modules))
	for _, m := range modules {
		if m.Error != nil {
			return nil, zerr.With(zerr.Wrap(errors.New(m.Error.Err), domain.ErrDistributionNotFound.Error()), "package", m.Path)
		}
		dists = append(dists, m.Distribution())
	}
	return dists, nil
}

// Decode reads the concatenated JSON objects go list prints.
func Decode(r io.Reader) ([]Module, error) {
	dec := json.NewDecoder(r)
	var modules []Module
	for {
		var m Module
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			return modules, nil
		}
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrMalformedOutput.Error())
		}
		modules = append(modules, m)
	}
}

// Distribution converts m, following its replacement when there is one.
func (m Module) Distribution() domain.Distribution {
	effective := m
	if m.Replace != nil {
		effective = *m.Replace
		if effective.Version == "" {
			effective.Version = m.Version
		}
		if effective.Dir == "" {
			effective.Dir = m.Dir
		}
	}

	homepage := domain.ModuleHomepage(m.Path)
	if effective.Origin != nil && effective.Origin.URL != "" {
		homepage = effective.Origin.URL
	}

	lines := []string{"Metadata-Version: 2.1", "Name: " + m.Path}
	if effective.Version != "" {
		lines = append(lines, "Version: "+effective.Version)
	}
	if homepage != "" {
		lines = append(lines, domain.HomepageKey+": "+homepage)
	}

	return domain.Distribution{
		Name:     m.Path,
		Version:  effective.Version,
		Location: effective.Dir,
		Metadata: lines,
	}
}
