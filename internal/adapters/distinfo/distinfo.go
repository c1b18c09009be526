// Package distinfo finds installed distributions by scanning for dist-info and egg-info descriptors.
package distinfo

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"
	distInfoFile   = "METADATA"
	eggInfoFile    = "PKG-INFO"
)

var _ ports.MetadataResolver = (*Scanner)(nil)

// Scanner implements ports.MetadataResolver over a list of installation directories.
type Scanner struct {
	searchPaths []string
}

// New creates a Scanner. Directories are searched in order.
func New(searchPaths ...string) *Scanner {
	return &Scanner{searchPaths: searchPaths}
}

// Require returns every distribution named name, in search path order. workDir is not consulted.
func (s *Scanner) Require(ctx context.Context, name, _ string) ([]domain.Distribution, error) {
	want := canonical(name)
	var dists []domain.Distribution
	for _, dir := range s.searchPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			dist, ok := readEntry(dir, entry, want)
			if ok {
				dists = append(dists, dist)
			}
		}
	}
	if len(dists) == 0 {
		return nil, zerr.With(domain.ErrDistributionNotFound, "package", name)
	}
	return dists, nil
}

func readEntry(dir string, entry fs.DirEntry, want string) (domain.Distribution, bool) {
	base := entry.Name()
	var descriptor string
	switch {
	case strings.HasSuffix(base, distInfoSuffix) && entry.IsDir():
		descriptor = filepath.Join(dir, base, distInfoFile)
		base = strings.TrimSuffix(base, distInfoSuffix)
	case strings.HasSuffix(base, eggInfoSuffix):
		descriptor = filepath.Join(dir, base)
		if entry.IsDir() {
			descriptor = filepath.Join(descriptor, eggInfoFile)
		}
		base = strings.TrimSuffix(base, eggInfoSuffix)
	default:
		return domain.Distribution{}, false
	}

	name, version, _ := strings.Cut(base, "-")
	// Drop the "-py3.x" suffix egg-info names carry after the version.
	version, _, _ = strings.Cut(version, "-")
	if canonical(name) != want {
		return domain.Distribution{}, false
	}

	lines, err := ReadHeader(descriptor)
	if err != nil {
		return domain.Distribution{}, false
	}
	if v := headerValue(lines, "Version"); v != "" {
		version = v
	}
	if n := headerValue(lines, "Name"); n != "" {
		name = n
	}

	return domain.Distribution{
		Name:     name,
		Version:  version,
		Location: dir,
		Metadata: lines,
	}, true
}

// ReadHeader returns the descriptor lines up to the first blank line.
func ReadHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, bufio.ErrTooLong) {
		return nil, zerr.With(err, "path", path)
	}
	return lines, nil
}

func headerValue(lines []string, key string) string {
	for _, line := range lines {
		k, v, ok := strings.Cut(line, ":")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// canonical folds case and treats '-', '_' and '.' as the same character.
func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '.' {
			return '-'
		}
		return r
	}, name)
}
