// Package fs provides file system adapters.
package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
)

var _ ports.RepositoryLocator = (*Locator)(nil)

// Locator finds the directory that holds a repository's metadata entry.
type Locator struct {
	markers []string
}

// NewLocator creates a Locator that looks for any of markers, or domain.DefaultVCSMarkers when none are given.
func NewLocator(markers ...string) *Locator {
	if len(markers) == 0 {
		markers = domain.DefaultVCSMarkers()
	}
	return &Locator{markers: markers}
}

// Locate returns the first candidate containing a marker. Each candidate is checked once;
// missing or unreadable directories are skipped.
func (l *Locator) Locate(candidates []string) (string, bool) {
	seen := make(map[string]struct{}, len(candidates))
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}

		if l.hasMarker(dir) {
			return dir, true
		}
	}
	return "", false
}

func (l *Locator) hasMarker(dir string) bool {
	for _, marker := range l.markers {
		// A .git file marks a worktree or submodule checkout, so files count as well.
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
