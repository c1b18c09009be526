package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/whence/internal/adapters/watcher"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/ui/output"
	"go.trai.ch/whence/internal/ui/render"
	"go.trai.ch/zerr"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	RunOptions
	Details bool
	// Window is the debounce window; zero means watcher.DefaultDebounceWindow.
	Window time.Duration
}

// Watch prints the report of name, then watches its repository and prints it again
// whenever a batch of file changes alters it. It returns when ctx is canceled.
func (a *App) Watch(ctx context.Context, w io.Writer, name string, opts WatchOptions) error {
	s, err := a.prepare(opts.RunOptions)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	r, err := s.newResolver(name, opts.Reference)
	if err != nil {
		return err
	}

	p := render.New(w, output.ColorProfile(w))
	res := r.Inspect(ctx)
	if err := printReport(p, name, res.Report, opts.Details); err != nil {
		return err
	}
	if res.Root == "" {
		return zerr.With(zerr.With(domain.ErrNotARepository, "package", name), "searched", fmt.Sprint(res.Candidates))
	}

	if err := a.watcher.Start(ctx, watchRoots(res.Root, s.cfg.VCS.Markers)); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	window := opts.Window
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}

	var (
		mu     sync.Mutex
		last   = res.Report
		closed bool
	)
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		a.logger.Debug(fmt.Sprintf("%d paths changed, resolving %s", len(paths), name))
		next := r.Resolve(ctx)
		if next.Equal(last) {
			return
		}
		last = next
		if err := printReport(p, name, next, opts.Details); err != nil {
			a.logger.Error(err)
		}
	})

	for ev := range a.watcher.Events() {
		debouncer.Add(ev.Path)
	}

	debouncer.Stop()
	mu.Lock()
	closed = true
	mu.Unlock()

	return nil
}

// watchRoots returns the repository root and every marker in it that is a directory.
func watchRoots(root string, markers []string) []string {
	if len(markers) == 0 {
		markers = domain.DefaultVCSMarkers()
	}
	roots := []string{root}
	for _, marker := range markers {
		dir := filepath.Join(root, marker)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}
