package resolver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports/mocks"
	"go.trai.ch/whence/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	pm      *mocks.MockPackageManager
	meta    *mocks.MockMetadataResolver
	locator *mocks.MockRepositoryLocator
	vcs     *mocks.MockVCS
	logger  *mocks.MockLogger
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		pm:      mocks.NewMockPackageManager(ctrl),
		meta:    mocks.NewMockMetadataResolver(ctrl),
		locator: mocks.NewMockRepositoryLocator(ctrl),
		vcs:     mocks.NewMockVCS(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		dir:     t.TempDir(),
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return f
}

func (f *fixture) deps() resolver.Deps {
	return resolver.Deps{
		Logger:         f.logger,
		PackageManager: f.pm,
		Metadata:       f.meta,
		Locator:        f.locator,
		VCS:            f.vcs,
	}
}

func (f *fixture) resolver(t *testing.T, name string, opts ...resolver.Option) *resolver.Resolver {
	t.Helper()
	r, err := resolver.New(name, f.dir, f.deps(), opts...)
	require.NoError(t, err)
	return r
}

func boolPtr(b bool) *bool { return &b }

func TestNew(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o600))

	t.Run("empty name", func(t *testing.T) {
		_, err := resolver.New("  ", dir, resolver.Deps{})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInvalidPackageName.Error())
	})

	t.Run("missing reference", func(t *testing.T) {
		_, err := resolver.New("pkg", "", resolver.Deps{})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrMissingReferencePath.Error())
	})

	t.Run("directory reference", func(t *testing.T) {
		r, err := resolver.New("pkg", dir, resolver.Deps{})
		require.NoError(t, err)
		assert.Equal(t, dir, r.PackageDir())
		assert.Equal(t, "pkg", r.Name())
	})

	t.Run("file reference uses its directory", func(t *testing.T) {
		r, err := resolver.New("pkg", file, resolver.Deps{})
		require.NoError(t, err)
		assert.Equal(t, dir, r.PackageDir())
	})

	t.Run("missing file reference uses its directory", func(t *testing.T) {
		r, err := resolver.New("pkg", filepath.Join(dir, "gone.go"), resolver.Deps{})
		require.NoError(t, err)
		assert.Equal(t, dir, r.PackageDir())
	})

	t.Run("relative reference is made absolute", func(t *testing.T) {
		r, err := resolver.New("pkg", "resolver.go", resolver.Deps{})
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(r.PackageDir()))
	})
}

func TestResolve_PackageManagerWinsOverMetadata(t *testing.T) {
	f := newFixture(t)

	f.pm.EXPECT().Installed(gomock.Any()).Return([]domain.Distribution{
		{Name: "example.com/pkg", Version: "1.2.3", Metadata: []string{"Home-page: https://a.example"}},
	}, nil)
	f.pm.EXPECT().Freeze(gomock.Any(), gomock.Any()).Return("example.com/pkg@1.2.3", nil)
	f.meta.EXPECT().Require(gomock.Any(), "example.com/pkg", f.dir).Return([]domain.Distribution{
		{Name: "example.com/pkg", Version: "9.9.9", Metadata: []string{"Home-page: https://b.example"}},
	}, nil)
	f.locator.EXPECT().Locate([]string{f.dir}).Return("", false)

	report := f.resolver(t, "example.com/pkg").Resolve(context.Background())

	assert.Equal(t, "1.2.3", report.BestVersion())
	assert.Equal(t, "https://a.example", report.BestURL())
	assert.Equal(t, "9.9.9", report.MetadataVersion())
	assert.Equal(t, "example.com/pkg@1.2.3", report.PkgMgrRequirement())
	assert.Nil(t, report.VCSRemotes())
	_, known := report.VCSIsDirty()
	assert.False(t, known)
}

func TestResolve_MetadataOnly(t *testing.T) {
	f := newFixture(t)

	f.pm.EXPECT().Installed(gomock.Any()).Return([]domain.Distribution{{Name: "other"}}, nil)
	f.meta.EXPECT().Require(gomock.Any(), "pkg", f.dir).Return([]domain.Distribution{
		{Name: "pkg", Version: "2.4.2", Metadata: []string{"Home-page: http://example.org/pkg"}},
	}, nil)
	f.locator.EXPECT().Locate([]string{f.dir}).Return("", false)

	report := f.resolver(t, "pkg").Resolve(context.Background())

	assert.Equal(t, "2.4.2", report.BestVersion())
	assert.Equal(t, "http://example.org/pkg", report.BestURL())
	assert.Empty(t, report.VCSDescription())
	assert.Equal(t, "2.4.2 <http://example.org/pkg>", report.LongDescription())
	assert.Empty(t, report.PkgMgrVersion())
}

func TestResolve_NothingDetected(t *testing.T) {
	f := newFixture(t)

	f.pm.EXPECT().Installed(gomock.Any()).Return(nil, errors.New("no build info"))
	f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.locator.EXPECT().Locate(gomock.Any()).Return("", false)

	report := f.resolver(t, "pkg").Resolve(context.Background())

	assert.True(t, report.Equal(domain.NewReport(domain.ReportFields{})))
	assert.Empty(t, report.ShortDescription())
	assert.Empty(t, report.LongDescription())
}

func TestResolve_PackageManagerMatching(t *testing.T) {
	tests := []struct {
		name      string
		dists     []domain.Distribution
		freezeErr error
		want      domain.ReportFields
	}{
		{
			name: "underscores normalised on both sides",
			dists: []domain.Distribution{
				{Name: "my-pkg", Version: "1.0.0"},
			},
			want: domain.ReportFields{PkgMgrVersion: "1.0.0", PkgMgrRequirement: "req"},
		},
		{
			name: "last match wins",
			dists: []domain.Distribution{
				{Name: "my_pkg", Version: "1.0.0"},
				{Name: "my-pkg", Version: "2.0.0"},
			},
			want: domain.ReportFields{PkgMgrVersion: "2.0.0", PkgMgrRequirement: "req"},
		},
		{
			name: "freeze failure keeps version and url",
			dists: []domain.Distribution{
				{Name: "my-pkg", Version: "1.0.0", Metadata: []string{"Home-page: https://x"}},
			},
			freezeErr: errors.New("freeze failed"),
			want:      domain.ReportFields{PkgMgrVersion: "1.0.0", PkgMgrURL: "https://x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.pm.EXPECT().Installed(gomock.Any()).Return(tt.dists, nil)
			if tt.freezeErr != nil {
				f.pm.EXPECT().Freeze(gomock.Any(), gomock.Any()).Return("", tt.freezeErr)
			} else {
				f.pm.EXPECT().Freeze(gomock.Any(), gomock.Any()).Return("req", nil)
			}
			f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("nope"))
			f.locator.EXPECT().Locate(gomock.Any()).Return("", false)

			report := f.resolver(t, "my_pkg").Resolve(context.Background())
			assert.True(t, report.Equal(domain.NewReport(tt.want)), "got %s", report)
		})
	}
}

func TestResolve_MetadataCopiesEmptyValues(t *testing.T) {
	f := newFixture(t)

	f.pm.EXPECT().Installed(gomock.Any()).Return([]domain.Distribution{
		{Name: "pkg", Version: "1.0.0"},
	}, nil)
	f.pm.EXPECT().Freeze(gomock.Any(), gomock.Any()).Return("", nil)
	f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.Distribution{
		{Name: "pkg"},
		{Name: "pkg", Version: "ignored"},
	}, nil)
	f.locator.EXPECT().Locate(gomock.Any()).Return("", false)

	report := f.resolver(t, "pkg").Resolve(context.Background())

	assert.Equal(t, "1.0.0", report.PkgMgrVersion())
	assert.Empty(t, report.MetadataVersion())
	assert.Empty(t, report.PkgMgrURL())
}

func TestResolve_CandidateOrder(t *testing.T) {
	f := newFixture(t)
	pkgLoc := filepath.Join(f.dir, "src")

	f.pm.EXPECT().Installed(gomock.Any()).Return([]domain.Distribution{
		{Name: "pkg", Version: "1.0.0", Location: pkgLoc},
	}, nil)
	f.pm.EXPECT().Freeze(gomock.Any(), gomock.Any()).Return("pkg => "+pkgLoc, nil)
	f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.Distribution{
		{Name: "pkg", Version: "1.0.0", Location: f.dir},
	}, nil)
	f.locator.EXPECT().Locate([]string{f.dir, pkgLoc}).Return("", false)

	res := f.resolver(t, "pkg").Inspect(context.Background())
	assert.Equal(t, []string{f.dir, pkgLoc}, res.Candidates)
	assert.Empty(t, res.Root)
	assert.False(t, res.VCS.OK())
}

func TestResolve_VCS(t *testing.T) {
	t.Run("all queries succeed", func(t *testing.T) {
		f := newFixture(t)
		expectNoPackage(f)
		f.locator.EXPECT().Locate(gomock.Any()).Return(f.dir, true)
		f.vcs.EXPECT().Head(gomock.Any(), f.dir).Return("abc123", nil)
		f.vcs.EXPECT().TagsAt(gomock.Any(), f.dir, "abc123").Return([]string{"v1.0.0", "v1.0.0-rc1"}, nil)
		f.vcs.EXPECT().Remotes(gomock.Any(), f.dir).Return(map[string]string{"origin": "U"}, nil)
		f.vcs.EXPECT().IsDirty(gomock.Any(), f.dir).Return(true, nil)

		report := f.resolver(t, "pkg").Resolve(context.Background())

		assert.Equal(t, "abc123", report.VCSCommit())
		assert.Equal(t, "v1.0.0", report.VCSTag())
		assert.Equal(t, "U@v1.0.0*", report.VCSDescription())
	})

	t.Run("tag lookup skipped without commit", func(t *testing.T) {
		f := newFixture(t)
		expectNoPackage(f)
		f.locator.EXPECT().Locate(gomock.Any()).Return(f.dir, true)
		f.vcs.EXPECT().Head(gomock.Any(), f.dir).Return("", domain.ErrNoCommit)
		f.vcs.EXPECT().Remotes(gomock.Any(), f.dir).Return(nil, domain.ErrCommandFailed)
		f.vcs.EXPECT().IsDirty(gomock.Any(), f.dir).Return(false, domain.ErrCommandFailed)

		report := f.resolver(t, "pkg").Resolve(context.Background())

		assert.Empty(t, report.VCSCommit())
		assert.Empty(t, report.VCSTag())
		assert.Equal(t, map[string]string{}, report.VCSRemotes())
		_, known := report.VCSIsDirty()
		assert.False(t, known)
		assert.Empty(t, report.VCSDescription())
	})

	t.Run("missing tool degrades every field", func(t *testing.T) {
		f := newFixture(t)
		expectNoPackage(f)
		f.locator.EXPECT().Locate(gomock.Any()).Return(f.dir, true)
		f.vcs.EXPECT().Head(gomock.Any(), gomock.Any()).Return("", domain.ErrToolNotFound)
		f.vcs.EXPECT().Remotes(gomock.Any(), gomock.Any()).Return(nil, domain.ErrToolNotFound)
		f.vcs.EXPECT().IsDirty(gomock.Any(), gomock.Any()).Return(false, domain.ErrToolNotFound)

		report := f.resolver(t, "pkg").Resolve(context.Background())

		assert.Empty(t, report.VCSCommit())
		assert.Empty(t, report.VCSRemotes())
		assert.Empty(t, report.LongDescription())
	})

	t.Run("panicking query only blanks its field", func(t *testing.T) {
		f := newFixture(t)
		expectNoPackage(f)
		f.locator.EXPECT().Locate(gomock.Any()).Return(f.dir, true)
		f.vcs.EXPECT().Head(gomock.Any(), gomock.Any()).Return("abc123", nil)
		f.vcs.EXPECT().TagsAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.vcs.EXPECT().Remotes(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, string) (map[string]string, error) {
				panic("boom")
			},
		)
		f.vcs.EXPECT().IsDirty(gomock.Any(), gomock.Any()).Return(false, nil)

		report := f.resolver(t, "pkg").Resolve(context.Background())

		assert.Equal(t, "abc123", report.VCSCommit())
		assert.Equal(t, map[string]string{}, report.VCSRemotes())
		dirty, known := report.VCSIsDirty()
		assert.True(t, known)
		assert.False(t, dirty)
	})
}

func TestResolve_PanickingProbeIsContained(t *testing.T) {
	f := newFixture(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	f.pm.EXPECT().Installed(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Distribution, error) {
		panic("package manager exploded")
	})
	f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.Distribution{
		{Name: "pkg", Version: "3.0.0"},
	}, nil)
	f.locator.EXPECT().Locate(gomock.Any()).Return("", false)

	var res resolver.Resolution
	require.NotPanics(t, func() {
		res = f.resolver(t, "pkg", resolver.WithTracer(tp.Tracer("test"))).Inspect(context.Background())
	})

	assert.False(t, res.PackageManager.OK())
	assert.ErrorContains(t, res.PackageManager.Reason(), domain.ErrProbePanicked.Error())
	assert.Equal(t, "3.0.0", res.Report.BestVersion())

	spans := recorder.Ended()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
		if s.Name() == resolver.SpanPackageManager {
			assert.Equal(t, codes.Error, s.Status().Code)
		}
	}
	assert.Equal(t, []string{resolver.SpanPackageManager, resolver.SpanMetadata, resolver.SpanLocate}, names)
}

func TestResolve_Idempotent(t *testing.T) {
	f := newFixture(t)

	f.pm.EXPECT().Installed(gomock.Any()).Return([]domain.Distribution{{Name: "pkg", Version: "1.0.0"}}, nil).Times(2)
	f.pm.EXPECT().Freeze(gomock.Any(), gomock.Any()).Return("pkg@1.0.0", nil).Times(2)
	f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	f.locator.EXPECT().Locate(gomock.Any()).Return(f.dir, true).Times(2)
	f.vcs.EXPECT().Head(gomock.Any(), gomock.Any()).Return("abc", nil).Times(2)
	f.vcs.EXPECT().TagsAt(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	f.vcs.EXPECT().Remotes(gomock.Any(), gomock.Any()).Return(map[string]string{"origin": "U"}, nil).Times(2)
	f.vcs.EXPECT().IsDirty(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)

	r := f.resolver(t, "pkg")
	first := r.Resolve(context.Background())
	second := r.Resolve(context.Background())

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestResolve_NilCollaborators(t *testing.T) {
	r, err := resolver.New("pkg", t.TempDir(), resolver.Deps{})
	require.NoError(t, err)

	report := r.Resolve(context.Background())
	assert.Empty(t, report.LongDescription())
	assert.Nil(t, report.VCSRemotes())
}

func expectNoPackage(f *fixture) {
	f.pm.EXPECT().Installed(gomock.Any()).Return(nil, nil)
	f.meta.EXPECT().Require(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
}
