package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/whence/internal/core/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestReport_BestVersionAndURL(t *testing.T) {
	tests := []struct {
		name        string
		fields      domain.ReportFields
		wantVersion string
		wantURL     string
	}{
		{
			name: "package manager wins over metadata",
			fields: domain.ReportFields{
				PkgMgrVersion:   "1.2.3",
				PkgMgrURL:       "https://a.example",
				MetadataVersion: "9.9.9",
				MetadataURL:     "https://b.example",
			},
			wantVersion: "1.2.3",
			wantURL:     "https://a.example",
		},
		{
			name: "metadata fills in missing package manager values",
			fields: domain.ReportFields{
				PkgMgrVersion:   "1.2.3",
				MetadataVersion: "9.9.9",
				MetadataURL:     "https://b.example",
			},
			wantVersion: "1.2.3",
			wantURL:     "https://b.example",
		},
		{
			name:   "nothing detected",
			fields: domain.ReportFields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewReport(tt.fields)
			assert.Equal(t, tt.wantVersion, r.BestVersion())
			assert.Equal(t, tt.wantURL, r.BestURL())
		})
	}
}

func TestReport_BestRemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		remotes map[string]string
		want    string
	}{
		{name: "origin preferred", remotes: map[string]string{"upstream": "U1", "origin": "U2"}, want: "U2"},
		{name: "first name without origin", remotes: map[string]string{"b": "B", "a": "A"}, want: "A"},
		{name: "empty mapping", remotes: map[string]string{}, want: ""},
		{name: "not probed", remotes: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewReport(domain.ReportFields{VCSRemotes: tt.remotes})
			assert.Equal(t, tt.want, r.BestRemoteURL())
		})
	}
}

func TestReport_VCSDescription(t *testing.T) {
	tests := []struct {
		name   string
		fields domain.ReportFields
		want   string
	}{
		{
			name: "commit with dirty tree",
			fields: domain.ReportFields{
				VCSCommit:         "abc123",
				VCSRemotes:        map[string]string{"origin": "U"},
				VCSIsDirty:        boolPtr(true),
				PkgMgrRequirement: "example.com/pkg@v1.0.0",
			},
			want: "U@abc123*",
		},
		{
			name: "tag preferred over commit",
			fields: domain.ReportFields{
				VCSCommit:  "abc123",
				VCSTag:     "v1.0.0",
				VCSRemotes: map[string]string{"origin": "U"},
				VCSIsDirty: boolPtr(false),
			},
			want: "U@v1.0.0",
		},
		{
			name: "requirement with vcs marker is used verbatim",
			fields: domain.ReportFields{
				VCSCommit:         "abc123",
				VCSRemotes:        map[string]string{"origin": "U"},
				VCSIsDirty:        boolPtr(true),
				PkgMgrRequirement: "git+https://example.com/pkg@abc123",
			},
			want: "git+https://example.com/pkg@abc123*",
		},
		{
			name: "hg marker",
			fields: domain.ReportFields{
				VCSCommit:         "abc123",
				PkgMgrRequirement: "hg+https://example.com/pkg@abc123",
			},
			want: "hg+https://example.com/pkg@abc123",
		},
		{
			name: "no remote renders the ref alone",
			fields: domain.ReportFields{
				VCSCommit:  "abc123",
				VCSRemotes: map[string]string{},
			},
			want: "abc123",
		},
		{
			name: "no ref renders the remote alone",
			fields: domain.ReportFields{
				VCSRemotes: map[string]string{"origin": "U"},
				VCSIsDirty: boolPtr(true),
			},
			want: "U*",
		},
		{
			name: "unknown dirty state is not dirty",
			fields: domain.ReportFields{
				VCSCommit:  "abc123",
				VCSRemotes: map[string]string{"origin": "U"},
			},
			want: "U@abc123",
		},
		{
			name:   "not a checkout",
			fields: domain.ReportFields{PkgMgrRequirement: "git+https://example.com/pkg@abc123"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewReport(tt.fields).VCSDescription())
		})
	}
}

func TestReport_Descriptions(t *testing.T) {
	tests := []struct {
		name      string
		fields    domain.ReportFields
		wantShort string
		wantLong  string
	}{
		{
			name: "metadata only, not a checkout",
			fields: domain.ReportFields{
				MetadataVersion: "2.4.2",
				MetadataURL:     "http://example.org/pkg",
			},
			wantShort: "2.4.2 <http://example.org/pkg>",
			wantLong:  "2.4.2 <http://example.org/pkg>",
		},
		{
			name:      "nothing detected",
			fields:    domain.ReportFields{},
			wantShort: "",
			wantLong:  "",
		},
		{
			name: "with vcs",
			fields: domain.ReportFields{
				PkgMgrVersion: "1.0.0",
				PkgMgrURL:     "https://github.com/o/r",
				VCSCommit:     "abc",
				VCSTag:        "v1.0.0",
				VCSRemotes:    map[string]string{"origin": "git@github.com:o/r.git"},
				VCSIsDirty:    boolPtr(false),
			},
			wantShort: "1.0.0 <https://github.com/o/r>",
			wantLong:  "1.0.0 <https://github.com/o/r> (git@github.com:o/r.git@v1.0.0)",
		},
		{
			name:      "version only",
			fields:    domain.ReportFields{PkgMgrVersion: "1.0.0"},
			wantShort: "1.0.0",
			wantLong:  "1.0.0",
		},
		{
			name:      "url only",
			fields:    domain.ReportFields{MetadataURL: "https://x.example"},
			wantShort: "<https://x.example>",
			wantLong:  "<https://x.example>",
		},
		{
			name:      "vcs only",
			fields:    domain.ReportFields{VCSCommit: "abc", VCSRemotes: map[string]string{"origin": "U"}},
			wantShort: "",
			wantLong:  "U@abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewReport(tt.fields)
			assert.Equal(t, tt.wantShort, r.ShortDescription())
			assert.Equal(t, tt.wantLong, r.LongDescription())
		})
	}
}

func TestReport_Equal(t *testing.T) {
	base := domain.ReportFields{
		PkgMgrVersion: "1.0.0",
		VCSCommit:     "abc",
		VCSRemotes:    map[string]string{"origin": "U"},
		VCSIsDirty:    boolPtr(false),
	}

	t.Run("same values", func(t *testing.T) {
		other := base
		other.VCSRemotes = map[string]string{"origin": "U"}
		other.VCSIsDirty = boolPtr(false)
		assert.True(t, domain.NewReport(base).Equal(domain.NewReport(other)))
	})

	t.Run("remotes compared by value", func(t *testing.T) {
		other := base
		other.VCSRemotes = map[string]string{"origin": "V"}
		assert.False(t, domain.NewReport(base).Equal(domain.NewReport(other)))
	})

	t.Run("nil and empty remotes differ", func(t *testing.T) {
		a := domain.NewReport(domain.ReportFields{})
		b := domain.NewReport(domain.ReportFields{VCSRemotes: map[string]string{}})
		assert.False(t, a.Equal(b))
	})

	t.Run("unknown and clean differ", func(t *testing.T) {
		other := base
		other.VCSIsDirty = nil
		assert.False(t, domain.NewReport(base).Equal(domain.NewReport(other)))
	})

	t.Run("dirty and clean differ", func(t *testing.T) {
		other := base
		other.VCSIsDirty = boolPtr(true)
		assert.False(t, domain.NewReport(base).Equal(domain.NewReport(other)))
	})
}

func TestReport_Immutable(t *testing.T) {
	remotes := map[string]string{"origin": "U"}
	dirty := false
	r := domain.NewReport(domain.ReportFields{VCSRemotes: remotes, VCSIsDirty: &dirty})

	remotes["origin"] = "changed"
	dirty = true
	assert.Equal(t, "U", r.BestRemoteURL())
	got, known := r.VCSIsDirty()
	assert.True(t, known)
	assert.False(t, got)

	view := r.VCSRemotes()
	view["origin"] = "changed again"
	assert.Equal(t, "U", r.VCSRemotes()["origin"])

	fields := r.Fields()
	fields.VCSRemotes["extra"] = "X"
	*fields.VCSIsDirty = true
	assert.Len(t, r.VCSRemotes(), 1)
	got, _ = r.VCSIsDirty()
	assert.False(t, got)
}

func TestReport_String(t *testing.T) {
	r := domain.NewReport(domain.ReportFields{
		PkgMgrVersion: "1.0.0",
		VCSRemotes:    map[string]string{"origin": "U", "a": "A"},
		VCSIsDirty:    boolPtr(true),
	})

	want := `Report(metadata_url=nil, metadata_version=nil, pkg_mgr_requirement=nil, ` +
		`pkg_mgr_url=nil, pkg_mgr_version="1.0.0", vcs_commit=nil, vcs_is_dirty=true, ` +
		`vcs_remotes={"a": "A", "origin": "U"}, vcs_tag=nil)`
	assert.Equal(t, want, r.String())
}

func TestReport_Fingerprint(t *testing.T) {
	a := domain.NewReport(domain.ReportFields{PkgMgrVersion: "1.0.0"})
	b := domain.NewReport(domain.ReportFields{PkgMgrVersion: "1.0.0"})
	c := domain.NewReport(domain.ReportFields{PkgMgrVersion: "1.0.1"})

	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestReport_MarshalJSON(t *testing.T) {
	r := domain.NewReport(domain.ReportFields{
		MetadataVersion: "2.4.2",
		MetadataURL:     "http://example.org/pkg",
		VCSRemotes:      map[string]string{},
	})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Nil(t, got["pkg_mgr_version"])
	assert.Equal(t, "2.4.2", got["metadata_version"])
	assert.Equal(t, map[string]any{}, got["vcs_remotes"])
	assert.Nil(t, got["vcs_is_dirty"])
	assert.Equal(t, "2.4.2", got["best_version"])
	assert.Equal(t, "2.4.2 <http://example.org/pkg>", got["long_description"])
	assert.Equal(t, r.Fingerprint(), got["fingerprint"])
}

func TestProbeResult(t *testing.T) {
	ok := domain.Succeeded(domain.MetadataInfo{Version: "1.0"})
	assert.True(t, ok.OK())
	assert.Equal(t, "1.0", ok.Data().Version)
	require.NoError(t, ok.Reason())

	failed := domain.Failed[domain.MetadataInfo](domain.ErrDistributionNotFound)
	assert.False(t, failed.OK())
	assert.Equal(t, domain.MetadataInfo{}, failed.Data())
	assert.ErrorIs(t, failed.Reason(), domain.ErrDistributionNotFound)
}
