package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// vcsMarkers identify requirement strings that already describe a VCS checkout.
var vcsMarkers = []string{"git+", "hg+", "svn+", "bzr+"}

// ReportFields is the mutable draft a Report is built from. Empty strings mean "not detected".
type ReportFields struct {
	PkgMgrVersion     string
	PkgMgrURL         string
	PkgMgrRequirement string
	MetadataVersion   string
	MetadataURL       string
	VCSTag            string
	VCSCommit         string
	// VCSRemotes is nil when no repository was probed and empty when it has no remotes.
	VCSRemotes map[string]string
	// VCSIsDirty is nil when the state is unknown.
	VCSIsDirty *bool
}

// Report is the immutable provenance of a package.
type Report struct {
	f ReportFields
}

// NewReport builds a Report from a draft. Later changes to the draft are not observed.
func NewReport(draft ReportFields) Report {
	return Report{f: cloneFields(draft)}
}

func cloneFields(f ReportFields) ReportFields {
	out := f
	out.VCSRemotes = maps.Clone(f.VCSRemotes)
	if f.VCSIsDirty != nil {
		dirty := *f.VCSIsDirty
		out.VCSIsDirty = &dirty
	}
	return out
}

// Fields returns a copy of every field.
func (r Report) Fields() ReportFields {
	return cloneFields(r.f)
}

// PkgMgrVersion is the version reported by the package manager.
func (r Report) PkgMgrVersion() string { return r.f.PkgMgrVersion }

// PkgMgrURL is the homepage reported by the package manager.
func (r Report) PkgMgrURL() string { return r.f.PkgMgrURL }

// PkgMgrRequirement is the frozen requirement string reported by the package manager.
func (r Report) PkgMgrRequirement() string { return r.f.PkgMgrRequirement }

// MetadataVersion is the version reported by the metadata system.
func (r Report) MetadataVersion() string { return r.f.MetadataVersion }

// MetadataURL is the homepage reported by the metadata system.
func (r Report) MetadataURL() string { return r.f.MetadataURL }

// VCSTag is a tag pointing at the checked out commit.
func (r Report) VCSTag() string { return r.f.VCSTag }

// VCSCommit is the checked out commit.
func (r Report) VCSCommit() string { return r.f.VCSCommit }

// VCSRemotes returns a copy of the remote name to fetch URL mapping.
func (r Report) VCSRemotes() map[string]string { return maps.Clone(r.f.VCSRemotes) }

// VCSIsDirty reports whether the tree has local changes. known is false when the state was not determined.
func (r Report) VCSIsDirty() (dirty, known bool) {
	if r.f.VCSIsDirty == nil {
		return false, false
	}
	return *r.f.VCSIsDirty, true
}

// Equal reports whether both reports carry the same values.
// A nil remote mapping is distinct from an empty one.
func (r Report) Equal(other Report) bool {
	a, b := r.f, other.f
	if a.PkgMgrVersion != b.PkgMgrVersion ||
		a.PkgMgrURL != b.PkgMgrURL ||
		a.PkgMgrRequirement != b.PkgMgrRequirement ||
		a.MetadataVersion != b.MetadataVersion ||
		a.MetadataURL != b.MetadataURL ||
		a.VCSTag != b.VCSTag ||
		a.VCSCommit != b.VCSCommit {
		return false
	}
	if (a.VCSRemotes == nil) != (b.VCSRemotes == nil) || !maps.Equal(a.VCSRemotes, b.VCSRemotes) {
		return false
	}
	if (a.VCSIsDirty == nil) != (b.VCSIsDirty == nil) {
		return false
	}
	return a.VCSIsDirty == nil || *a.VCSIsDirty == *b.VCSIsDirty
}

// BestVersion prefers the package manager's version over the metadata system's.
func (r Report) BestVersion() string {
	if r.f.PkgMgrVersion != "" {
		return r.f.PkgMgrVersion
	}
	return r.f.MetadataVersion
}

// BestURL prefers the package manager's homepage over the metadata system's.
func (r Report) BestURL() string {
	if r.f.PkgMgrURL != "" {
		return r.f.PkgMgrURL
	}
	return r.f.MetadataURL
}

// BestRemoteURL returns the origin remote's URL, else the URL of the first remote by name.
func (r Report) BestRemoteURL() string {
	if len(r.f.VCSRemotes) == 0 {
		return ""
	}
	if u, ok := r.f.VCSRemotes["origin"]; ok {
		return u
	}
	names := slices.Sorted(maps.Keys(r.f.VCSRemotes))
	return r.f.VCSRemotes[names[0]]
}

// VCSDescription renders where the package source came from, e.g. "https://host/repo@v1.2.0*".
// It is empty when the package does not live in a VCS checkout.
func (r Report) VCSDescription() string {
	if r.f.VCSCommit == "" && len(r.f.VCSRemotes) == 0 {
		return ""
	}

	var suffix string
	if dirty, _ := r.VCSIsDirty(); dirty {
		suffix = "*"
	}

	if hasVCSMarker(r.f.PkgMgrRequirement) {
		return r.f.PkgMgrRequirement + suffix
	}

	ref := r.f.VCSTag
	if ref == "" {
		ref = r.f.VCSCommit
	}
	remote := r.BestRemoteURL()

	switch {
	case remote == "":
		return ref + suffix
	case ref == "":
		return remote + suffix
	default:
		return remote + "@" + ref + suffix
	}
}

func hasVCSMarker(requirement string) bool {
	for _, marker := range vcsMarkers {
		if strings.Contains(requirement, marker) {
			return true
		}
	}
	return false
}

// ShortDescription renders "<version> <<url>>", dropping whichever part is unknown.
func (r Report) ShortDescription() string {
	version, url := r.BestVersion(), r.BestURL()
	switch {
	case version == "" && url == "":
		return ""
	case url == "":
		return version
	case version == "":
		return "<" + url + ">"
	default:
		return version + " <" + url + ">"
	}
}

// LongDescription appends the VCS description in parentheses to the short description.
func (r Report) LongDescription() string {
	short, vcs := r.ShortDescription(), r.VCSDescription()
	switch {
	case vcs == "":
		return short
	case short == "":
		return vcs
	default:
		return short + " (" + vcs + ")"
	}
}

// Fingerprint is a short stable identifier of the report's contents.
func (r Report) Fingerprint() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(r.String()))
}

// String renders every field in key order.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("Report(")
	for i, kv := range r.pairs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(kv[1])
	}
	b.WriteByte(')')
	return b.String()
}

// pairs returns the rendered fields sorted by key.
func (r Report) pairs() [][2]string {
	return [][2]string{
		{"metadata_url", renderString(r.f.MetadataURL)},
		{"metadata_version", renderString(r.f.MetadataVersion)},
		{"pkg_mgr_requirement", renderString(r.f.PkgMgrRequirement)},
		{"pkg_mgr_url", renderString(r.f.PkgMgrURL)},
		{"pkg_mgr_version", renderString(r.f.PkgMgrVersion)},
		{"vcs_commit", renderString(r.f.VCSCommit)},
		{"vcs_is_dirty", renderDirty(r.f.VCSIsDirty)},
		{"vcs_remotes", renderRemotes(r.f.VCSRemotes)},
		{"vcs_tag", renderString(r.f.VCSTag)},
	}
}

func renderString(s string) string {
	if s == "" {
		return "nil"
	}
	return strconv.Quote(s)
}

func renderDirty(d *bool) string {
	if d == nil {
		return "nil"
	}
	return strconv.FormatBool(*d)
}

func renderRemotes(m map[string]string) string {
	if m == nil {
		return "nil"
	}
	parts := make([]string, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, strconv.Quote(name)+": "+strconv.Quote(m[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type reportJSON struct {
	PkgMgrVersion     *string           `json:"pkg_mgr_version"`
	PkgMgrURL         *string           `json:"pkg_mgr_url"`
	PkgMgrRequirement *string           `json:"pkg_mgr_requirement"`
	MetadataVersion   *string           `json:"metadata_version"`
	MetadataURL       *string           `json:"metadata_url"`
	VCSTag            *string           `json:"vcs_tag"`
	VCSCommit         *string           `json:"vcs_commit"`
	VCSRemotes        map[string]string `json:"vcs_remotes"`
	VCSIsDirty        *bool             `json:"vcs_is_dirty"`
	BestVersion       string            `json:"best_version"`
	BestURL           string            `json:"best_url"`
	BestRemoteURL     string            `json:"best_remote_url"`
	VCSDescription    string            `json:"vcs_description"`
	ShortDescription  string            `json:"short_description"`
	LongDescription   string            `json:"long_description"`
	Fingerprint       string            `json:"fingerprint"`
}

// MarshalJSON encodes every field, with undetected values as null, followed by the derived views.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		PkgMgrVersion:     nullable(r.f.PkgMgrVersion),
		PkgMgrURL:         nullable(r.f.PkgMgrURL),
		PkgMgrRequirement: nullable(r.f.PkgMgrRequirement),
		MetadataVersion:   nullable(r.f.MetadataVersion),
		MetadataURL:       nullable(r.f.MetadataURL),
		VCSTag:            nullable(r.f.VCSTag),
		VCSCommit:         nullable(r.f.VCSCommit),
		VCSRemotes:        r.f.VCSRemotes,
		VCSIsDirty:        r.f.VCSIsDirty,
		BestVersion:       r.BestVersion(),
		BestURL:           r.BestURL(),
		BestRemoteURL:     r.BestRemoteURL(),
		VCSDescription:    r.VCSDescription(),
		ShortDescription:  r.ShortDescription(),
		LongDescription:   r.LongDescription(),
		Fingerprint:       r.Fingerprint(),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
