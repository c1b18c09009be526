package domain

import "strings"

// HomepageKey is the descriptor key that carries a distribution's homepage.
const HomepageKey = "Home-page"

// Distribution is an installed unit of software as reported by a package system.
type Distribution struct {
	Name    string
	Version string
	// Location is the directory the distribution is installed from, empty when it lives in a cache or archive.
	Location string
	// Metadata holds the descriptor lines in "Key: value" form.
	Metadata []string
}

// ExtractVersionHomepage returns the raw version of d and the value of its last Home-page line.
func ExtractVersionHomepage(d Distribution) (version, homepage string) {
	for _, line := range d.Metadata {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == HomepageKey {
			homepage = strings.TrimSpace(value)
		}
	}
	return d.Version, homepage
}

// NormalizeName maps an import-style name onto package naming, where underscores become hyphens.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// forgeHosts are hosts whose module paths map directly onto a browsable repository page.
var forgeHosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
	"codeberg.org":  true,
}

// ModuleHomepage derives a homepage for a Go module path.
func ModuleHomepage(path string) string {
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	if len(parts) >= 3 && forgeHosts[parts[0]] {
		return "https://" + strings.Join(parts[:3], "/")
	}
	return "https://pkg.go.dev/" + path
}
