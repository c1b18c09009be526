package gitcli

import "strings"

// ParseRemotes reads `git remote -v` output. Only the first fetch URL of each remote is kept.
func ParseRemotes(out string) map[string]string {
	remotes := make(map[string]string)
	for _, line := range nonEmptyLines(out) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, url := fields[0], fields[1]
		if len(fields) > 2 && fields[2] == "(push)" {
			continue
		}
		if _, ok := remotes[name]; !ok {
			remotes[name] = url
		}
	}
	return remotes
}

// unbornMarkers are the status phrases of a branch that has no commit yet.
var unbornMarkers = []string{
	"No commits yet",
	"Initial commit",
}

// HasNoCommits reports whether `git status` output describes a branch without any commit.
func HasNoCommits(out string) bool {
	for _, marker := range unbornMarkers {
		if strings.Contains(out, marker) {
			return true
		}
	}
	return false
}

// upToDateMarkers are the status phrases that say HEAD is not behind or ahead of anything.
var upToDateMarkers = []string{
	"Your branch is up-to-date with",
	"Your branch is up to date with",
	"HEAD detached at",
	"Not currently on any branch",
}

// ParseStatus reads `git status` output. The tree is clean only when there is nothing to
// commit and the branch state is one of the known up-to-date forms; anything else is dirty.
func ParseStatus(out string) (dirty bool) {
	if !strings.Contains(out, "nothing to commit") {
		return true
	}
	for _, marker := range upToDateMarkers {
		if strings.Contains(out, marker) {
			return false
		}
	}
	return true
}
