package domain

import (
	"slices"
	"time"
)

const (
	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = ".whence.yaml"

	// GitDirName is the name of the git metadata directory.
	GitDirName = ".git"

	// DefaultCommandTimeout bounds every VCS command.
	DefaultCommandTimeout = 10 * time.Second

	// DefaultMetadataTimeout bounds metadata queries, which may need to read the module cache.
	DefaultMetadataTimeout = 30 * time.Second

	// DefaultGitBinary is the git executable looked up on PATH.
	DefaultGitBinary = "git"

	// DefaultGoBinary is the go executable looked up on PATH.
	DefaultGoBinary = "go"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// vcsMetadataDirs lists the metadata directory names of the version control systems we recognise.
var vcsMetadataDirs = []string{".git", ".hg", ".svn", ".jj", ".bzr"}

// DefaultVCSMarkers returns the entries the repository locator looks for by default.
func DefaultVCSMarkers() []string {
	return []string{GitDirName}
}

// IsVCSMetadataDir reports whether name is one of the recognised VCS metadata directories.
func IsVCSMetadataDir(name string) bool {
	return slices.Contains(vcsMetadataDirs, name)
}
