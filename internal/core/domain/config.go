package domain

import (
	"slices"
	"time"
)

// VCSBackend selects how repositories are queried.
type VCSBackend string

const (
	// VCSBackendCLI shells out to the git binary.
	VCSBackendCLI VCSBackend = "cli"
	// VCSBackendGoGit reads the repository in-process.
	VCSBackendGoGit VCSBackend = "gogit"
)

// MetadataBackend selects the distribution metadata system.
type MetadataBackend string

const (
	// MetadataBackendGoList asks the go command about a module.
	MetadataBackendGoList MetadataBackend = "golist"
	// MetadataBackendDistInfo scans directories for dist-info and egg-info descriptors.
	MetadataBackendDistInfo MetadataBackend = "distinfo"
)

// Config is the resolved configuration of a whence run.
type Config struct {
	Log      LogConfig
	VCS      VCSConfig
	Metadata MetadataConfig
}

// LogConfig controls logging output.
type LogConfig struct {
	Verbose bool
	JSON    bool
}

// VCSConfig controls the VCS prober and the repository locator.
type VCSConfig struct {
	Backend VCSBackend
	Binary  string
	Timeout time.Duration
	Markers []string
}

// MetadataConfig controls the distribution metadata prober.
type MetadataConfig struct {
	Backend     MetadataBackend
	Binary      string
	Timeout     time.Duration
	SearchPaths []string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		VCS: VCSConfig{
			Backend: VCSBackendCLI,
			Binary:  DefaultGitBinary,
			Timeout: DefaultCommandTimeout,
			Markers: DefaultVCSMarkers(),
		},
		Metadata: MetadataConfig{
			Backend: MetadataBackendGoList,
			Binary:  DefaultGoBinary,
			Timeout: DefaultMetadataTimeout,
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.VCS.Markers = slices.Clone(c.VCS.Markers)
	out.Metadata.SearchPaths = slices.Clone(c.Metadata.SearchPaths)
	return &out
}
