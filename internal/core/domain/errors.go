package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidPackageName is returned when a resolver is constructed with an empty package name.
	ErrInvalidPackageName = zerr.New("package name must not be empty")

	// ErrMissingReferencePath is returned when a resolver is constructed without a reference path.
	ErrMissingReferencePath = zerr.New("reference path must not be empty")

	// ErrBuildInfoUnavailable is returned when a binary carries no module build information.
	ErrBuildInfoUnavailable = zerr.New("build info unavailable")

	// ErrDistributionNotFound is returned when no distribution matches the requested name.
	ErrDistributionNotFound = zerr.New("distribution not found")

	// ErrCommandFailed is returned when an external command exits with a non-zero status.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandTimeout is returned when an external command does not finish within its timeout.
	ErrCommandTimeout = zerr.New("command timed out")

	// ErrToolNotFound is returned when an external tool is not installed or not on PATH.
	ErrToolNotFound = zerr.New("tool not found")

	// ErrNotARepository is returned when a directory is not inside a version-controlled tree.
	ErrNotARepository = zerr.New("not a repository")

	// ErrNoCommit is returned when a repository has no commit checked out.
	ErrNoCommit = zerr.New("repository has no commit")

	// ErrMalformedOutput is returned when a tool's output cannot be parsed.
	ErrMalformedOutput = zerr.New("malformed tool output")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidVCSBackend is returned when the configured VCS backend is unknown.
	ErrInvalidVCSBackend = zerr.New("invalid vcs backend, expected 'cli' or 'gogit'")

	// ErrInvalidMetadataBackend is returned when the configured metadata backend is unknown.
	ErrInvalidMetadataBackend = zerr.New("invalid metadata backend, expected 'golist' or 'distinfo'")

	// ErrInvalidDuration is returned when a configured timeout cannot be parsed.
	ErrInvalidDuration = zerr.New("invalid duration")

	// ErrProbePanicked is returned in place of a panic raised inside a prober.
	ErrProbePanicked = zerr.New("probe panicked")

	// ErrNoPackagesSpecified is returned when the show command is invoked without module names.
	ErrNoPackagesSpecified = zerr.New("no packages specified")

	// ErrWatchFailed is returned when the file system watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch repository")
)
