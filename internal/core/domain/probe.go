package domain

// ProbeResult is the outcome of a single detection strategy: either data or the reason it failed.
type ProbeResult[T any] struct {
	data   T
	reason error
	ok     bool
}

// Succeeded wraps data from a probe that completed.
func Succeeded[T any](data T) ProbeResult[T] {
	return ProbeResult[T]{data: data, ok: true}
}

// Failed records why a probe produced nothing.
func Failed[T any](reason error) ProbeResult[T] {
	return ProbeResult[T]{reason: reason}
}

// OK reports whether the probe produced data.
func (p ProbeResult[T]) OK() bool {
	return p.ok
}

// Data returns the probe data, or the zero value when the probe failed.
func (p ProbeResult[T]) Data() T {
	return p.data
}

// Reason returns the failure reason, or nil when the probe succeeded.
func (p ProbeResult[T]) Reason() error {
	return p.reason
}

// PackageInfo is what the package manager knows about an installed distribution.
type PackageInfo struct {
	// Found is false when no installed distribution matched the name.
	Found       bool
	Version     string
	URL         string
	Requirement string
	// Location is the on-disk source directory of the distribution, if it has one.
	Location string
}

// MetadataInfo is what the distribution metadata system reports for a package.
type MetadataInfo struct {
	Version  string
	URL      string
	Location string
}

// VCSInfo is the state of the version-controlled tree that holds a package.
type VCSInfo struct {
	Commit  string
	Tag     string
	Remotes map[string]string
	// Dirty is nil when the state could not be determined.
	Dirty *bool
}
