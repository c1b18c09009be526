package ports

import (
	"context"

	"go.trai.ch/whence/internal/core/domain"
)

// PackageManager lists the distributions installed in the environment being inspected.
//
//go:generate mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks
type PackageManager interface {
	// Installed returns every installed distribution.
	Installed(ctx context.Context) ([]domain.Distribution, error)

	// Freeze renders the requirement string describing how dist was installed,
	// either a version pin or a VCS URL with its ref.
	Freeze(ctx context.Context, dist domain.Distribution) (string, error)
}

// MetadataResolver asks the distribution metadata system about a package.
type MetadataResolver interface {
	// Require returns the distributions satisfying name, as seen from workDir. Only the first is used.
	Require(ctx context.Context, name, workDir string) ([]domain.Distribution, error)
}
