package resolver

import (
	"context"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/zerr"
)

// probeMetadata asks the metadata system for the package and uses the first distribution it returns.
func (r *Resolver) probeMetadata(ctx context.Context) (domain.MetadataInfo, error) {
	if r.deps.Metadata == nil {
		return domain.MetadataInfo{}, zerr.With(domain.ErrDistributionNotFound, "package", r.name)
	}

	dists, err := r.deps.Metadata.Require(ctx, r.name, r.packageDir)
	if err != nil {
		return domain.MetadataInfo{}, err
	}
	if len(dists) == 0 {
		return domain.MetadataInfo{}, zerr.With(domain.ErrDistributionNotFound, "package", r.name)
	}

	version, homepage := domain.ExtractVersionHomepage(dists[0])
	return domain.MetadataInfo{
		Version:  version,
		URL:      homepage,
		Location: dists[0].Location,
	}, nil
}
