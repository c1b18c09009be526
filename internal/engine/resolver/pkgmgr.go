package resolver

import (
	"context"
	"fmt"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/zerr"
)

// probePackageManager looks the package up among the installed distributions.
// When several distributions share the normalised name the last one wins.
func (r *Resolver) probePackageManager(ctx context.Context) (domain.PackageInfo, error) {
	pm := r.deps.PackageManager
	if pm == nil {
		return domain.PackageInfo{}, nil
	}

	dists, err := pm.Installed(ctx)
	if err != nil {
		return domain.PackageInfo{}, zerr.Wrap(err, "failed to list installed distributions")
	}

	want := domain.NormalizeName(r.name)
	match := -1
	for i := range dists {
		if domain.NormalizeName(dists[i].Name) == want {
			match = i
		}
	}
	if match < 0 {
		r.deps.Logger.Debug(fmt.Sprintf("%s is not among %d installed distributions", r.name, len(dists)))
		return domain.PackageInfo{}, nil
	}

	dist := dists[match]
	version, homepage := domain.ExtractVersionHomepage(dist)

	requirement, err := pm.Freeze(ctx, dist)
	if err != nil {
		r.deps.Logger.Debug(fmt.Sprintf("failed to freeze %s: %v", dist.Name, err))
		requirement = ""
	}

	return domain.PackageInfo{
		Found:       true,
		Version:     version,
		URL:         homepage,
		Requirement: requirement,
		Location:    dist.Location,
	}, nil
}
