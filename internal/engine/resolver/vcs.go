package resolver

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/whence/internal/core/domain"
)

// probeVCS runs the four repository queries. Each failing query only blanks its own field.
func (r *Resolver) probeVCS(ctx context.Context, root string) (domain.VCSInfo, error) {
	info := domain.VCSInfo{Remotes: map[string]string{}}
	vcs := r.deps.VCS
	if vcs == nil {
		return info, nil
	}
	span := trace.SpanFromContext(ctx)

	commit, err := guard(func() (string, error) { return vcs.Head(ctx, root) })
	if err != nil {
		r.subQueryFailed(span, "head", err)
	} else {
		info.Commit = commit
	}

	if info.Commit != "" {
		tags, err := guard(func() ([]string, error) { return vcs.TagsAt(ctx, root, info.Commit) })
		switch {
		case err != nil:
			r.subQueryFailed(span, "tags", err)
		case len(tags) > 0:
			info.Tag = tags[0]
		}
	}

	remotes, err := guard(func() (map[string]string, error) { return vcs.Remotes(ctx, root) })
	if err != nil {
		r.subQueryFailed(span, "remotes", err)
	} else if remotes != nil {
		info.Remotes = remotes
	}

	dirty, err := guard(func() (bool, error) { return vcs.IsDirty(ctx, root) })
	if err != nil {
		r.subQueryFailed(span, "dirty", err)
	} else {
		info.Dirty = &dirty
	}

	return info, nil
}

func (r *Resolver) subQueryFailed(span trace.Span, query string, err error) {
	span.AddEvent("query failed", trace.WithAttributes(
		attribute.String("whence.vcs.query", query),
		attribute.String("error", err.Error()),
	))
	r.deps.Logger.Debug(fmt.Sprintf("vcs %s query failed: %v", query, err))
}
