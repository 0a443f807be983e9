package persistencecache

import (
	"context"
)

type extraTagsContextKey struct{}

// WithExtraTags attaches additional invalidation tags to the context. Every
// cache entry filled while the context is active carries them on top of the
// entity-derived tags, which lets a caller group otherwise unrelated reads
// under one invalidation handle (for example a site-wide render pass).
func WithExtraTags(ctx context.Context, tags ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(tags) == 0 {
		return ctx
	}

	existing := extraTagsFromContext(ctx)
	combined := dedupeStrings(append(existing, tags...))
	if len(combined) == 0 {
		return ctx
	}

	return context.WithValue(ctx, extraTagsContextKey{}, combined)
}

func extraTagsFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if tags, ok := ctx.Value(extraTagsContextKey{}).([]string); ok {
		return append([]string(nil), tags...)
	}
	return nil
}

// dedupeStrings returns values with duplicates removed, preserving first
// occurrence order.
func dedupeStrings(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
