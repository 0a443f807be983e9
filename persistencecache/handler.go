package persistencecache

import (
	"context"
	"fmt"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/persistence"
)

// base carries the collaborators shared by every per-entity cache handler.
// The handlers themselves only contribute the entity-specific strategies and
// the per-operation invalidation sets.
type base struct {
	store   cache.Store
	backend persistence.Handler
	ids     cache.IdentifierGenerator
	esc     cache.IdentifierSanitizer
	log     cache.ActivityLogger
}

// strategy bundles the per-entity-kind derivations of tags and alternate
// keys. Strategies are built once at handler construction and reused across
// methods; both functions must be pure.
type strategy[T any] struct {
	tags func(T) ([]string, error)
	keys func(T) ([]string, error)
}

// idList accumulates generated identifiers and latches the first error, so
// strategy bodies stay readable despite every generator call being fallible.
type idList struct {
	ids []string
	err error
}

func (l *idList) add(id string, err error) {
	if l.err != nil {
		return
	}
	if err != nil {
		l.err = err
		return
	}
	l.ids = append(l.ids, id)
}

func (l *idList) result() ([]string, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.ids, nil
}

// getCacheValue is the single-value cache read shared by all handlers.
//
// The full key is keyPrefix + lookup, plus "-" + keySuffix for derived
// lookups. On a hit the stored value is returned without touching the
// backend. On a miss the load callback runs, and the result is saved in one
// Save call under the primary key and under every alternate key the
// strategy derives, all carrying the strategy's tag set; that is what makes
// a by-id fill satisfy later by-login or by-email reads. A load failure
// (including not-found) propagates uncached.
func getCacheValue[T any](
	ctx context.Context,
	b base,
	method string,
	lookup string,
	keyPrefix string,
	load func(context.Context) (T, error),
	strat strategy[T],
	keySuffix string,
) (T, error) {
	var zero T

	key := keyPrefix + lookup
	if keySuffix != "" {
		key += "-" + keySuffix
	}

	item, err := b.store.GetItem(ctx, key)
	if err != nil {
		return zero, err
	}
	if item != nil {
		b.log.LogCacheHit(method, map[string]any{"key": key})
		value, ok := item.Value.(T)
		if !ok {
			return zero, fmt.Errorf("cache entry %q holds %T, want %T", key, item.Value, zero)
		}
		return value, nil
	}

	b.log.LogCacheMiss(method, map[string]any{"key": key})

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	tags, err := strat.tags(value)
	if err != nil {
		return zero, err
	}
	tags = dedupeStrings(append(tags, extraTagsFromContext(ctx)...))

	keys, err := strat.keys(value)
	if err != nil {
		return zero, err
	}

	items := make([]*cache.Item, 0, len(keys)+1)
	items = append(items, &cache.Item{Key: key, Value: value, Tags: tags})
	for _, alt := range keys {
		if alt == key {
			continue
		}
		items = append(items, &cache.Item{Key: alt, Value: value, Tags: tags})
	}
	if err := b.store.Save(ctx, items...); err != nil {
		return zero, err
	}
	return value, nil
}

// getListCacheValue is the list-value cache read. The stored value is the
// ordered result slice under a single list key; there is no per-key fan-out
// for lists. The tag set is the union of every element's tags plus whatever
// extraTags yields. extraTags always runs, even for an empty result, so an
// empty list still registers a tag and the first insertion into it is
// observable.
func getListCacheValue[T any](
	ctx context.Context,
	b base,
	method string,
	key string,
	load func(context.Context) ([]T, error),
	strat strategy[T],
	extraTags func(context.Context) ([]string, error),
) ([]T, error) {
	item, err := b.store.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}
	if item != nil {
		b.log.LogCacheHit(method, map[string]any{"key": key})
		list, ok := item.Value.([]T)
		if !ok {
			return nil, fmt.Errorf("cache entry %q holds %T, want %T", key, item.Value, []T(nil))
		}
		return list, nil
	}

	b.log.LogCacheMiss(method, map[string]any{"key": key})

	list, err := load(ctx)
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, element := range list {
		elementTags, err := strat.tags(element)
		if err != nil {
			return nil, err
		}
		tags = append(tags, elementTags...)
	}
	if extraTags != nil {
		extra, err := extraTags(ctx)
		if err != nil {
			return nil, err
		}
		tags = append(tags, extra...)
	}
	tags = dedupeStrings(append(tags, extraTagsFromContext(ctx)...))

	if err := b.store.Save(ctx, &cache.Item{Key: key, Value: list, Tags: tags}); err != nil {
		return nil, err
	}
	return list, nil
}

// keyPrefix renders the zero-argument key form of kind plus the trailing
// separator, ready for a lookup argument to be appended.
func (b base) keyPrefix(kind cache.Kind) (string, error) {
	prefix, err := b.ids.GenerateKey(kind, true)
	if err != nil {
		return "", err
	}
	return prefix + "-", nil
}
