package persistencecache

import (
	"context"
	"strconv"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/persistence"
)

// LocationHandler decorates the backend's content-tree storage with
// caching. Every cached location is tagged per ancestor path segment, which
// is the other half of the location_path scheme: the user handler consumes
// those tags when tree mutations happen, this handler also produces entries
// carrying them.
type LocationHandler struct {
	base
	paths     LocationPathConverter
	locations strategy[persistence.Location]
}

// NewLocationHandler builds a LocationHandler caching in front of backend.
func NewLocationHandler(
	store cache.Store,
	backend persistence.Handler,
	ids cache.IdentifierGenerator,
	esc cache.IdentifierSanitizer,
	log cache.ActivityLogger,
) *LocationHandler {
	h := &LocationHandler{
		base: base{store: store, backend: backend, ids: ids, esc: esc, log: log},
	}

	h.locations = strategy[persistence.Location]{
		tags: func(loc persistence.Location) ([]string, error) {
			var l idList
			l.add(ids.GenerateTag(cache.KindLocation, loc.ID))
			l.add(ids.GenerateTag(cache.KindContent, loc.ContentID))
			tags, err := l.result()
			if err != nil {
				return nil, err
			}
			pathIDs, err := h.paths.ToPathIDs(loc.PathString)
			if err != nil {
				return nil, err
			}
			var p idList
			p.ids = tags
			for _, pathID := range pathIDs {
				p.add(ids.GenerateTag(cache.KindLocationPath, pathID))
			}
			return p.result()
		},
		keys: func(loc persistence.Location) ([]string, error) {
			var l idList
			l.add(ids.GenerateKey(cache.KindLocation, true, loc.ID))
			return l.result()
		},
	}

	return h
}

var _ persistence.LocationHandler = (*LocationHandler)(nil)

func (h *LocationHandler) inner() persistence.LocationHandler {
	return h.backend.LocationHandler()
}

func (h *LocationHandler) Load(ctx context.Context, locationID int64) (persistence.Location, error) {
	prefix, err := h.keyPrefix(cache.KindLocation)
	if err != nil {
		return persistence.Location{}, err
	}
	return getCacheValue(ctx, h.base, "LocationHandler.Load",
		strconv.FormatInt(locationID, 10), prefix,
		func(ctx context.Context) (persistence.Location, error) {
			return h.inner().Load(ctx, locationID)
		},
		h.locations, "")
}

// LoadLocationsByContent caches the content's location list. The
// content_locations tag covers the empty result, so creating the first
// location of a content invalidates the cached empty list.
func (h *LocationHandler) LoadLocationsByContent(ctx context.Context, contentID int64) ([]persistence.Location, error) {
	key, err := h.ids.GenerateKey(cache.KindContentLocations, true, contentID)
	if err != nil {
		return nil, err
	}
	return getListCacheValue(ctx, h.base, "LocationHandler.LoadLocationsByContent", key,
		func(ctx context.Context) ([]persistence.Location, error) {
			return h.inner().LoadLocationsByContent(ctx, contentID)
		},
		h.locations,
		func(context.Context) ([]string, error) {
			var l idList
			l.add(h.ids.GenerateTag(cache.KindContentLocations, contentID))
			return l.result()
		})
}

func (h *LocationHandler) Create(ctx context.Context, location persistence.Location) (persistence.Location, error) {
	h.log.LogCall("LocationHandler.Create", map[string]any{"parent": location.ParentID})

	created, err := h.inner().Create(ctx, location)
	if err != nil {
		return persistence.Location{}, err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindContentLocations, created.ContentID))
	tags.add(h.ids.GenerateTag(cache.KindLocationPath, created.ParentID))
	invalidate, err := tags.result()
	if err != nil {
		return created, err
	}
	return created, h.store.InvalidateTags(ctx, invalidate)
}

// Move invalidates the subtree root's location_path tag: every cached
// descendant carries the moved node's id in its path tags, so one tag
// reaches the whole subtree. The new parent's tag covers entries that now
// gain descendants.
func (h *LocationHandler) Move(ctx context.Context, locationID, newParentID int64) error {
	h.log.LogCall("LocationHandler.Move", map[string]any{"location": locationID, "parent": newParentID})

	if err := h.inner().Move(ctx, locationID, newParentID); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindLocationPath, locationID))
	tags.add(h.ids.GenerateTag(cache.KindLocationPath, newParentID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}

func (h *LocationHandler) Delete(ctx context.Context, locationID int64) error {
	h.log.LogCall("LocationHandler.Delete", map[string]any{"location": locationID})

	// Load before the delete: the content id is needed for invalidation and
	// is gone afterwards.
	location, err := h.inner().Load(ctx, locationID)
	if err != nil {
		return err
	}
	if err := h.inner().Delete(ctx, locationID); err != nil {
		return err
	}

	var tags idList
	tags.add(h.ids.GenerateTag(cache.KindLocationPath, locationID))
	tags.add(h.ids.GenerateTag(cache.KindContentLocations, location.ContentID))
	invalidate, err := tags.result()
	if err != nil {
		return err
	}
	return h.store.InvalidateTags(ctx, invalidate)
}
