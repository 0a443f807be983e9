// Package cacheinfra provides the concrete cache.Store implementations:
// an in-memory store built on sturdyc and a redis store built on redigo.
// Both keep a tag index next to the key/value data so that invalidating a
// tag removes every entry saved under it.
package cacheinfra

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-persistence-cache/cache"
)

// MemoryStore is an in-process cache.Store. The key/value side is a sturdyc
// client (sharding, capacity, TTL, eviction); the tag index is a concurrent
// map from tag to the set of keys saved under it.
//
// sturdyc may evict or expire entries behind the index's back, so the index
// can hold keys that no longer exist. That is harmless: deleting an absent
// key is a no-op, and tags are advisory over-invalidation by design.
type MemoryStore struct {
	client *sturdyc.Client[*cache.Item]
	tags   *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

// NewMemoryStore builds a MemoryStore from cfg.
//
// Version compatibility note: assumes sturdyc v1.x constructor parameters.
func NewMemoryStore(cfg cache.Config) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[*cache.Item](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
	)

	return &MemoryStore{
		client: client,
		tags:   xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}, nil
}

// GetItem returns the item stored under key, or nil on a miss.
func (s *MemoryStore) GetItem(_ context.Context, key string) (*cache.Item, error) {
	item, ok := s.client.Get(key)
	if !ok {
		return nil, nil
	}
	return item, nil
}

// GetItems returns the present items for keys; absent keys are simply
// missing from the result map.
func (s *MemoryStore) GetItems(_ context.Context, keys []string) (map[string]*cache.Item, error) {
	out := make(map[string]*cache.Item, len(keys))
	for _, key := range keys {
		if item, ok := s.client.Get(key); ok {
			out[key] = item
		}
	}
	return out, nil
}

// Save stores every item and registers each under its tags.
func (s *MemoryStore) Save(_ context.Context, items ...*cache.Item) error {
	for _, item := range items {
		s.client.Set(item.Key, item)
		for _, tag := range item.Tags {
			set, _ := s.tags.LoadOrStore(tag, xsync.NewMapOf[string, struct{}]())
			set.Store(item.Key, struct{}{})
		}
	}
	return nil
}

// DeleteItems removes the given keys. Tag index entries for deleted keys are
// left behind and cleaned up lazily on the next invalidation of their tag.
func (s *MemoryStore) DeleteItems(_ context.Context, keys []string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

// InvalidateTags removes every entry saved under any of the given tags.
// Tags are processed one at a time; a concurrent reader may observe a
// partially invalidated state, which the handlers tolerate because every
// write path invalidates a superset of what might be stale.
func (s *MemoryStore) InvalidateTags(_ context.Context, tags []string) error {
	for _, tag := range tags {
		set, ok := s.tags.LoadAndDelete(tag)
		if !ok {
			continue
		}
		set.Range(func(key string, _ struct{}) bool {
			s.client.Delete(key)
			return true
		})
	}
	return nil
}

// Size reports the number of live entries, for tests and debugging.
func (s *MemoryStore) Size() int {
	return s.client.Size()
}
