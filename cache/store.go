package cache

import "context"

// Item is a single cache entry: the cached value together with the tags it
// was saved under. Invalidating any of the tags removes the entry.
type Item struct {
	Key   string
	Value any
	Tags  []string
}

// Store is the cache backend contract the persistence cache handlers are
// written against. A returned nil item from GetItem means a miss.
//
// Implementations are expected to be safe for concurrent use; the handlers
// never hold a lock across the read-then-fill sequence, so concurrent misses
// for the same key may race and both fill. Tag invalidation is advisory
// over-invalidation: removing more than strictly necessary is always safe,
// removing less is not.
type Store interface {
	GetItem(ctx context.Context, key string) (*Item, error)
	GetItems(ctx context.Context, keys []string) (map[string]*Item, error)
	// Save stores every given item in a single call. Storing the same value
	// under several keys is how alternate lookups get filled without a
	// second backend roundtrip.
	Save(ctx context.Context, items ...*Item) error
	DeleteItems(ctx context.Context, keys []string) error
	InvalidateTags(ctx context.Context, tags []string) error
}
