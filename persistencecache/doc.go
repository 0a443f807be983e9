// Package persistencecache implements a write-through, tag-based
// invalidation cache in front of a persistence.Handler.
//
// # Read path
//
// A read enters a per-entity handler, which composes a cache key and asks
// the store for it. On a hit the stored value is returned and the backend
// is never called. On a miss the backend loads the value, and the handler
// saves it, in a single Save call, under the primary key and under every
// alternate-lookup key derived from the value, all tagged with the
// entity's canonical tags. That fan-out is what keeps alternate lookups
// (by login, by email, by token hash) coherent: invalidating the canonical
// entity's tag removes every view of it.
//
// Not-found results are never cached; repeated lookups of a nonexistent
// login always reach the backend. Callers wanting negative caching must
// layer it themselves.
//
// # Write path
//
// A write delegates to the backend first; the backend mutation is
// authoritative and always happens before any cache work. The handler then
// invalidates the tags, and where necessary the explicit keys, that could
// hold stale data. Tag sets are constructed as supersets: over-invalidation
// is safe, under-invalidation is a stale-read bug. A reader racing between
// the backend commit and the invalidation may still see the old cached
// value; that window is accepted and no transaction spans the two steps.
//
// There is no single-flight protection: concurrent misses for one key may
// each load from the backend. Backend reads are idempotent, so this costs
// duplicate work, never correctness.
//
// # Indirect dependencies
//
// Role assignments are reachable through the content tree: which content
// falls under an assignment depends on location paths. Assignment list
// entries are therefore additionally tagged with a location_path tag per
// ancestor segment of every location involved, and tree mutations (moves,
// subtree deletes) invalidate those path tags without touching any
// assignment record.
//
// # Errors
//
// Backend errors, including not-found, propagate unchanged; this layer
// adds no wrapping and performs no retries. Store errors during
// invalidation also propagate: the caller learns the cache may be stale
// even though the backend write succeeded.
package persistencecache
