// Package cache defines the contracts of the persistence caching layer:
// the tag-aware Store interface, the identifier generator and sanitizer
// that produce canonical cache keys and invalidation tags, the activity
// logger, and shared configuration.
//
// # Keys and tags
//
// A cache key addresses exactly one cached value; a cache tag labels a
// group of values that must be invalidated together. Both share the string
// form
//
//	{namespace}-{kind}-{args joined by ":"}[-{suffix}]
//
// and are produced by IdentifierGenerator from a fixed registry of entity
// kinds, each with a documented argument arity. Derived-lookup kinds (for
// example user_with_by_login_suffix) render into the canonical kind's key
// space plus a suffix segment:
//
//	pc-user-5                          canonical user key
//	pc-user-alice-by_login_suffix      the same user, addressed by login
//
// Because a handler composes the by-login read key from the user prefix,
// the escaped login and the suffix, it lands on the identical string the
// derived kind generates, which is what lets a canonical fill populate the
// alternate lookup in the same Save call.
//
// Arbitrary user-controlled strings (logins, emails) pass through
// IdentifierSanitizer before becoming key segments; the escape is total and
// never produces separator bytes.
//
// # Store contract
//
// Store is the external cache backend: get by key, save items carrying a
// tag set, delete by key, invalidate by tag. Implementations live in
// internal/cacheinfra (in-memory on sturdyc, redis on redigo) and are wired
// through pkg/di.
package cache
