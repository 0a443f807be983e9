// Package testsupport holds the in-memory test doubles shared by the cache
// layer tests: a recording store, a counting activity logger and a stubbable
// storage backend, plus a handful of fixture builders.
package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/persistence"
)

// FakeStore is a map-backed cache.Store that records every mutating call so
// tests can assert exactly which keys were saved or deleted and which tags
// were invalidated.
type FakeStore struct {
	mu    sync.Mutex
	items map[string]*cache.Item
	tags  map[string]map[string]struct{}

	SavedKeys       []string
	DeletedKeys     []string
	InvalidatedTags []string
}

var _ cache.Store = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{
		items: make(map[string]*cache.Item),
		tags:  make(map[string]map[string]struct{}),
	}
}

func (s *FakeStore) GetItem(_ context.Context, key string) (*cache.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key], nil
}

func (s *FakeStore) GetItems(_ context.Context, keys []string) (map[string]*cache.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*cache.Item, len(keys))
	for _, key := range keys {
		if item, ok := s.items[key]; ok {
			out[key] = item
		}
	}
	return out, nil
}

func (s *FakeStore) Save(_ context.Context, items ...*cache.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.Key] = item
		s.SavedKeys = append(s.SavedKeys, item.Key)
		for _, tag := range item.Tags {
			if s.tags[tag] == nil {
				s.tags[tag] = make(map[string]struct{})
			}
			s.tags[tag][item.Key] = struct{}{}
		}
	}
	return nil
}

func (s *FakeStore) DeleteItems(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.items, key)
		s.DeletedKeys = append(s.DeletedKeys, key)
	}
	return nil
}

func (s *FakeStore) InvalidateTags(_ context.Context, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		s.InvalidatedTags = append(s.InvalidatedTags, tag)
		for key := range s.tags[tag] {
			delete(s.items, key)
		}
		delete(s.tags, tag)
	}
	return nil
}

// Has reports whether a key is currently cached.
func (s *FakeStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

// Item returns the cached item for key, or nil.
func (s *FakeStore) Item(key string) *cache.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key]
}

// Len returns the number of cached entries.
func (s *FakeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Reset clears the contents and the recorded calls.
func (s *FakeStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*cache.Item)
	s.tags = make(map[string]map[string]struct{})
	s.SavedKeys = nil
	s.DeletedKeys = nil
	s.InvalidatedTags = nil
}

// SpyLogger counts activity log events per method.
type SpyLogger struct {
	mu     sync.Mutex
	Calls  map[string]int
	Hits   map[string]int
	Misses map[string]int
}

var _ cache.ActivityLogger = (*SpyLogger)(nil)

func NewSpyLogger() *SpyLogger {
	return &SpyLogger{
		Calls:  make(map[string]int),
		Hits:   make(map[string]int),
		Misses: make(map[string]int),
	}
}

func (l *SpyLogger) LogCall(method string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls[method]++
}

func (l *SpyLogger) LogCacheHit(method string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Hits[method]++
}

func (l *SpyLogger) LogCacheMiss(method string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Misses[method]++
}

// TotalCalls returns the sum over all methods of pass-through call events.
func (l *SpyLogger) TotalCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, n := range l.Calls {
		total += n
	}
	return total
}

// NewUser returns a user fixture with deterministic derived fields.
func NewUser(id int64) persistence.User {
	return persistence.User{
		ID:                id,
		Login:             fmt.Sprintf("user%d", id),
		Email:             fmt.Sprintf("user%d@example.com", id),
		PasswordHash:      fmt.Sprintf("hash-%d", id),
		HashAlgorithm:     7,
		PasswordUpdatedAt: 1700000000,
		Enabled:           true,
	}
}

// NewRole returns a defined role fixture with a single policy.
func NewRole(id int64) persistence.Role {
	return persistence.Role{
		ID:         id,
		OriginalID: persistence.NoOriginalRole,
		Identifier: fmt.Sprintf("role-%d", id),
		Status:     persistence.StatusDefined,
		Policies: []persistence.Policy{
			{ID: id * 100, RoleID: id, Module: "content", Function: "read"},
		},
	}
}

// NewRoleAssignment returns an assignment fixture linking a group to a role.
func NewRoleAssignment(id, roleID, contentID int64) persistence.RoleAssignment {
	return persistence.RoleAssignment{ID: id, RoleID: roleID, ContentID: contentID}
}

// NewLocation returns a location fixture; the path encodes the full ancestry
// so callers pick ids that match their tree.
func NewLocation(id, parentID, contentID int64, path string) persistence.Location {
	return persistence.Location{
		ID:         id,
		ParentID:   parentID,
		ContentID:  contentID,
		Depth:      0,
		PathString: path,
	}
}

// NewAccountKey returns a fresh random token hash for user token fixtures.
func NewAccountKey() string {
	return uuid.NewString()
}
