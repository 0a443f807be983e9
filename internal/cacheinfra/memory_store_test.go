package cacheinfra

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-persistence-cache/cache"
)

func testConfig() cache.Config {
	return cache.Config{
		Namespace:          "pc",
		Capacity:           100,
		NumShards:          2,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	}
}

func TestNewMemoryStore_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Capacity = 0
	if _, err := NewMemoryStore(cfg); err == nil {
		t.Fatal("expected config error")
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store, err := NewMemoryStore(testConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	ctx := context.Background()

	item, err := store.GetItem(ctx, "pc-user-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Fatalf("expected miss, got %+v", item)
	}

	err = store.Save(ctx, &cache.Item{
		Key:   "pc-user-1",
		Value: "alice",
		Tags:  []string{"pc-user-1", "pc-content-1"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	item, err = store.GetItem(ctx, "pc-user-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item == nil {
		t.Fatal("expected hit")
	}
	if item.Value != "alice" {
		t.Errorf("Value = %v, want alice", item.Value)
	}
}

func TestMemoryStore_GetItems(t *testing.T) {
	store, err := NewMemoryStore(testConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	ctx := context.Background()

	err = store.Save(ctx,
		&cache.Item{Key: "a", Value: 1},
		&cache.Item{Key: "b", Value: 2},
	)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	items, err := store.GetItems(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if _, ok := items["missing"]; ok {
		t.Error("absent key present in result")
	}
}

func TestMemoryStore_DeleteItems(t *testing.T) {
	store, err := NewMemoryStore(testConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, &cache.Item{Key: "a", Value: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.DeleteItems(ctx, []string{"a", "never-existed"}); err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}

	item, err := store.GetItem(ctx, "a")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Error("deleted key still present")
	}
}

func TestMemoryStore_InvalidateTags(t *testing.T) {
	store, err := NewMemoryStore(testConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	ctx := context.Background()

	err = store.Save(ctx,
		&cache.Item{Key: "pc-user-1", Value: "a", Tags: []string{"pc-user-1", "pc-content-1"}},
		&cache.Item{Key: "pc-user-1-by_login_suffix", Value: "a", Tags: []string{"pc-user-1", "pc-content-1"}},
		&cache.Item{Key: "pc-user-2", Value: "b", Tags: []string{"pc-user-2"}},
	)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.InvalidateTags(ctx, []string{"pc-user-1"}); err != nil {
		t.Fatalf("InvalidateTags: %v", err)
	}

	// Both entries tagged pc-user-1 are gone, the other survives.
	for _, key := range []string{"pc-user-1", "pc-user-1-by_login_suffix"} {
		item, err := store.GetItem(ctx, key)
		if err != nil {
			t.Fatalf("GetItem: %v", err)
		}
		if item != nil {
			t.Errorf("key %q survived tag invalidation", key)
		}
	}
	item, err := store.GetItem(ctx, "pc-user-2")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item == nil {
		t.Error("unrelated key was invalidated")
	}
}

func TestMemoryStore_InvalidateUnknownTag(t *testing.T) {
	store, err := NewMemoryStore(testConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	if err := store.InvalidateTags(context.Background(), []string{"never-saved"}); err != nil {
		t.Fatalf("InvalidateTags: %v", err)
	}
}

func TestMemoryStore_SaveOverwrites(t *testing.T) {
	store, err := NewMemoryStore(testConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, &cache.Item{Key: "a", Value: "old"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, &cache.Item{Key: "a", Value: "new"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	item, err := store.GetItem(ctx, "a")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Value != "new" {
		t.Errorf("Value = %v, want new", item.Value)
	}
}
