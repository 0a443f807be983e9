package cacheinfra

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-persistence-cache/cache"
)

// Redis key spaces. Generated cache keys and tags can collide as strings, so
// they are stored under distinct prefixes.
const (
	redisKeyPrefix = "k:"
	redisTagPrefix = "t:"
)

// envelope is the wire form of a cached item. Data holds the msgpack
// encoding of the value; Type names the registered Go type needed to decode
// it again.
type envelope struct {
	Type string             `msgpack:"t"`
	Data msgpack.RawMessage `msgpack:"d"`
	Tags []string           `msgpack:"g"`
}

// TypeRegistry maps type names to factories producing a pointer to a fresh
// zero value. The redis store can only return values whose types were
// registered up front; the memory store has no such restriction because it
// never serializes.
type TypeRegistry map[string]func() any

// RegisterType adds T to the registry under its reflected type name.
func RegisterType[T any](r TypeRegistry) {
	var zero T
	r[reflect.TypeOf(zero).String()] = func() any { return new(T) }
}

// RedisStore is a cache.Store backed by a shared redis instance. Values are
// msgpack envelopes under string keys; each tag is a redis set holding the
// keys saved under it.
type RedisStore struct {
	pool  *redis.Pool
	ttl   time.Duration
	types TypeRegistry
}

// NewRedisStore connects to addr and returns a RedisStore. The registry must
// contain every type that will be cached through this store.
func NewRedisStore(cfg cache.Config, types TypeRegistry) (*RedisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, &cache.ConfigError{Field: "RedisAddr", Message: "must not be empty for the redis store"}
	}
	pool := &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.RedisAddr)
		},
	}
	return &RedisStore{pool: pool, ttl: cfg.TTL, types: types}, nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

// GetItem returns the item stored under key, or nil on a miss.
func (s *RedisStore) GetItem(ctx context.Context, key string) (*cache.Item, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return s.getItem(conn, key)
}

// GetItems returns the present items for keys.
func (s *RedisStore) GetItems(ctx context.Context, keys []string) (map[string]*cache.Item, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	out := make(map[string]*cache.Item, len(keys))
	for _, key := range keys {
		item, err := s.getItem(conn, key)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out[key] = item
		}
	}
	return out, nil
}

func (s *RedisStore) getItem(conn redis.Conn, key string) (*cache.Item, error) {
	b, err := redis.Bytes(conn.Do("GET", redisKeyPrefix+key))
	if err == redis.ErrNil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode cache envelope for %q: %w", key, err)
	}
	factory, ok := s.types[env.Type]
	if !ok {
		return nil, fmt.Errorf("cached value of unregistered type %q under %q", env.Type, key)
	}
	ptr := factory()
	if err := msgpack.Unmarshal(env.Data, ptr); err != nil {
		return nil, fmt.Errorf("decode cached %s under %q: %w", env.Type, key, err)
	}

	return &cache.Item{
		Key:   key,
		Value: reflect.ValueOf(ptr).Elem().Interface(),
		Tags:  env.Tags,
	}, nil
}

// Save stores every item and adds its key to the set of each of its tags.
// Commands are pipelined; the TTL from the configuration is applied per key
// so redis expires entries on its own.
func (s *RedisStore) Save(ctx context.Context, items ...*cache.Item) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	sent := 0
	for _, item := range items {
		data, err := msgpack.Marshal(item.Value)
		if err != nil {
			return fmt.Errorf("encode cached value for %q: %w", item.Key, err)
		}
		env := envelope{Type: typeName(item.Value), Data: data, Tags: item.Tags}
		b, err := msgpack.Marshal(&env)
		if err != nil {
			return fmt.Errorf("encode cache envelope for %q: %w", item.Key, err)
		}

		if s.ttl > 0 {
			err = conn.Send("SET", redisKeyPrefix+item.Key, b, "EX", int64(s.ttl.Seconds()))
		} else {
			err = conn.Send("SET", redisKeyPrefix+item.Key, b)
		}
		if err != nil {
			return err
		}
		sent++

		for _, tag := range item.Tags {
			if err := conn.Send("SADD", redisTagPrefix+tag, item.Key); err != nil {
				return err
			}
			sent++
		}
	}

	return flush(conn, sent)
}

// DeleteItems removes the given keys. Stale tag-set members are cleaned up
// lazily when their tag is invalidated.
func (s *RedisStore) DeleteItems(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	args := make([]any, 0, len(keys))
	for _, key := range keys {
		args = append(args, redisKeyPrefix+key)
	}
	_, err = conn.Do("DEL", args...)
	return err
}

// InvalidateTags removes every entry saved under any of the given tags and
// drops the tag sets themselves. Each tag is handled independently; there is
// no cross-tag transaction.
func (s *RedisStore) InvalidateTags(ctx context.Context, tags []string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, tag := range tags {
		keys, err := redis.Strings(conn.Do("SMEMBERS", redisTagPrefix+tag))
		if err != nil {
			return err
		}
		args := make([]any, 0, len(keys)+1)
		for _, key := range keys {
			args = append(args, redisKeyPrefix+key)
		}
		args = append(args, redisTagPrefix+tag)
		if _, err := conn.Do("DEL", args...); err != nil {
			return err
		}
	}
	return nil
}

func typeName(v any) string {
	return reflect.TypeOf(v).String()
}

func flush(conn redis.Conn, sent int) error {
	if err := conn.Flush(); err != nil {
		return err
	}
	for i := 0; i < sent; i++ {
		if _, err := conn.Receive(); err != nil {
			return err
		}
	}
	return nil
}
