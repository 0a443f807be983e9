package cache

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the tuning knobs shared by the Store implementations.
// The memory store consumes the sizing/TTL fields; the redis store only
// needs the address and namespace.
type Config struct {
	// Namespace prefixes every generated cache key and tag. Must be a safe
	// key segment (letters, digits, underscore).
	Namespace string `env:"PCACHE_NAMESPACE" envDefault:"pc"`

	// Capacity is the maximum number of entries the memory store holds.
	Capacity int `env:"PCACHE_CAPACITY" envDefault:"10000"`

	// NumShards controls memory store sharding. Higher values improve
	// concurrency at the cost of memory overhead.
	NumShards int `env:"PCACHE_NUM_SHARDS" envDefault:"256"`

	// TTL is the memory store's entry time-to-live. Expiry is entirely the
	// store's concern; the cache handlers never manage TTLs themselves.
	TTL time.Duration `env:"PCACHE_TTL" envDefault:"5m"`

	// EvictionPercentage is the share of entries evicted when the memory
	// store hits capacity. Must be between 1 and 100.
	EvictionPercentage int `env:"PCACHE_EVICTION_PERCENTAGE" envDefault:"10"`

	// RedisAddr, when set, selects the redis-backed store instead of the
	// in-memory one.
	RedisAddr string `env:"PCACHE_REDIS_ADDR"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Namespace:          "pc",
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ConfigFromEnv builds a Config from PCACHE_* environment variables,
// falling back to the defaults for anything unset.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if c.Namespace == "" {
		return &ConfigError{Field: "Namespace", Message: "must not be empty"}
	}
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
