package cache

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Namespace != "pc" {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, "pc")
	}
	if cfg.TTL != 5*time.Minute {
		t.Errorf("TTL = %v, want %v", cfg.TTL, 5*time.Minute)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PCACHE_NAMESPACE", "site2")
	t.Setenv("PCACHE_CAPACITY", "500")
	t.Setenv("PCACHE_TTL", "30s")
	t.Setenv("PCACHE_REDIS_ADDR", "localhost:6379")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Namespace != "site2" {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, "site2")
	}
	if cfg.Capacity != 500 {
		t.Errorf("Capacity = %d, want 500", cfg.Capacity)
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("TTL = %v, want 30s", cfg.TTL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	// Unset fields keep their defaults.
	if cfg.NumShards != 256 {
		t.Errorf("NumShards = %d, want 256", cfg.NumShards)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "empty namespace", mutate: func(c *Config) { c.Namespace = "" }, field: "Namespace"},
		{name: "zero capacity", mutate: func(c *Config) { c.Capacity = 0 }, field: "Capacity"},
		{name: "negative shards", mutate: func(c *Config) { c.NumShards = -1 }, field: "NumShards"},
		{name: "zero ttl", mutate: func(c *Config) { c.TTL = 0 }, field: "TTL"},
		{name: "eviction too high", mutate: func(c *Config) { c.EvictionPercentage = 101 }, field: "EvictionPercentage"},
		{name: "eviction zero", mutate: func(c *Config) { c.EvictionPercentage = 0 }, field: "EvictionPercentage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}
