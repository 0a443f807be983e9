package di

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/internal/cacheinfra"
	"github.com/goliatone/go-persistence-cache/persistence"
	"github.com/goliatone/go-persistence-cache/persistencecache"
)

// Container provides dependency injection for the cache layer. It manages
// singleton instances of the store, identifier generator, sanitizer and
// activity logger, and provides a factory for wrapping a storage backend
// with the caching decorators.
type Container struct {
	store  cache.Store
	ids    cache.IdentifierGenerator
	esc    cache.IdentifierSanitizer
	logger cache.ActivityLogger
	config cache.Config
}

// Option customizes a Container during construction.
type Option func(*Container)

// WithStore overrides the store the container would otherwise build from
// its configuration.
func WithStore(store cache.Store) Option {
	return func(c *Container) { c.store = store }
}

// WithActivityLogger overrides the activity logger.
func WithActivityLogger(logger cache.ActivityLogger) Option {
	return func(c *Container) { c.logger = logger }
}

// NewContainer creates a new DI container with the provided configuration.
// When RedisAddr is set the container uses the redis store with the given
// type registry; otherwise it uses the in-process memory store and the
// registry may be nil.
func NewContainer(config cache.Config, types cacheinfra.TypeRegistry, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		ids:    cache.NewIdentifierGenerator(config.Namespace),
		esc:    cache.NewIdentifierSanitizer(),
		logger: cache.NopActivityLogger{},
		config: config,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		var err error
		if config.RedisAddr != "" {
			c.store, err = cacheinfra.NewRedisStore(config, types)
		} else {
			c.store, err = cacheinfra.NewMemoryStore(config)
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewContainerWithDefaults creates a new DI container using the default
// configuration, an in-process memory store and a zap activity logger.
func NewContainerWithDefaults(log *zap.Logger) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), nil,
		WithActivityLogger(cache.NewActivityLogger(log)))
}

// Store returns the singleton store instance.
func (c *Container) Store() cache.Store {
	return c.store
}

// IdentifierGenerator returns the singleton identifier generator.
func (c *Container) IdentifierGenerator() cache.IdentifierGenerator {
	return c.ids
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewCachedHandler wraps a storage backend with the caching decorators,
// wiring in the container's store, identifier scheme and activity logger.
func (c *Container) NewCachedHandler(backend persistence.Handler) *persistencecache.Handler {
	return persistencecache.New(c.store, backend, c.ids, c.esc, c.logger)
}
