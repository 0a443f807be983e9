package di

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-persistence-cache/cache"
	"github.com/goliatone/go-persistence-cache/internal/cacheinfra"
	"github.com/goliatone/go-persistence-cache/persistence"
	"github.com/goliatone/go-persistence-cache/pkg/testsupport"
)

func TestNewContainer_Defaults(t *testing.T) {
	c, err := NewContainer(cache.DefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, c.Store())
	require.Equal(t, "pc", c.Config().Namespace)
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.Namespace = ""
	_, err := NewContainer(cfg, nil)
	require.Error(t, err)
	var ce *cache.ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestNewContainer_RedisAddrSelectsRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := cache.DefaultConfig()
	cfg.RedisAddr = mr.Addr()

	types := make(cacheinfra.TypeRegistry)
	cacheinfra.RegisterType[persistence.User](types)

	c, err := NewContainer(cfg, types)
	require.NoError(t, err)
	_, ok := c.Store().(*cacheinfra.RedisStore)
	require.True(t, ok, "expected a redis-backed store")
}

func TestNewContainer_WithStoreOverride(t *testing.T) {
	fake := testsupport.NewFakeStore()
	c, err := NewContainer(cache.DefaultConfig(), nil, WithStore(fake))
	require.NoError(t, err)
	require.Same(t, fake, c.Store())
}

func TestNewContainerWithDefaults(t *testing.T) {
	c, err := NewContainerWithDefaults(zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, c.Store())
}

func TestContainer_NewCachedHandler(t *testing.T) {
	fake := testsupport.NewFakeStore()
	c, err := NewContainer(cache.DefaultConfig(), nil, WithStore(fake))
	require.NoError(t, err)

	backend := testsupport.NewStubHandler()
	backend.Users.LoadFunc = func(_ context.Context, id int64) (persistence.User, error) {
		return persistence.User{ID: id, Login: "alice"}, nil
	}

	var handler persistence.Handler = c.NewCachedHandler(backend)

	_, err = handler.UserHandler().Load(context.Background(), 14)
	require.NoError(t, err)
	_, err = handler.UserHandler().Load(context.Background(), 14)
	require.NoError(t, err)

	// Decorated reads go through the injected store: one backend call, the
	// repeat served from cache.
	require.Equal(t, 1, backend.Users.CallCount("Load"))
	require.True(t, fake.Has("pc-user-14"))
}
