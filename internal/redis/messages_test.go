package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	redisc "github.com/robalyx/reaper/internal/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*redisc.MessageCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return redisc.NewMessageCache(client, zap.NewNop()), mr
}

func TestMessageCache(t *testing.T) {
	ctx := context.Background()

	t.Run("store then get", func(t *testing.T) {
		cache, _ := newTestCache(t)

		require.NoError(t, cache.Store(ctx, 1, 2, 3, 42, "hello there"))

		msg, err := cache.Get(ctx, 1, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), msg.UserID)
		assert.Equal(t, "hello there", msg.Content)
	})

	t.Run("content with colons survives", func(t *testing.T) {
		cache, _ := newTestCache(t)

		require.NoError(t, cache.Store(ctx, 1, 2, 3, 42, "see: https://example.com"))

		msg, err := cache.Get(ctx, 1, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, "see: https://example.com", msg.Content)
	})

	t.Run("unknown message", func(t *testing.T) {
		cache, _ := newTestCache(t)

		_, err := cache.Get(ctx, 1, 2, 99)
		require.ErrorIs(t, err, redisc.ErrMessageNotCached)
	})

	t.Run("entries expire", func(t *testing.T) {
		cache, mr := newTestCache(t)

		require.NoError(t, cache.Store(ctx, 1, 2, 3, 42, "soon gone"))

		mr.FastForward(redisc.MessageTTL*time.Second + time.Second)

		_, err := cache.Get(ctx, 1, 2, 3)
		require.ErrorIs(t, err, redisc.ErrMessageNotCached)
	})

	t.Run("store replaces previous body", func(t *testing.T) {
		cache, _ := newTestCache(t)

		require.NoError(t, cache.Store(ctx, 1, 2, 3, 42, "first"))
		require.NoError(t, cache.Store(ctx, 1, 2, 3, 42, "second"))

		msg, err := cache.Get(ctx, 1, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, "second", msg.Content)
	})
}
