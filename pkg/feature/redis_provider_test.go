package feature_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/feature"
	"github.com/dmitrymomot/waffle/pkg/redis"
)

func redisClient(t *testing.T) *goredis.Client {
	t.Helper()
	url := os.Getenv("WAFFLE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WAFFLE_TEST_REDIS_URL not set")
	}
	client, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client := redisClient(t)

	key := fmt.Sprintf("waffle:test:%d", time.Now().UnixNano())
	t.Cleanup(func() { client.Del(context.Background(), key) })
	provider := feature.NewRedisProvider(client, feature.WithRedisKey(key))

	_, err := provider.GetFlag(ctx, "Promo")
	require.ErrorIs(t, err, feature.ErrFlagNotFound)
	_, err = provider.IsEnabled(ctx, "Promo")
	require.ErrorIs(t, err, feature.ErrFlagNotFound)

	require.NoError(t, provider.SaveFlag(ctx, &feature.Flag{Name: "Promo", Enabled: true, Tags: []string{"marketing"}}))
	require.NoError(t, provider.SaveFlag(ctx, &feature.Flag{Name: "Beta"}))

	enabled, err := provider.IsEnabled(ctx, "Promo")
	require.NoError(t, err)
	assert.True(t, enabled)

	first, err := provider.GetFlag(ctx, "Promo")
	require.NoError(t, err)
	require.NoError(t, provider.SaveFlag(ctx, &feature.Flag{Name: "Promo", Enabled: false}))
	second, err := provider.GetFlag(ctx, "Promo")
	require.NoError(t, err)
	assert.False(t, second.Enabled)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))

	flags, err := provider.ListFlags(ctx)
	require.NoError(t, err)
	require.Len(t, flags, 2)
	assert.Equal(t, "Beta", flags[0].Name)
	assert.Equal(t, "Promo", flags[1].Name)

	require.NoError(t, provider.DeleteFlag(ctx, "Beta"))
	require.ErrorIs(t, provider.DeleteFlag(ctx, "Beta"), feature.ErrFlagNotFound)
	require.ErrorIs(t, provider.SaveFlag(ctx, &feature.Flag{}), feature.ErrInvalidFlag)
	assert.NoError(t, provider.Close())
}

func TestRedisProvider_Unavailable(t *testing.T) {
	t.Parallel()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	provider := feature.NewRedisProvider(client)
	_, err := provider.IsEnabled(context.Background(), "Promo")
	assert.ErrorIs(t, err, feature.ErrProviderUnavailable)
}
