package cache

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsNormalized(t *testing.T) {
	assert.Equal(t, "wallet:account:ana@example.com", key("  Ana@Example.com "))
}

func TestRedisAccountCacheTreatsFailuresAsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisAccountCache(client, time.Minute)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Set(ctx, "ana@example.com", &domain.Account{Email: "ana@example.com"})
		c.Delete(ctx, "ana@example.com")
	})
	acc, ok := c.Get(ctx, "ana@example.com")
	assert.False(t, ok)
	assert.Nil(t, acc)
}

func TestNoopAccountCache(t *testing.T) {
	var c NoopAccountCache
	c.Set(context.Background(), "a", &domain.Account{})
	_, ok := c.Get(context.Background(), "a")
	assert.False(t, ok)
}

func newMiniredisCache(t *testing.T, ttl time.Duration) (*RedisAccountCache, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAccountCache(client, ttl, WithInvalidationWindow(2*time.Second)), m
}

func TestRedisAccountCacheRoundTrip(t *testing.T) {
	c, m := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "Ana@example.com", &domain.Account{AccountID: "acc-1", Email: "ana@example.com", CredentialHash: "hash"})

	acc, ok := c.Get(ctx, "ana@example.com")
	require.True(t, ok)
	assert.Equal(t, "acc-1", acc.AccountID)
	assert.Empty(t, acc.CredentialHash)
	assert.Equal(t, time.Minute, m.TTL(key("ana@example.com")))
}

func TestRedisAccountCacheDropsViewLoadedBeforeInvalidation(t *testing.T) {
	c, m := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "ana@example.com", &domain.Account{AccountID: "acc-1", Balance: decimal.NewFromInt(4500)})
	stale := &domain.Account{AccountID: "acc-1", Balance: decimal.NewFromInt(4500)}

	// A transfer commits and invalidates while a reader still holds the old view.
	c.Delete(ctx, "ana@example.com", "bob@example.com")
	c.Set(ctx, "ana@example.com", stale)

	_, ok := c.Get(ctx, "ana@example.com")
	assert.False(t, ok, "a view read before the invalidation must not be cached")

	m.FastForward(3 * time.Second)
	c.Set(ctx, "ana@example.com", &domain.Account{AccountID: "acc-1", Balance: decimal.NewFromInt(3500)})
	acc, ok := c.Get(ctx, "ana@example.com")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(3500).Equal(acc.Balance))
}

func TestRedisAccountCacheWithoutTTL(t *testing.T) {
	c, m := newMiniredisCache(t, 0)
	c.Set(context.Background(), "ana@example.com", &domain.Account{AccountID: "acc-1"})
	assert.Equal(t, time.Duration(0), m.TTL(key("ana@example.com")))
	assert.True(t, m.Exists(key("ana@example.com")))
}
