// Package cache holds the account view cache adapters.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix       = "wallet:account:"
	tombstoneSuffix = ":invalidated"

	// DefaultInvalidationWindow is how long a deleted view refuses to be cached again.
	DefaultInvalidationWindow = 5 * time.Second
)

// setUnlessInvalidated writes KEYS[1] only when the tombstone KEYS[2] is absent.
// ARGV[1] is the payload and ARGV[2] the TTL in milliseconds, 0 for none.
var setUnlessInvalidated = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// RedisAccountCache is a JSON-backed Redis cache of account views keyed by email.
// The credential hash is never serialized, so cached views cannot be used for login.
//
// Delete leaves a short-lived tombstone next to each view. A Set that arrives while the
// tombstone exists is dropped, so a read that started before a mutation committed cannot
// repopulate the cache with the old state. A read slower than the invalidation window
// can still do so; such a view lives at most ttl.
type RedisAccountCache struct {
	client *redis.Client
	ttl    time.Duration
	window time.Duration
}

var _ ports.AccountCache = (*RedisAccountCache)(nil)

// RedisCacheOption configures a RedisAccountCache.
type RedisCacheOption func(*RedisAccountCache)

// WithInvalidationWindow overrides DefaultInvalidationWindow.
func WithInvalidationWindow(window time.Duration) RedisCacheOption {
	return func(c *RedisAccountCache) {
		if window > 0 {
			c.window = window
		}
	}
}

// NewRedisAccountCache creates a cache backed by client. Pass ttl 0 for keys that never expire.
func NewRedisAccountCache(client *redis.Client, ttl time.Duration, opts ...RedisCacheOption) *RedisAccountCache {
	c := &RedisAccountCache{client: client, ttl: ttl, window: DefaultInvalidationWindow}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func key(email string) string {
	return keyPrefix + domain.NormalizeHandle(email)
}

func tombstone(email string) string {
	return key(email) + tombstoneSuffix
}

// Get returns (nil, false) on any miss or deserialisation error.
func (c *RedisAccountCache) Get(ctx context.Context, email string) (*domain.Account, bool) {
	data, err := c.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		return nil, false
	}
	var acc domain.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, false
	}
	return &acc, true
}

// Set logs write failures rather than returning them; a cache write miss is non-fatal.
// Views for recently invalidated emails are not stored.
func (c *RedisAccountCache) Set(ctx context.Context, email string, account *domain.Account) {
	data, err := json.Marshal(account)
	if err != nil {
		slog.WarnContext(ctx, "Account cache marshal failed", slog.String("error", err.Error()))
		return
	}
	keys := []string{key(email), tombstone(email)}
	if err := setUnlessInvalidated.Run(ctx, c.client, keys, data, c.ttl.Milliseconds()).Err(); err != nil {
		slog.WarnContext(ctx, "Account cache write failed", slog.String("error", err.Error()))
	}
}

// Delete removes the views and marks the emails invalidated for the invalidation window.
func (c *RedisAccountCache) Delete(ctx context.Context, emails ...string) {
	if len(emails) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range emails {
			pipe.Set(ctx, tombstone(e), 1, c.window)
			pipe.Del(ctx, key(e))
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Account cache delete failed", slog.String("error", err.Error()))
	}
}

// NoopAccountCache never stores anything.
type NoopAccountCache struct{}

var _ ports.AccountCache = NoopAccountCache{}

func (NoopAccountCache) Get(ctx context.Context, email string) (*domain.Account, bool) {
	return nil, false
}
func (NoopAccountCache) Set(ctx context.Context, email string, account *domain.Account) {}
func (NoopAccountCache) Delete(ctx context.Context, emails ...string) {}
