package events

import (
	"context"
	"fmt"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends events to a Redis stream with XADD.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

var _ ports.EventPublisher = (*RedisStreamPublisher)(nil)

// NewRedisStreamPublisher publishes to stream. The stream is trimmed approximately to
// maxLen entries; pass 0 to keep everything.
func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, event domain.WalletEvent) error {
	eventJSON, err := marshalEvent(event)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":  string(event.Type),
			"event": eventJSON,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client is shared and closed by its owner.
func (p *RedisStreamPublisher) Close() error { return nil }
