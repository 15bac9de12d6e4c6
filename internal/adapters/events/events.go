// Package events contains the broker adapters that publish wallet events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
)

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

var _ ports.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(ctx context.Context, event domain.WalletEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }

func marshalEvent(event domain.WalletEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	return data, nil
}
