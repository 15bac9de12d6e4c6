package services

import (
	"context"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NotificationDispatcher delivers post-commit side effects without blocking the caller.
// None of its methods report delivery failures.
type NotificationDispatcher interface {
	// NotifyTransferReceived pushes a transfer-received message to the receiver's device, if any.
	NotifyTransferReceived(ctx context.Context, receiver domain.Account, amount decimal.Decimal, senderAlias string)

	// PublishEvent hands an event to the configured broker.
	PublishEvent(ctx context.Context, event domain.WalletEvent)

	// Close stops accepting work and waits for queued jobs until ctx is done.
	Close(ctx context.Context) error
}
