package ports

import (
	"context"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
)

// Note: these are the outbound collaborators that sit next to the Account Store.
// Every call may block on the network, so all of them take a context.

// PushTransport delivers a push notification to one device channel.
type PushTransport interface {
	Send(ctx context.Context, msg domain.PushMessage) error
}

// EventPublisher hands a wallet event to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.WalletEvent) error
	Close() error
}

// AccountCache stores public account views keyed by normalized email.
// Implementations treat every failure as a miss.
type AccountCache interface {
	Get(ctx context.Context, email string) (*domain.Account, bool)
	Set(ctx context.Context, email string, account *domain.Account)
	Delete(ctx context.Context, emails ...string)
}
