package push

import (
	"context"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
)

// NoopTransport drops every message. It is used when PUSH_PROVIDER is none.
type NoopTransport struct{}

var _ ports.PushTransport = NoopTransport{}

func (NoopTransport) Send(ctx context.Context, msg domain.PushMessage) error { return nil }
