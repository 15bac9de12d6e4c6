package repositories

import (
	"context"
)

// UnitOfWork runs a function inside a single all-or-nothing transaction.
type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise. Errors returned by fn
	// are passed through unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx AccountTx) error) error
}
