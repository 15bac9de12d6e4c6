package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrRoutingCodeTaken is wrapped together with apperrors.ErrDuplicate when an insert
// collides on the routing code, so the caller can regenerate and retry.
var ErrRoutingCodeTaken = errors.New("routing code already assigned")

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account (with its movements) by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by normalized email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindAccountByAlias retrieves an account by normalized alias.
	FindAccountByAlias(ctx context.Context, alias string) (*domain.Account, error)

	// RoutingCodeExists reports whether a routing code is already assigned.
	RoutingCodeExists(ctx context.Context, routingCode string) (bool, error)

	// ListMovements returns up to limit movements of an account, newest first,
	// strictly older than the cursor when one is given.
	ListMovements(ctx context.Context, accountID string, limit int, cursor *MovementCursor) ([]domain.Movement, error)

	// ListBalanceDrifts returns every account whose balance is negative or differs
	// from the sum of its movements.
	ListBalanceDrifts(ctx context.Context) ([]BalanceDrift, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account together with its initial movements.
	// Unique violations are reported as apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAlias atomically sets a new alias; fails with apperrors.ErrDuplicate if another
	// account holds it.
	UpdateAlias(ctx context.Context, accountID string, alias string, now time.Time) error

	// UpdateNotificationChannel overwrites the push token of an account.
	UpdateNotificationChannel(ctx context.Context, accountID string, token string, now time.Time) error
}

// AccountTx is the set of balance operations available inside a unit of work.
// Changes become visible only if the surrounding WithinTx call commits.
type AccountTx interface {
	// LockAccounts acquires exclusive locks on all given accounts, in ascending ID order,
	// and returns their current state. It may be called once per unit of work.
	LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error)

	// AppendMovement adds movement.Amount to the balance of a locked account, records the
	// movement and returns the resulting balance.
	AppendMovement(ctx context.Context, accountID string, movement domain.Movement) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	UnitOfWork
}

// MovementCursor marks the position after which a movement listing continues.
type MovementCursor struct {
	CreatedAt  time.Time
	MovementID string
}

// BalanceDrift describes an account that violates the balance audit property.
type BalanceDrift struct {
	AccountID     string          `json:"accountID"`
	Email         string          `json:"email"`
	Balance       decimal.Decimal `json:"balance"`
	MovementTotal decimal.Decimal `json:"movementTotal"`
}
