package services

import (
	"context"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByEmail retrieves an account with its movements.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListMovements returns a page of the movement history of an account, newest first.
	ListMovements(ctx context.Context, email string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// Register creates a new account. The credential is hashed before anything is persisted.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)

	// UpdateAlias replaces the alias of the account identified by email and returns the stored alias.
	UpdateAlias(ctx context.Context, email string, newAlias string) (string, error)

	// SaveNotificationChannel overwrites the push token of an account and returns it.
	SaveNotificationChannel(ctx context.Context, email string, token string) (string, error)
}

// AccountAuthenticatorSvc defines credential checks for account data
type AccountAuthenticatorSvc interface {
	// Login verifies a raw credential against the stored hash.
	Login(ctx context.Context, email string, rawCredential string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountAuthenticatorSvc
}
