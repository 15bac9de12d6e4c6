package services

import (
	"context"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/dto"
)

// TransferSvcFacade defines the balance-mutating operations.
type TransferSvcFacade interface {
	// Transfer moves money from the account identified by email to the account identified by alias.
	Transfer(ctx context.Context, req dto.TransferRequest) (*domain.TransferReceipt, error)

	// Spend records a debit on a single account.
	Spend(ctx context.Context, req dto.SpendRequest) (*domain.SpendReceipt, error)
}
