package dto

import (
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the data needed to move money to another account.
type TransferRequest struct {
	FromEmail   string          `json:"fromEmail" binding:"required,handle_email"`
	ToAlias     string          `json:"toAlias" binding:"required"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"1000"`
	Description string          `json:"description" binding:"max=140"`
}

// SpendRequest defines the data needed to record a debit on one account.
type SpendRequest struct {
	Email       string          `json:"email" binding:"required,handle_email"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"150"`
	Description string          `json:"description" binding:"max=140"`
}

// TransferResponse confirms a transfer and reports the sender's resulting balance.
type TransferResponse struct {
	TransferID  string               `json:"transferID"`
	FromAlias   string               `json:"fromAlias"`
	ToAlias     string               `json:"toAlias"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	Balance     decimal.Decimal      `json:"balance"`
	State       domain.TransferState `json:"state"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// SpendResponse confirms a spend and reports the resulting balance.
type SpendResponse struct {
	MovementID  string          `json:"movementID"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func ToTransferResponse(r *domain.TransferReceipt) TransferResponse {
	return TransferResponse{
		TransferID:  r.TransferID,
		FromAlias:   r.FromAlias,
		ToAlias:     r.ToAlias,
		Amount:      r.Amount,
		Description: r.Description,
		Balance:     r.Balance,
		State:       r.State,
		CreatedAt:   r.CreatedAt,
	}
}

func ToSpendResponse(r *domain.SpendReceipt) SpendResponse {
	return SpendResponse{
		MovementID:  r.MovementID,
		Amount:      r.Amount,
		Description: r.Description,
		Balance:     r.Balance,
		CreatedAt:   r.CreatedAt,
	}
}
