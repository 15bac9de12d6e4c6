package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferState tracks how far a transfer has progressed.
// Only Validated (nothing written) and Credited/Notified are observable outside the orchestrator.
type TransferState string

const (
	TransferValidated TransferState = "VALIDATED"
	TransferDebited   TransferState = "DEBITED"
	TransferCredited  TransferState = "CREDITED"
	TransferNotified  TransferState = "NOTIFIED"
)

// TransferReceipt confirms a completed transfer from the sender's point of view.
type TransferReceipt struct {
	TransferID  string          `json:"transferID"`
	FromAlias   string          `json:"fromAlias"`
	ToAlias     string          `json:"toAlias"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"` // Sender balance after the transfer
	State       TransferState   `json:"state"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SpendReceipt confirms a recorded spend.
type SpendReceipt struct {
	MovementID  string          `json:"movementID"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}
