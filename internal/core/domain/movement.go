package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies a balance change.
type MovementKind string

const (
	MovementCredit      MovementKind = "credit"
	MovementDebit       MovementKind = "debit"
	MovementTransferIn  MovementKind = "transfer-in"
	MovementTransferOut MovementKind = "transfer-out"
)

var (
	ErrUnknownMovementKind = errors.New("unknown movement kind")
	ErrMovementSign        = errors.New("movement amount sign does not match its kind")
)

// Valid reports whether k is one of the known kinds.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementCredit, MovementDebit, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

// IsOutflow reports whether the kind removes money from the account.
func (k MovementKind) IsOutflow() bool {
	return k == MovementDebit || k == MovementTransferOut
}

// Movement is one immutable ledger entry recording a balance change and its cause.
// Amount is signed: outflows are negative.
type Movement struct {
	MovementID   string          `json:"movementID"`
	AccountID    string          `json:"accountID"`
	Kind         MovementKind    `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	TransferID   string          `json:"transferID,omitempty"`   // Shared by both legs of a transfer
	Counterparty string          `json:"counterparty,omitempty"` // Alias on the other side of a transfer
	CreatedAt    time.Time       `json:"createdAt"`
}

// Validate checks the kind and that the sign of Amount agrees with it.
func (m Movement) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMovementKind, m.Kind)
	}
	if m.Amount.IsZero() {
		return fmt.Errorf("%w: amount is zero", ErrMovementSign)
	}
	if m.Kind.IsOutflow() != m.Amount.IsNegative() {
		return fmt.Errorf("%w: %s with amount %s", ErrMovementSign, m.Kind, m.Amount.String())
	}
	return nil
}
