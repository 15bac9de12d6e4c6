package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is the persisted row of one ledger entry. Rows are never updated.
type Movement struct {
	MovementID   string          `db:"movement_id"`
	AccountID    string          `db:"account_id"`
	Kind         string          `db:"kind"`
	Amount       decimal.Decimal `db:"amount"` // Signed
	Description  string          `db:"description"`
	TransferID   *string         `db:"transfer_id"`  // Nullable
	Counterparty *string         `db:"counterparty"` // Nullable
	CreatedAt    time.Time       `db:"created_at"`
}
