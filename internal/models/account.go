package models

import (
	"github.com/shopspring/decimal"
)

// Account is the persisted row of a wallet account.
type Account struct {
	AccountID           string          `db:"account_id"`
	DisplayName         string          `db:"display_name"`
	Alias               string          `db:"alias"`
	Email               string          `db:"email"`
	CredentialHash      string          `db:"credential_hash"`
	RoutingCode         string          `db:"routing_code"`
	Balance             decimal.Decimal `db:"balance"`
	NotificationChannel *string         `db:"notification_channel"` // Nullable
	Version             int64           `db:"version"`
	AuditFields
}
