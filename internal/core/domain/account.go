package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoutingCodeLength is the number of digits in an account routing code.
const RoutingCodeLength = 22

// MinCredentialLength is the shortest raw credential accepted at registration.
const MinCredentialLength = 6

// Account represents a wallet owned by a single registered person.
// This is the primary representation used by services.
type Account struct {
	AccountID           string          `json:"accountID"`   // Primary Key (UUID)
	DisplayName         string          `json:"displayName"` // Free text
	Alias               string          `json:"alias"`       // Unique, normalized transfer handle
	Email               string          `json:"email"`       // Unique, normalized login handle
	CredentialHash      string          `json:"-"`           // bcrypt hash, never serialized
	RoutingCode         string          `json:"routingCode"` // 22 digits, immutable
	Balance             decimal.Decimal `json:"balance"`
	NotificationChannel string          `json:"notificationChannel,omitempty"` // Push token, optional
	Version             int64           `json:"version"`                       // Bumped on every balance mutation
	Movements           []Movement      `json:"movements,omitempty"`
	AuditFields
}

// NormalizeHandle trims and lower-cases an alias or email so uniqueness checks are
// case and whitespace insensitive.
func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HasNotificationChannel reports whether push delivery is possible for this account.
func (a *Account) HasNotificationChannel() bool {
	return strings.TrimSpace(a.NotificationChannel) != ""
}

// CanDebit reports whether amount can leave the account without a negative balance.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// MovementTotal sums the signed amounts of the loaded movements.
// For a fully loaded account it equals Balance.
func (a *Account) MovementTotal() decimal.Decimal {
	total := decimal.Zero
	for _, m := range a.Movements {
		total = total.Add(m.Amount)
	}
	return total
}
