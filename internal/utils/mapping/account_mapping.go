package mapping

import (
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		DisplayName:         d.DisplayName,
		Alias:               d.Alias,
		Email:               d.Email,
		CredentialHash:      d.CredentialHash,
		RoutingCode:         d.RoutingCode,
		Balance:             d.Balance,
		NotificationChannel: nullableString(d.NotificationChannel),
		Version:             d.Version,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		DisplayName:         m.DisplayName,
		Alias:               m.Alias,
		Email:               m.Email,
		CredentialHash:      m.CredentialHash,
		RoutingCode:         m.RoutingCode,
		Balance:             m.Balance,
		NotificationChannel: stringValue(m.NotificationChannel),
		Version:             m.Version,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
