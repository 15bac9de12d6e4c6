package mapping

import (
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/models"
)

// ToModelMovement converts a domain Movement to a model Movement
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:   d.MovementID,
		AccountID:    d.AccountID,
		Kind:         string(d.Kind),
		Amount:       d.Amount,
		Description:  d.Description,
		TransferID:   nullableString(d.TransferID),
		Counterparty: nullableString(d.Counterparty),
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainMovement converts a model Movement to a domain Movement
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:   m.MovementID,
		AccountID:    m.AccountID,
		Kind:         domain.MovementKind(m.Kind),
		Amount:       m.Amount,
		Description:  m.Description,
		TransferID:   stringValue(m.TransferID),
		Counterparty: stringValue(m.Counterparty),
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainMovementSlice converts a slice of model Movements to a slice of domain Movements
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
