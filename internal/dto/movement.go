package dto

import (
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementResponse defines the data returned for one ledger entry.
type MovementResponse struct {
	MovementID   string              `json:"movementID"`
	Kind         domain.MovementKind `json:"kind"`
	Amount       decimal.Decimal     `json:"amount"`
	Description  string              `json:"description"`
	TransferID   string              `json:"transferID,omitempty"`
	Counterparty string              `json:"counterparty,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// ListMovementsParams defines query parameters for listing movements.
type ListMovementsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListMovementsResponse wraps a page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken string             `json:"nextToken,omitempty"`
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:   m.MovementID,
		Kind:         m.Kind,
		Amount:       m.Amount,
		Description:  m.Description,
		TransferID:   m.TransferID,
		Counterparty: m.Counterparty,
		CreatedAt:    m.CreatedAt,
	}
}

// ToListMovementResponse converts a slice of domain.Movement to a slice of MovementResponse DTOs
func ToListMovementResponse(movements []domain.Movement) []MovementResponse {
	res := make([]MovementResponse, len(movements))
	for i := range movements {
		res[i] = ToMovementResponse(&movements[i])
	}
	return res
}
