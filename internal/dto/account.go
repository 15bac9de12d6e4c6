package dto

import (
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterRequest defines the data needed to open a new wallet account.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Alias      string `json:"alias" binding:"required,alias"`
	Email      string `json:"email" binding:"required,handle_email"`
	Credential string `json:"credential" binding:"required,min=6,max=72"`
}

// UpdateAliasRequest defines the data needed to rename the transfer handle of an account.
type UpdateAliasRequest struct {
	Email    string `json:"email" binding:"required,handle_email"`
	NewAlias string `json:"newAlias" binding:"required,alias"`
}

// UpdateAliasResponse carries the stored alias.
type UpdateAliasResponse struct {
	Alias string `json:"alias"`
}

// NotificationChannelRequest registers a push token for an account.
type NotificationChannelRequest struct {
	Email string `json:"email" binding:"required,handle_email"`
	Token string `json:"token" binding:"required"`
}

// NotificationChannelResponse carries the stored push token.
type NotificationChannelResponse struct {
	Token string `json:"token"`
}

// AccountResponse is the public projection of an account. It never carries the credential hash.
type AccountResponse struct {
	AccountID              string             `json:"accountID"`
	DisplayName            string             `json:"displayName"`
	Alias                  string             `json:"alias"`
	Email                  string             `json:"email"`
	RoutingCode            string             `json:"routingCode"`
	Balance                decimal.Decimal    `json:"balance"`
	HasNotificationChannel bool               `json:"hasNotificationChannel"`
	Movements              []MovementResponse `json:"movements"`
	CreatedAt              time.Time          `json:"createdAt"`
	LastUpdatedAt          time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:              acc.AccountID,
		DisplayName:            acc.DisplayName,
		Alias:                  acc.Alias,
		Email:                  acc.Email,
		RoutingCode:            acc.RoutingCode,
		Balance:                acc.Balance,
		HasNotificationChannel: acc.HasNotificationChannel(),
		Movements:              ToListMovementResponse(acc.Movements),
		CreatedAt:              acc.CreatedAt,
		LastUpdatedAt:          acc.LastUpdatedAt,
	}
}
