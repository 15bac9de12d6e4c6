package services

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"google.golang.org/api/idtoken"
)

// AuthSvcFacade validates the shape of credential requests before delegating to the account service.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error)
}

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error)
}

// GoogleIDTokenSvc validates Google ID tokens.
type GoogleIDTokenSvc interface {
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
