package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/SscSPs/pocket_wallet/internal/platform/config"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"google.golang.org/api/idtoken"
)

// authService is the gate in front of the account service: it rejects malformed credential
// requests before any lookup and turns a successful login into a session token.
type authService struct {
	BaseService
	accounts portssvc.AccountSvcFacade
	tokens   portssvc.TokenSvcFacade
	google   portssvc.GoogleIDTokenSvc
}

// NewAuthService creates the auth gate. google may be nil when Google sign-in is not configured.
func NewAuthService(accounts portssvc.AccountSvcFacade, tokens portssvc.TokenSvcFacade, google portssvc.GoogleIDTokenSvc) portssvc.AuthSvcFacade {
	return &authService{accounts: accounts, tokens: tokens, google: google}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	if err := validateStruct(req); err != nil {
		s.LogDebug(ctx, "Registration rejected by auth gate", slog.String("error", err.Error()))
		return nil, err
	}
	return s.accounts.Register(ctx, req)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		s.LogDebug(ctx, "Login rejected by auth gate", slog.String("error", err.Error()))
		return nil, err
	}

	account, err := s.accounts.Login(ctx, req.Email, req.Credential)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, account)
}

func (s *authService) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if s.google == nil {
		return nil, fmt.Errorf("%w: google sign-in is not configured", apperrors.ErrUnauthorized)
	}

	payload, err := s.google.ValidateGoogleIDToken(ctx, req.IDToken)
	if err != nil {
		s.LogWarn(ctx, err, "Google ID token rejected")
		return nil, fmt.Errorf("%w: invalid google id token", apperrors.ErrUnauthorized)
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, fmt.Errorf("%w: google account has no verified email", apperrors.ErrUnauthorized)
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, account)
}

func (s *authService) issue(ctx context.Context, account *domain.Account) (*dto.LoginResponse, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("%w: failed to issue access token", apperrors.ErrInternal)
	}
	return &dto.LoginResponse{
		AccountResponse: dto.ToAccountResponse(account),
		AccessToken:     token,
		ExpiresAt:       expiresAt,
	}, nil
}

// tokenService implements the TokenSvcFacade for issuing JWT access tokens.
type tokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, now: time.Now}
}

// GenerateAccessToken creates a new JWT access token for the given account.
func (s *tokenService) GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error) {
	return utils.GenerateJWT(account.Email, account.AccountID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.now())
}

// googleIDTokenService validates ID tokens obtained by clients through Google sign-in.
type googleIDTokenService struct {
	clientID string
}

// NewGoogleIDTokenService returns nil when no client ID is configured.
func NewGoogleIDTokenService(clientID string) portssvc.GoogleIDTokenSvc {
	if clientID == "" {
		return nil
	}
	return &googleIDTokenService{clientID: clientID}
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleIDTokenService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}
