package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/dto"
	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/SscSPs/pocket_wallet/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultInitialBalance is credited to every new account.
	DefaultInitialBalance = 4500

	defaultRoutingCodeAttempts = 5
	defaultMovementPageSize    = 20
	maxMovementPageSize        = 100
	openingBalanceDescription  = "Opening balance"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	cache       ports.AccountCache
	notifier    portssvc.NotificationDispatcher

	initialBalance      decimal.Decimal
	routingCodeAttempts int
	newRoutingCode      func() (string, error)
	now                 func() time.Time
}

// AccountServiceOption is a function that configures an accountService
type AccountServiceOption func(*accountService)

// WithAccountCache sets the cache used for account views.
func WithAccountCache(cache ports.AccountCache) AccountServiceOption {
	return func(s *accountService) {
		s.cache = cache
	}
}

// WithAccountNotifier sets the dispatcher that receives account events.
func WithAccountNotifier(notifier portssvc.NotificationDispatcher) AccountServiceOption {
	return func(s *accountService) {
		s.notifier = notifier
	}
}

// WithInitialBalance overrides the starting balance of new accounts.
func WithInitialBalance(amount decimal.Decimal) AccountServiceOption {
	return func(s *accountService) {
		s.initialBalance = amount
	}
}

// WithRoutingCodeGenerator replaces the random routing code source.
func WithRoutingCodeGenerator(gen func() (string, error)) AccountServiceOption {
	return func(s *accountService) {
		s.newRoutingCode = gen
	}
}

// WithRoutingCodeAttempts bounds how many routing codes registration tries before giving up.
func WithRoutingCodeAttempts(n int) AccountServiceOption {
	return func(s *accountService) {
		if n > 0 {
			s.routingCodeAttempts = n
		}
	}
}

// WithAccountClock sets the time source used for audit fields and movements.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new AccountService with the given repository and options
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:         accountRepo,
		initialBalance:      decimal.NewFromInt(DefaultInitialBalance),
		routingCodeAttempts: defaultRoutingCodeAttempts,
		newRoutingCode: func() (string, error) {
			return utils.GenerateNumericCode(domain.RoutingCodeLength)
		},
		now: time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// publicView returns a copy that is safe to hand out of the service.
func publicView(acc *domain.Account) *domain.Account {
	view := *acc
	view.CredentialHash = ""
	return &view
}

func (s *accountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	if err := validateStruct(req); err != nil {
		s.LogWarn(ctx, err, "Rejected registration request")
		return nil, err
	}

	email := domain.NormalizeHandle(req.Email)
	alias := domain.NormalizeHandle(req.Alias)

	if err := s.ensureUnclaimed(ctx, s.accountRepo.FindAccountByEmail, email, "email already registered"); err != nil {
		return nil, err
	}
	if err := s.ensureUnclaimed(ctx, s.accountRepo.FindAccountByAlias, alias, "alias already taken"); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Credential)
	if errors.Is(err, utils.ErrCredentialTooLong) {
		s.LogWarn(ctx, err, "Rejected registration request")
		return nil, fmt.Errorf("%w: credential must be at most %d bytes", apperrors.ErrValidation, utils.MaxCredentialBytes)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to hash credential")
		return nil, fmt.Errorf("%w: failed to derive credential hash", apperrors.ErrInternal)
	}

	now := s.now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		DisplayName:    strings.TrimSpace(req.Name),
		Alias:          alias,
		Email:          email,
		CredentialHash: hash,
		Balance:        s.initialBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if s.initialBalance.IsPositive() {
		account.Movements = []domain.Movement{{
			MovementID:  uuid.NewString(),
			AccountID:   account.AccountID,
			Kind:        domain.MovementCredit,
			Amount:      s.initialBalance,
			Description: openingBalanceDescription,
			CreatedAt:   now,
		}}
	}

	if err := s.saveWithRoutingCode(ctx, &account); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account registered", slog.String("account_id", account.AccountID), slog.String("alias", account.Alias))
	s.publish(ctx, domain.WalletEvent{
		EventID:    uuid.NewString(),
		Type:       domain.EventAccountRegistered,
		AccountID:  account.AccountID,
		OccurredAt: now,
		Data: map[string]string{
			"alias":          account.Alias,
			"initialBalance": utils.FormatMoney(account.Balance),
		},
	})

	return publicView(&account), nil
}

// ensureUnclaimed fails with a validation error when find locates an account for key.
func (s *accountService) ensureUnclaimed(ctx context.Context, find func(context.Context, string) (*domain.Account, error), key string, msg string) error {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, apperrors.ErrDuplicate, msg)
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		s.LogError(ctx, err, "Failed to check uniqueness during registration")
		return fmt.Errorf("failed to check uniqueness: %w", err)
	}
}

// saveWithRoutingCode assigns a fresh routing code and persists the account, drawing a new
// code whenever the previous one turns out to be taken.
func (s *accountService) saveWithRoutingCode(ctx context.Context, account *domain.Account) error {
	for attempt := 1; attempt <= s.routingCodeAttempts; attempt++ {
		code, err := s.newRoutingCode()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate routing code")
			return fmt.Errorf("%w: failed to generate routing code", apperrors.ErrInternal)
		}

		exists, err := s.accountRepo.RoutingCodeExists(ctx, code)
		if err != nil {
			s.LogError(ctx, err, "Failed to check routing code")
			return fmt.Errorf("failed to check routing code: %w", err)
		}
		if exists {
			s.LogDebug(ctx, "Routing code collision, regenerating", slog.Int("attempt", attempt))
			continue
		}

		account.RoutingCode = code
		err = s.accountRepo.SaveAccount(ctx, *account)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, portsrepo.ErrRoutingCodeTaken):
			s.LogDebug(ctx, "Routing code claimed concurrently, regenerating", slog.Int("attempt", attempt))
			continue
		case errors.Is(err, apperrors.ErrDuplicate):
			s.LogWarn(ctx, err, "Registration lost a uniqueness race", slog.String("alias", account.Alias))
			return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		default:
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
			return fmt.Errorf("failed to save account: %w", err)
		}
	}
	err := fmt.Errorf("%w: no free routing code after %d attempts", apperrors.ErrInternal, s.routingCodeAttempts)
	s.LogError(ctx, err, "Failed to allocate routing code")
	return err
}

func (s *accountService) Login(ctx context.Context, email string, rawCredential string) (*domain.Account, error) {
	email = domain.NormalizeHandle(email)
	if email == "" || rawCredential == "" {
		return nil, fmt.Errorf("%w: email and credential are required", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Login for unknown account")
			return nil, fmt.Errorf("%w: account not found", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to load account for login")
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !utils.CheckPasswordHash(rawCredential, account.CredentialHash) {
		s.LogWarn(ctx, apperrors.ErrUnauthorized, "Credential mismatch", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return publicView(account), nil
}

func (s *accountService) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email = domain.NormalizeHandle(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, email); ok {
			return cached, nil
		}
	}

	account, err := s.loadByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	view := publicView(account)
	if s.cache != nil {
		s.cache.Set(ctx, email, view)
	}
	return view, nil
}

// loadByEmail reads an account from the store and turns a miss into a client-facing not found.
func (s *accountService) loadByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account not found", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to load account")
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

func (s *accountService) UpdateAlias(ctx context.Context, email string, newAlias string) (string, error) {
	alias := domain.NormalizeHandle(newAlias)
	if !utils.IsValidAlias(alias) {
		return "", fmt.Errorf("%w: alias must be 3 to 32 letters, digits, '.', '_' or '-'", apperrors.ErrValidation)
	}

	email = domain.NormalizeHandle(email)
	account, err := s.loadByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	err = s.accountRepo.UpdateAlias(ctx, account.AccountID, alias, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			s.LogWarn(ctx, err, "Alias already taken", slog.String("account_id", account.AccountID))
			return "", fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		case errors.Is(err, apperrors.ErrNotFound):
			return "", fmt.Errorf("%w: account not found", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to update alias", slog.String("account_id", account.AccountID))
		return "", fmt.Errorf("failed to update alias: %w", err)
	}

	s.invalidate(ctx, email)
	s.LogInfo(ctx, "Alias updated", slog.String("account_id", account.AccountID), slog.String("alias", alias))
	return alias, nil
}

func (s *accountService) SaveNotificationChannel(ctx context.Context, email string, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: token is required", apperrors.ErrValidation)
	}

	email = domain.NormalizeHandle(email)
	account, err := s.loadByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := s.accountRepo.UpdateNotificationChannel(ctx, account.AccountID, token, s.now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: account not found", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to save notification channel", slog.String("account_id", account.AccountID))
		return "", fmt.Errorf("failed to save notification channel: %w", err)
	}

	s.invalidate(ctx, email)
	s.LogInfo(ctx, "Notification channel saved",
		slog.String("account_id", account.AccountID),
		slog.String("token_fingerprint", utils.Fingerprint(token)))
	return token, nil
}

func (s *accountService) ListMovements(ctx context.Context, email string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultMovementPageSize
	}
	if limit > maxMovementPageSize {
		limit = maxMovementPageSize
	}

	var cursor *portsrepo.MovementCursor
	if params.NextToken != "" {
		createdAt, movementID, err := pagination.DecodeMovementToken(params.NextToken)
		if err != nil {
			s.LogWarn(ctx, err, "Invalid movement page token")
			return nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		cursor = &portsrepo.MovementCursor{CreatedAt: createdAt, MovementID: movementID}
	}

	account, err := s.loadByEmail(ctx, domain.NormalizeHandle(email))
	if err != nil {
		return nil, err
	}

	// One extra row tells us whether another page exists.
	movements, err := s.accountRepo.ListMovements(ctx, account.AccountID, limit+1, cursor)
	if err != nil {
		s.LogError(ctx, err, "Failed to list movements", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	resp := &dto.ListMovementsResponse{}
	if len(movements) > limit {
		movements = movements[:limit]
		last := movements[limit-1]
		resp.NextToken = pagination.EncodeMovementToken(last.CreatedAt, last.MovementID)
	}
	resp.Movements = dto.ToListMovementResponse(movements)
	return resp, nil
}

func (s *accountService) invalidate(ctx context.Context, emails ...string) {
	if s.cache != nil {
		s.cache.Delete(ctx, emails...)
	}
}

func (s *accountService) publish(ctx context.Context, event domain.WalletEvent) {
	if s.notifier != nil {
		s.notifier.PublishEvent(ctx, event)
	}
}
