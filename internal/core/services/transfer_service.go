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
	"github.com/SscSPs/pocket_wallet/internal/utils/accounting"
	"github.com/google/uuid"
)

const (
	// DefaultTransferMaxAttempts is how often a unit of work is retried on lock contention.
	DefaultTransferMaxAttempts = 3

	defaultSpendDescription = "Spend"
	retryBackoffStep        = 25 * time.Millisecond
)

// transferService moves money between accounts. Every balance change happens inside one
// unit of work that holds the locks of all touched accounts.
type transferService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	cache       ports.AccountCache
	notifier    portssvc.NotificationDispatcher
	maxAttempts int
	now         func() time.Time
}

// TransferServiceOption is a function that configures a transferService
type TransferServiceOption func(*transferService)

// WithTransferCache sets the account view cache invalidated after each commit.
func WithTransferCache(cache ports.AccountCache) TransferServiceOption {
	return func(s *transferService) {
		s.cache = cache
	}
}

// WithTransferNotifier sets the dispatcher for post-commit notifications and events.
func WithTransferNotifier(notifier portssvc.NotificationDispatcher) TransferServiceOption {
	return func(s *transferService) {
		s.notifier = notifier
	}
}

// WithMaxAttempts bounds retries on ErrConflict.
func WithMaxAttempts(n int) TransferServiceOption {
	return func(s *transferService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithTransferClock sets the time source for movements and receipts.
func WithTransferClock(now func() time.Time) TransferServiceOption {
	return func(s *transferService) {
		s.now = now
	}
}

// NewTransferService creates the transfer orchestrator.
func NewTransferService(accountRepo portsrepo.AccountRepositoryFacade, options ...TransferServiceOption) portssvc.TransferSvcFacade {
	svc := &transferService{
		accountRepo: accountRepo,
		maxAttempts: DefaultTransferMaxAttempts,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.TransferReceipt, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	fromEmail := domain.NormalizeHandle(req.FromEmail)
	toAlias := domain.NormalizeHandle(req.ToAlias)
	if fromEmail == "" || toAlias == "" {
		return nil, fmt.Errorf("%w: fromEmail and toAlias are required", apperrors.ErrValidation)
	}

	sender, err := s.resolve(ctx, s.accountRepo.FindAccountByEmail, fromEmail, "sender")
	if err != nil {
		return nil, err
	}
	receiver, err := s.resolve(ctx, s.accountRepo.FindAccountByAlias, toAlias, "receiver")
	if err != nil {
		return nil, err
	}
	if sender.AccountID == receiver.AccountID {
		return nil, fmt.Errorf("%w: cannot transfer to your own account", apperrors.ErrValidation)
	}

	transferID := uuid.NewString()
	logger := s.GetLogger(ctx).With(
		slog.String("transfer_id", transferID),
		slog.String("from_account_id", sender.AccountID),
		slog.String("to_account_id", receiver.AccountID),
	)

	var (
		receipt        *domain.TransferReceipt
		lockedReceiver domain.Account
	)
	err = s.withRetry(ctx, logger, func(ctx context.Context, tx portsrepo.AccountTx) error {
		locked, err := tx.LockAccounts(ctx, sender.AccountID, receiver.AccountID)
		if err != nil {
			return err
		}
		from, to := locked[sender.AccountID], locked[receiver.AccountID]
		if !from.CanDebit(req.Amount) {
			return fmt.Errorf("%w: balance %s cannot cover %s", apperrors.ErrInsufficientFunds,
				utils.FormatMoney(from.Balance), utils.FormatMoney(req.Amount))
		}

		now := s.now().UTC()
		out := domain.Movement{
			MovementID:   uuid.NewString(),
			Kind:         domain.MovementTransferOut,
			Amount:       req.Amount.Neg(),
			Description:  describe(req.Description, "Transfer to @"+to.Alias),
			TransferID:   transferID,
			Counterparty: to.Alias,
			CreatedAt:    now,
		}
		in := domain.Movement{
			MovementID:   uuid.NewString(),
			Kind:         domain.MovementTransferIn,
			Amount:       req.Amount,
			Description:  describe(req.Description, "Transfer from @"+from.Alias),
			TransferID:   transferID,
			Counterparty: from.Alias,
			CreatedAt:    now,
		}
		if err := accounting.ValidateTransferLegs(out, in); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
		}

		senderBalance, err := tx.AppendMovement(ctx, from.AccountID, out)
		if err != nil {
			return err
		}
		receiverBalance, err := tx.AppendMovement(ctx, to.AccountID, in)
		if err != nil {
			return err
		}

		to.Balance = receiverBalance
		lockedReceiver = to
		receipt = &domain.TransferReceipt{
			TransferID:  transferID,
			FromAlias:   from.Alias,
			ToAlias:     to.Alias,
			Amount:      req.Amount,
			Description: out.Description,
			Balance:     senderBalance,
			State:       domain.TransferCredited,
			CreatedAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, s.reportFailure(ctx, logger, err, "Transfer failed")
	}

	logger.Info("Transfer committed", slog.String("amount", utils.FormatMoney(req.Amount)))

	s.invalidate(ctx, sender.Email, receiver.Email)
	if s.notifier != nil {
		s.notifier.NotifyTransferReceived(ctx, lockedReceiver, req.Amount, receipt.FromAlias)
		s.notifier.PublishEvent(ctx, domain.WalletEvent{
			EventID:    uuid.NewString(),
			Type:       domain.EventTransferCompleted,
			AccountID:  sender.AccountID,
			OccurredAt: receipt.CreatedAt,
			Data: map[string]string{
				"transferID":    transferID,
				"fromAccountID": sender.AccountID,
				"toAccountID":   receiver.AccountID,
				"amount":        utils.FormatMoney(req.Amount),
			},
		})
	}
	return receipt, nil
}

func (s *transferService) Spend(ctx context.Context, req dto.SpendRequest) (*domain.SpendReceipt, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	email := domain.NormalizeHandle(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	account, err := s.resolve(ctx, s.accountRepo.FindAccountByEmail, email, "account")
	if err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(slog.String("account_id", account.AccountID))

	var receipt *domain.SpendReceipt
	err = s.withRetry(ctx, logger, func(ctx context.Context, tx portsrepo.AccountTx) error {
		locked, err := tx.LockAccounts(ctx, account.AccountID)
		if err != nil {
			return err
		}
		current := locked[account.AccountID]
		if !current.CanDebit(req.Amount) {
			return fmt.Errorf("%w: balance %s cannot cover %s", apperrors.ErrInsufficientFunds,
				utils.FormatMoney(current.Balance), utils.FormatMoney(req.Amount))
		}

		debit := domain.Movement{
			MovementID:  uuid.NewString(),
			Kind:        domain.MovementDebit,
			Amount:      req.Amount.Neg(),
			Description: describe(req.Description, defaultSpendDescription),
			CreatedAt:   s.now().UTC(),
		}
		balance, err := tx.AppendMovement(ctx, current.AccountID, debit)
		if err != nil {
			return err
		}
		receipt = &domain.SpendReceipt{
			MovementID:  debit.MovementID,
			Amount:      req.Amount,
			Description: debit.Description,
			Balance:     balance,
			CreatedAt:   debit.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, s.reportFailure(ctx, logger, err, "Spend failed")
	}

	logger.Info("Spend committed", slog.String("amount", utils.FormatMoney(req.Amount)))

	s.invalidate(ctx, account.Email)
	if s.notifier != nil {
		s.notifier.PublishEvent(ctx, domain.WalletEvent{
			EventID:    uuid.NewString(),
			Type:       domain.EventSpendRecorded,
			AccountID:  account.AccountID,
			OccurredAt: receipt.CreatedAt,
			Data: map[string]string{
				"movementID": receipt.MovementID,
				"amount":     utils.FormatMoney(req.Amount),
			},
		})
	}
	return receipt, nil
}

// resolve loads an account and names the missing party in the not-found error.
func (s *transferService) resolve(ctx context.Context, find func(context.Context, string) (*domain.Account, error), key string, role string) (*domain.Account, error) {
	account, err := find(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s account not found", apperrors.ErrNotFound, role)
		}
		s.LogError(ctx, err, "Failed to resolve account", slog.String("role", role))
		return nil, fmt.Errorf("failed to load %s account: %w", role, err)
	}
	return account, nil
}

// withRetry runs fn in a unit of work and repeats it while the store reports lock contention.
// Nothing from a failed attempt is visible, so repeating is safe.
func (s *transferService) withRetry(ctx context.Context, logger *slog.Logger, fn func(ctx context.Context, tx portsrepo.AccountTx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.accountRepo.WithinTx(ctx, fn)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) || attempt == s.maxAttempts {
			return err
		}
		logger.Debug("Unit of work hit contention, retrying", slog.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", apperrors.ErrConflict, ctx.Err())
		case <-time.After(time.Duration(attempt) * retryBackoffStep):
		}
	}
	return err
}

func (s *transferService) reportFailure(ctx context.Context, logger *slog.Logger, err error, msg string) error {
	if apperrors.IsClientError(err) {
		logger.Warn(msg, slog.String("error", err.Error()))
		return err
	}
	logger.Error(msg, slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
}

func (s *transferService) invalidate(ctx context.Context, emails ...string) {
	if s.cache != nil {
		s.cache.Delete(ctx, emails...)
	}
}

func describe(description, fallback string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return fallback
}
