package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountRepositoryTestSuite struct {
	suite.Suite
	repo *AccountRepository
	ctx  context.Context
	now  time.Time
}

func (s *AccountRepositoryTestSuite) SetupTest() {
	s.repo = NewAccountRepository()
	s.ctx = context.Background()
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *AccountRepositoryTestSuite) seed(id, alias, email string, balance int64) domain.Account {
	acc := domain.Account{
		AccountID:   id,
		DisplayName: alias,
		Alias:       alias,
		Email:       email,
		RoutingCode: fmt.Sprintf("%022s", id),
		Balance:     decimal.NewFromInt(balance),
		AuditFields: domain.AuditFields{CreatedAt: s.now, LastUpdatedAt: s.now},
	}
	if balance > 0 {
		acc.Movements = []domain.Movement{{
			MovementID:  id + "-seed",
			AccountID:   id,
			Kind:        domain.MovementCredit,
			Amount:      decimal.NewFromInt(balance),
			Description: "Opening balance",
			CreatedAt:   s.now,
		}}
	}
	s.Require().NoError(s.repo.SaveAccount(s.ctx, acc))
	return acc
}

func (s *AccountRepositoryTestSuite) debit(tx portsrepo.AccountTx, id string, amount int64, at time.Time) (decimal.Decimal, error) {
	return tx.AppendMovement(s.ctx, id, domain.Movement{
		MovementID: fmt.Sprintf("%s-%d", id, at.UnixNano()),
		Kind:       domain.MovementDebit,
		Amount:     decimal.NewFromInt(-amount),
		CreatedAt:  at,
	})
}

func (s *AccountRepositoryTestSuite) TestSaveAccount_UniqueFields() {
	s.seed("1", "ana", "ana@example.com", 0)

	err := s.repo.SaveAccount(s.ctx, domain.Account{AccountID: "2", Alias: "other", Email: "  ANA@example.com ", RoutingCode: "x2"})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	err = s.repo.SaveAccount(s.ctx, domain.Account{AccountID: "3", Alias: "Ana", Email: "b@example.com", RoutingCode: "x3"})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	err = s.repo.SaveAccount(s.ctx, domain.Account{AccountID: "4", Alias: "c", Email: "c@example.com", RoutingCode: fmt.Sprintf("%022s", "1")})
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.ErrorIs(err, portsrepo.ErrRoutingCodeTaken)
}

func (s *AccountRepositoryTestSuite) TestFindReturnsCopies() {
	s.seed("1", "ana", "ana@example.com", 100)

	acc, err := s.repo.FindAccountByEmail(s.ctx, "ANA@EXAMPLE.COM")
	s.Require().NoError(err)
	acc.Balance = decimal.NewFromInt(1)
	acc.Movements[0].Amount = decimal.NewFromInt(1)

	again, err := s.repo.FindAccountByAlias(s.ctx, " ana ")
	s.Require().NoError(err)
	s.True(again.Balance.Equal(decimal.NewFromInt(100)))
	s.True(again.Movements[0].Amount.Equal(decimal.NewFromInt(100)))

	_, err = s.repo.FindAccountByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountRepositoryTestSuite) TestWithinTx_CommitsOnSuccess() {
	s.seed("a", "ana", "ana@example.com", 4500)
	s.seed("b", "bob", "bob@example.com", 0)

	err := s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
		locked, err := tx.LockAccounts(ctx, "b", "a")
		s.Require().NoError(err)
		s.Len(locked, 2)

		bal, err := tx.AppendMovement(ctx, "a", domain.Movement{MovementID: "out", Kind: domain.MovementTransferOut, Amount: decimal.NewFromInt(-1000), TransferID: "t1", CreatedAt: s.now})
		s.Require().NoError(err)
		s.True(bal.Equal(decimal.NewFromInt(3500)))

		_, err = tx.AppendMovement(ctx, "b", domain.Movement{MovementID: "in", Kind: domain.MovementTransferIn, Amount: decimal.NewFromInt(1000), TransferID: "t1", CreatedAt: s.now})
		return err
	})
	s.Require().NoError(err)

	a, _ := s.repo.FindAccountByID(s.ctx, "a")
	b, _ := s.repo.FindAccountByID(s.ctx, "b")
	s.True(a.Balance.Equal(decimal.NewFromInt(3500)))
	s.True(b.Balance.Equal(decimal.NewFromInt(1000)))
	s.Equal(int64(1), a.Version)
	s.True(a.Balance.Equal(a.MovementTotal()))
	s.True(b.Balance.Equal(b.MovementTotal()))
}

func (s *AccountRepositoryTestSuite) TestWithinTx_RollsBackOnError() {
	s.seed("a", "ana", "ana@example.com", 4500)
	s.seed("b", "bob", "bob@example.com", 0)

	boom := fmt.Errorf("receiver write failed")
	err := s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
		_, err := tx.LockAccounts(ctx, "a", "b")
		s.Require().NoError(err)
		_, err = s.debit(tx, "a", 1000, s.now)
		s.Require().NoError(err)
		return boom
	})
	s.ErrorIs(err, boom)

	a, _ := s.repo.FindAccountByID(s.ctx, "a")
	s.True(a.Balance.Equal(decimal.NewFromInt(4500)))
	s.Len(a.Movements, 1)
}

func (s *AccountRepositoryTestSuite) TestAppendMovement_Guards() {
	s.seed("a", "ana", "ana@example.com", 100)

	err := s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
		_, err := s.debit(tx, "a", 10, s.now)
		s.ErrorIs(err, apperrors.ErrInternal, "unlocked account must be rejected")

		_, err = tx.LockAccounts(ctx, "a")
		s.Require().NoError(err)

		_, err = s.debit(tx, "a", 150, s.now)
		s.ErrorIs(err, apperrors.ErrInsufficientFunds)

		_, err = tx.AppendMovement(ctx, "a", domain.Movement{MovementID: "bad", Kind: domain.MovementDebit, Amount: decimal.NewFromInt(5), CreatedAt: s.now})
		s.ErrorIs(err, apperrors.ErrValidation)
		return nil
	})
	s.NoError(err)

	a, _ := s.repo.FindAccountByID(s.ctx, "a")
	s.True(a.Balance.Equal(decimal.NewFromInt(100)))
}

func (s *AccountRepositoryTestSuite) TestLockAccounts_Missing() {
	s.seed("a", "ana", "ana@example.com", 100)
	err := s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
		_, err := tx.LockAccounts(ctx, "a", "ghost")
		return err
	})
	s.ErrorIs(err, apperrors.ErrNotFound)

	// Locks from the failed unit of work must be released.
	done := make(chan struct{})
	go func() {
		_ = s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
			_, err := tx.LockAccounts(ctx, "a")
			return err
		})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("lock on account a was not released")
	}
}

func (s *AccountRepositoryTestSuite) TestConcurrentDebitsNeverOverdraw() {
	s.seed("a", "ana", "ana@example.com", 1000)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
				if _, err := tx.LockAccounts(ctx, "a"); err != nil {
					return err
				}
				_, err := tx.AppendMovement(ctx, "a", domain.Movement{
					MovementID: fmt.Sprintf("d-%02d", i),
					Kind:       domain.MovementDebit,
					Amount:     decimal.NewFromInt(-300),
					CreatedAt:  s.now.Add(time.Duration(i) * time.Millisecond),
				})
				return err
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(s.T(), err, apperrors.ErrInsufficientFunds)
			}
		}(i)
	}
	wg.Wait()

	a, _ := s.repo.FindAccountByID(s.ctx, "a")
	s.Equal(3, succeeded)
	s.True(a.Balance.Equal(decimal.NewFromInt(100)))
	s.True(a.Balance.Equal(a.MovementTotal()))
}

func (s *AccountRepositoryTestSuite) TestUpdateAlias_ConcurrentClaims() {
	s.seed("a", "ana", "ana@example.com", 0)
	s.seed("b", "bob", "bob@example.com", 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = s.repo.UpdateAlias(s.ctx, id, "Winner", s.now)
		}(i, id)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, apperrors.ErrDuplicate)
			failures++
		}
	}
	s.Equal(1, failures)

	winner, err := s.repo.FindAccountByAlias(s.ctx, "winner")
	s.Require().NoError(err)
	_, err = s.repo.FindAccountByAlias(s.ctx, map[string]string{"a": "ana", "b": "bob"}[winner.AccountID])
	s.ErrorIs(err, apperrors.ErrNotFound, "old alias must be released")
}

func (s *AccountRepositoryTestSuite) TestListMovements_Paginates() {
	s.seed("a", "ana", "ana@example.com", 1000)
	for i := 1; i <= 4; i++ {
		at := s.now.Add(time.Duration(i) * time.Minute)
		err := s.repo.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.AccountTx) error {
			if _, err := tx.LockAccounts(ctx, "a"); err != nil {
				return err
			}
			_, err := s.debit(tx, "a", 10, at)
			return err
		})
		s.Require().NoError(err)
	}

	page, err := s.repo.ListMovements(s.ctx, "a", 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.True(page[0].CreatedAt.After(page[1].CreatedAt))

	last := page[1]
	next, err := s.repo.ListMovements(s.ctx, "a", 10, &portsrepo.MovementCursor{CreatedAt: last.CreatedAt, MovementID: last.MovementID})
	s.Require().NoError(err)
	s.Len(next, 3, "two older debits plus the opening credit")
	s.Equal(domain.MovementCredit, next[2].Kind)
}

func (s *AccountRepositoryTestSuite) TestListBalanceDrifts() {
	s.seed("a", "ana", "ana@example.com", 100)
	drifts, err := s.repo.ListBalanceDrifts(s.ctx)
	s.Require().NoError(err)
	s.Empty(drifts)

	s.repo.accounts["a"].Balance = decimal.NewFromInt(90)
	drifts, err = s.repo.ListBalanceDrifts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(drifts, 1)
	s.Equal("a", drifts[0].AccountID)
	s.True(drifts[0].MovementTotal.Equal(decimal.NewFromInt(100)))
}

func TestAccountRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(AccountRepositoryTestSuite))
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	k.Lock("x")
	k.Lock("y")
	k.Unlock("x")
	k.Unlock("y")
	require.Empty(t, k.locks)
	assert.Panics(t, func() { k.Unlock("x") })
}
