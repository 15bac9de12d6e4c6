package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// AccountRepository is an in-process implementation of portsrepo.AccountRepositoryFacade.
// mu guards the maps; balance mutations additionally hold the per-account lock of every
// account they touch, acquired in ascending ID order.
type AccountRepository struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.Account
	byEmail   map[string]string
	byAlias   map[string]string
	byRouting map[string]string

	locks *keyedMutex
}

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:  make(map[string]*domain.Account),
		byEmail:   make(map[string]string),
		byAlias:   make(map[string]string),
		byRouting: make(map[string]string),
		locks:     newKeyedMutex(),
	}
}

// Compile-time check: ensure AccountRepository implements the repository facade
var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{AccountRepo: NewAccountRepository()}
}

// cloneAccount returns a deep copy so callers can never mutate stored state.
func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Movements = slices.Clone(a.Movements)
	return &c
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	account.Email = domain.NormalizeHandle(account.Email)
	account.Alias = domain.NormalizeHandle(account.Alias)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, exists := r.byEmail[account.Email]; exists {
		return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}
	if _, exists := r.byAlias[account.Alias]; exists {
		return fmt.Errorf("%w: alias already taken", apperrors.ErrDuplicate)
	}
	if _, exists := r.byRouting[account.RoutingCode]; exists {
		return fmt.Errorf("%w: %w", portsrepo.ErrRoutingCodeTaken, apperrors.ErrDuplicate)
	}

	r.accounts[account.AccountID] = cloneAccount(&account)
	r.byEmail[account.Email] = account.AccountID
	r.byAlias[account.Alias] = account.AccountID
	r.byRouting[account.RoutingCode] = account.AccountID
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneAccount(acc), nil
}

func (r *AccountRepository) findByIndex(index map[string]string, key string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[domain.NormalizeHandle(key)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneAccount(r.accounts[id]), nil
}

func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findByIndex(r.byEmail, email)
}

func (r *AccountRepository) FindAccountByAlias(ctx context.Context, alias string) (*domain.Account, error) {
	return r.findByIndex(r.byAlias, alias)
}

func (r *AccountRepository) RoutingCodeExists(ctx context.Context, routingCode string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.byRouting[routingCode]
	return exists, nil
}

// ListMovements returns movements newest first. Ties on CreatedAt are broken by MovementID
// descending, matching the Postgres ordering.
func (r *AccountRepository) ListMovements(ctx context.Context, accountID string, limit int, cursor *portsrepo.MovementCursor) ([]domain.Movement, error) {
	r.mu.RLock()
	acc, ok := r.accounts[accountID]
	if !ok {
		r.mu.RUnlock()
		return nil, apperrors.ErrNotFound
	}
	movements := slices.Clone(acc.Movements)
	r.mu.RUnlock()

	slices.SortFunc(movements, func(a, b domain.Movement) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.MovementID > b.MovementID:
			return -1
		case a.MovementID < b.MovementID:
			return 1
		}
		return 0
	})

	out := make([]domain.Movement, 0, limit)
	for _, m := range movements {
		if cursor != nil && !isBefore(m, cursor) {
			continue
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func isBefore(m domain.Movement, cursor *portsrepo.MovementCursor) bool {
	if m.CreatedAt.Before(cursor.CreatedAt) {
		return true
	}
	return m.CreatedAt.Equal(cursor.CreatedAt) && m.MovementID < cursor.MovementID
}

func (r *AccountRepository) ListBalanceDrifts(ctx context.Context) ([]portsrepo.BalanceDrift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var drifts []portsrepo.BalanceDrift
	for _, acc := range r.accounts {
		total := acc.MovementTotal()
		if acc.Balance.IsNegative() || !acc.Balance.Equal(total) {
			drifts = append(drifts, portsrepo.BalanceDrift{
				AccountID:     acc.AccountID,
				Email:         acc.Email,
				Balance:       acc.Balance,
				MovementTotal: total,
			})
		}
	}
	slices.SortFunc(drifts, func(a, b portsrepo.BalanceDrift) int {
		switch {
		case a.AccountID < b.AccountID:
			return -1
		case a.AccountID > b.AccountID:
			return 1
		}
		return 0
	})
	return drifts, nil
}

// UpdateAlias checks and claims the alias under the store lock, so two concurrent renames
// to the same alias cannot both succeed.
func (r *AccountRepository) UpdateAlias(ctx context.Context, accountID string, alias string, now time.Time) error {
	alias = domain.NormalizeHandle(alias)

	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if owner, taken := r.byAlias[alias]; taken {
		if owner == accountID {
			return nil
		}
		return fmt.Errorf("%w: alias already taken", apperrors.ErrDuplicate)
	}

	delete(r.byAlias, acc.Alias)
	acc.Alias = alias
	acc.LastUpdatedAt = now
	r.byAlias[alias] = accountID
	return nil
}

func (r *AccountRepository) UpdateNotificationChannel(ctx context.Context, accountID string, token string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	acc.NotificationChannel = token
	acc.LastUpdatedAt = now
	return nil
}

// WithinTx stages every change on private copies of the locked accounts and publishes them
// under the store lock only when fn succeeds. Locks are held until after that publish.
func (r *AccountRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.AccountTx) error) error {
	tx := &memoryAccountTx{repo: r}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memoryAccountTx struct {
	repo     *AccountRepository
	lockedID []string
	staged   map[string]*stagedAccount
}

type stagedAccount struct {
	balance       decimal.Decimal
	version       int64
	lastUpdatedAt time.Time
	movements     []domain.Movement
}

var _ portsrepo.AccountTx = (*memoryAccountTx)(nil)

func (t *memoryAccountTx) LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	if t.staged != nil {
		return nil, fmt.Errorf("%w: accounts already locked in this unit of work", apperrors.ErrInternal)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for _, id := range ids {
		t.repo.locks.Lock(id)
		t.lockedID = append(t.lockedID, id)
	}

	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()

	out := make(map[string]domain.Account, len(ids))
	var missing []string
	for _, id := range ids {
		acc, ok := t.repo.accounts[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out[id] = *cloneAccount(acc)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	t.staged = make(map[string]*stagedAccount, len(ids))
	for id, acc := range out {
		t.staged[id] = &stagedAccount{balance: acc.Balance, version: acc.Version, lastUpdatedAt: acc.LastUpdatedAt}
	}
	return out, nil
}

func (t *memoryAccountTx) AppendMovement(ctx context.Context, accountID string, movement domain.Movement) (decimal.Decimal, error) {
	s, ok := t.staged[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: account %s is not locked in this unit of work", apperrors.ErrInternal, accountID)
	}
	movement.AccountID = accountID
	if err := movement.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	next := s.balance.Add(movement.Amount)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: balance %s cannot cover %s", apperrors.ErrInsufficientFunds, s.balance.String(), movement.Amount.Neg().String())
	}

	s.balance = next
	s.version++
	s.lastUpdatedAt = movement.CreatedAt
	s.movements = append(s.movements, movement)
	return next, nil
}

// commit only touches balance fields so it never overwrites a concurrent alias or
// channel update, which do not take the per-account lock.
func (t *memoryAccountTx) commit() {
	if len(t.staged) == 0 {
		return
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	for id, s := range t.staged {
		if len(s.movements) == 0 {
			continue
		}
		acc := t.repo.accounts[id]
		acc.Balance = s.balance
		acc.Version = s.version
		if s.lastUpdatedAt.After(acc.LastUpdatedAt) {
			acc.LastUpdatedAt = s.lastUpdatedAt
		}
		acc.Movements = append(acc.Movements, s.movements...)
	}
}

func (t *memoryAccountTx) release() {
	for i := len(t.lockedID) - 1; i >= 0; i-- {
		t.repo.locks.Unlock(t.lockedID[i])
	}
	t.lockedID = nil
}
