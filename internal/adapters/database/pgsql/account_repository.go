package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_wallet/internal/models"
	"github.com/SscSPs/pocket_wallet/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Constraint names from migrations/000001_create_accounts.up.sql.
const (
	uqAccountsEmail       = "uq_accounts_email"
	uqAccountsAlias       = "uq_accounts_alias"
	uqAccountsRoutingCode = "uq_accounts_routing_code"

	ckAccountsBalanceNonNegative = "ck_accounts_balance_non_negative"
)

const accountColumns = `account_id, display_name, alias, email, credential_hash, routing_code, balance, notification_channel, version, created_at, last_updated_at`

const movementColumns = `movement_id, account_id, kind, amount, description, transfer_id, counterparty, created_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.DisplayName,
		&m.Alias,
		&m.Email,
		&m.CredentialHash,
		&m.RoutingCode,
		&m.Balance,
		&m.NotificationChannel,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func scanMovements(rows pgx.Rows) ([]models.Movement, error) {
	defer rows.Close()
	var out []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(
			&m.MovementID,
			&m.AccountID,
			&m.Kind,
			&m.Amount,
			&m.Description,
			&m.TransferID,
			&m.Counterparty,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return out, nil
}

// SaveAccount inserts a new account and its opening movements in one transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		modelAcc.AccountID,
		modelAcc.DisplayName,
		modelAcc.Alias,
		modelAcc.Email,
		modelAcc.CredentialHash,
		modelAcc.RoutingCode,
		modelAcc.Balance,
		modelAcc.NotificationChannel,
		modelAcc.Version,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)
	for _, mv := range account.Movements {
		queueInsertMovement(batch, mapping.ToModelMovement(mv))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		mapped := translatePgError(err)
		if errors.Is(mapped, apperrors.ErrDuplicate) {
			if isConstraint(err, uqAccountsRoutingCode) {
				return fmt.Errorf("%w: %w", portsrepo.ErrRoutingCodeTaken, mapped)
			}
			return mapped
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}

	return r.Commit(ctx, tx)
}

func queueInsertMovement(batch *pgx.Batch, m models.Movement) *pgx.QueuedQuery {
	return batch.Queue(`
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.MovementID,
		m.AccountID,
		m.Kind,
		m.Amount,
		m.Description,
		m.TransferID,
		m.Counterparty,
		m.CreatedAt,
	)
}

func (r *PgxAccountRepository) findAccountWhere(ctx context.Context, column string, value string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + ` = $1;`
	modelAcc, err := scanAccount(r.Pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by %s: %w", column, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE account_id = $1
		ORDER BY created_at, movement_id;`, modelAcc.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for account %s: %w", modelAcc.AccountID, err)
	}
	movements, err := scanMovements(rows)
	if err != nil {
		return nil, err
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	domainAcc.Movements = mapping.ToDomainMovementSlice(movements)
	return &domainAcc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findAccountWhere(ctx, "account_id", accountID)
}

// FindAccountByEmail retrieves an account by its normalized email.
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findAccountWhere(ctx, "email", domain.NormalizeHandle(email))
}

// FindAccountByAlias retrieves an account by its normalized alias.
func (r *PgxAccountRepository) FindAccountByAlias(ctx context.Context, alias string) (*domain.Account, error) {
	return r.findAccountWhere(ctx, "alias", domain.NormalizeHandle(alias))
}

func (r *PgxAccountRepository) RoutingCodeExists(ctx context.Context, routingCode string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE routing_code = $1);`, routingCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check routing code: %w", err)
	}
	return exists, nil
}

// ListMovements returns movements newest first, continuing strictly after cursor.
func (r *PgxAccountRepository) ListMovements(ctx context.Context, accountID string, limit int, cursor *portsrepo.MovementCursor) ([]domain.Movement, error) {
	args := []any{accountID}
	query := `SELECT ` + movementColumns + ` FROM movements WHERE account_id = $1`
	if cursor != nil {
		query += ` AND (created_at, movement_id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.MovementID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, movement_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for account %s: %w", accountID, err)
	}
	movements, err := scanMovements(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainMovementSlice(movements), nil
}

func (r *PgxAccountRepository) ListBalanceDrifts(ctx context.Context) ([]portsrepo.BalanceDrift, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT a.account_id, a.email, a.balance, COALESCE(SUM(m.amount), 0) AS movement_total
		FROM accounts a
		LEFT JOIN movements m ON m.account_id = a.account_id
		GROUP BY a.account_id
		HAVING a.balance < 0 OR a.balance <> COALESCE(SUM(m.amount), 0)
		ORDER BY a.account_id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance drifts: %w", err)
	}
	defer rows.Close()

	var drifts []portsrepo.BalanceDrift
	for rows.Next() {
		var d portsrepo.BalanceDrift
		if err := rows.Scan(&d.AccountID, &d.Email, &d.Balance, &d.MovementTotal); err != nil {
			return nil, fmt.Errorf("failed to scan balance drift row: %w", err)
		}
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance drift rows: %w", err)
	}
	return drifts, nil
}

// UpdateAlias relies on uq_accounts_alias so the uniqueness check and the write are one statement.
func (r *PgxAccountRepository) UpdateAlias(ctx context.Context, accountID string, alias string, now time.Time) error {
	ct, err := r.Pool.Exec(ctx, `
		UPDATE accounts SET alias = $2, last_updated_at = $3
		WHERE account_id = $1;`, accountID, domain.NormalizeHandle(alias), now)
	if err != nil {
		if mapped := translatePgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update alias for account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateNotificationChannel(ctx context.Context, accountID string, token string, now time.Time) error {
	ct, err := r.Pool.Exec(ctx, `
		UPDATE accounts SET notification_channel = $2, last_updated_at = $3
		WHERE account_id = $1;`, accountID, token, now)
	if err != nil {
		return fmt.Errorf("failed to update notification channel for account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// WithinTx runs fn inside a pgx transaction. Row locks taken through the AccountTx are
// released on commit or rollback.
func (r *PgxAccountRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.AccountTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.WarnContext(ctx, "Rollback after failed unit of work returned an error", "error", rbErr)
		}
	}()

	if err := fn(ctx, &pgxAccountTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

type pgxAccountTx struct {
	tx     pgx.Tx
	locked map[string]bool
}

var _ portsrepo.AccountTx = (*pgxAccountTx)(nil)

// LockAccounts locks the rows with SELECT ... FOR UPDATE. ORDER BY account_id makes every
// unit of work acquire row locks in the same order.
func (t *pgxAccountTx) LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	if t.locked != nil {
		return nil, fmt.Errorf("%w: accounts already locked in this unit of work", apperrors.ErrInternal)
	}
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	rows, err := t.tx.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;`, ids)
	if err != nil {
		if mapped := translatePgError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to query accounts for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		modelAcc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[modelAcc.AccountID] = mapping.ToDomainAccount(modelAcc)
	}
	if err := rows.Err(); err != nil {
		if mapped := translatePgError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(ids) {
		missing := []string{}
		for _, id := range ids {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	t.locked = make(map[string]bool, len(ids))
	for _, id := range ids {
		t.locked[id] = true
	}
	return accountsMap, nil
}

// AppendMovement applies the balance delta and inserts the movement in one batch.
// The balance CHECK constraint rejects anything that would go negative.
func (t *pgxAccountTx) AppendMovement(ctx context.Context, accountID string, movement domain.Movement) (decimal.Decimal, error) {
	if !t.locked[accountID] {
		return decimal.Zero, fmt.Errorf("%w: account %s is not locked in this unit of work", apperrors.ErrInternal, accountID)
	}
	movement.AccountID = accountID
	if err := movement.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	var newBalance decimal.Decimal
	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE accounts
		SET balance = balance + $2, version = version + 1, last_updated_at = $3
		WHERE account_id = $1
		RETURNING balance;`, accountID, movement.Amount, movement.CreatedAt).
		QueryRow(func(row pgx.Row) error {
			return row.Scan(&newBalance)
		})
	queueInsertMovement(batch, mapping.ToModelMovement(movement))

	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		if mapped := translatePgError(err); mapped != err {
			return decimal.Zero, mapped
		}
		return decimal.Zero, fmt.Errorf("failed to append movement to account %s: %w", accountID, err)
	}
	return newBalance, nil
}
