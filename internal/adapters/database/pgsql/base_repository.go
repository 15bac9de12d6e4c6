package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres SQLSTATE codes translated at the repository boundary.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		if mapped := translatePgError(err); mapped != err {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// translatePgError maps constraint and contention failures onto the application error
// taxonomy. Errors it does not recognise are returned unchanged.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, uniqueFieldName(pgErr.ConstraintName))
	case pgCheckViolation:
		if pgErr.ConstraintName == ckAccountsBalanceNonNegative {
			return fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.ConstraintName)
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.Message)
	}
	return err
}

func uniqueFieldName(constraint string) string {
	switch constraint {
	case uqAccountsEmail:
		return "email already registered"
	case uqAccountsAlias:
		return "alias already taken"
	case uqAccountsRoutingCode:
		return "routing code already assigned"
	}
	return "unique value already exists"
}

func isConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == name
}
