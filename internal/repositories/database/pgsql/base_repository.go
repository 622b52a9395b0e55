package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique constraint failures.
const pgUniqueViolation = "23505"

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx, so one repository type serves
// plain reads and transactional writes.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

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
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// WithinTransaction runs fn with repositories bound to a single transaction.
func (r *BaseRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			slog.Error("Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newPgxLedgerTx(tx)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// pgxLedgerTx groups the writers that share one open transaction.
type pgxLedgerTx struct {
	*PgxAccountRepository
	*PgxJournalRepository
	*PgxAuditRepository
	*PgxPaymentRepository
	*PgxRefundRepository
}

func newPgxLedgerTx(tx pgx.Tx) *pgxLedgerTx {
	return &pgxLedgerTx{
		PgxAccountRepository: newPgxAccountRepository(tx),
		PgxJournalRepository: newPgxJournalRepository(tx),
		PgxAuditRepository:   newPgxAuditRepository(tx),
		PgxPaymentRepository: newPgxPaymentRepository(tx),
		PgxRefundRepository:  newPgxRefundRepository(tx),
	}
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
