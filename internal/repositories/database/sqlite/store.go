package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the embedded single-file ledger store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection serializes writers, which also serializes sequence reservation.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range LedgerMigrations() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration %d: %w", i, err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories returns the repository set backed by this store.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   &accountRepository{db: s.db},
		JournalRepo:   &journalRepository{db: s.db},
		ReportingRepo: &reportingRepository{db: s.db},
		AuditRepo:     &auditRepository{db: s.db},
		PaymentRepo:   &paymentRepository{db: s.db},
		RefundRepo:    &refundRepository{db: s.db},
		TxManager:     s,
	}
}

// WithinTransaction runs fn with repositories bound to a single transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newLedgerTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

var _ portsrepo.TransactionManager = (*Store)(nil)

type ledgerTx struct {
	*accountRepository
	*journalRepository
	*auditRepository
	*paymentRepository
	*refundRepository
}

func newLedgerTx(tx *sql.Tx) *ledgerTx {
	return &ledgerTx{
		accountRepository: &accountRepository{db: tx},
		journalRepository: &journalRepository{db: tx},
		auditRepository:   &auditRepository{db: tx},
		paymentRepository: &paymentRepository{db: tx},
		refundRepository:  &refundRepository{db: tx},
	}
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)
