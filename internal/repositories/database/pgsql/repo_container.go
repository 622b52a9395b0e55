package pgsql

import (
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates and returns a provider with all repository implementations.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
		PaymentRepo:   newPgxPaymentRepository(dbPool),
		RefundRepo:    newPgxRefundRepository(dbPool),
		TxManager:     &BaseRepository{Pool: dbPool},
	}
}
