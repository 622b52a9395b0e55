package services

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// ReportingService defines operations for generating trial balances
type ReportingService interface {
	// GenerateTrialBalance lists every account's balance as of a date, or over all history when asOf is nil.
	GenerateTrialBalance(ctx context.Context, tenantID string, asOf *time.Time) (*domain.TrialBalance, error)

	// GenerateTrialBalanceForPeriod resolves a period label of year to its end date and generates the trial balance.
	GenerateTrialBalanceForPeriod(ctx context.Context, tenantID string, year int, periodLabel string) (*domain.TrialBalance, error)
}

// StatementService defines per-filer statement generation
type StatementService interface {
	// GenerateFilerStatement builds the running-balance history of one filer. Nil bounds are open.
	GenerateFilerStatement(ctx context.Context, tenantID, filerID string, startDate, endDate *time.Time) (*domain.FilerStatement, error)
}
