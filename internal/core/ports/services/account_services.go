package services

import (
	"context"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations on the chart of accounts
type AccountReaderSvc interface {
	// LookupAccount retrieves an account by number within a tenant.
	LookupAccount(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves the tenant's chart of accounts.
	ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations on the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount adds an account to the tenant's chart.
	CreateAccount(ctx context.Context, tenantID string, def domain.ChartAccount, actor string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive. Accounts are never deleted.
	DeactivateAccount(ctx context.Context, tenantID, accountNumber, actor string) (*domain.Account, error)

	// SeedChart creates every account of chart that the tenant does not have yet and returns the created ones.
	SeedChart(ctx context.Context, tenantID string, chart []domain.ChartAccount, actor string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
