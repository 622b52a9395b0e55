package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its number within a tenant.
	FindAccountByNumber(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error)

	// FindAccountsByNumbers retrieves the tenant's accounts for the given numbers, keyed by number.
	// Numbers with no account are simply absent from the map.
	FindAccountsByNumbers(ctx context.Context, tenantID string, accountNumbers []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every account of a tenant ordered by account number.
	ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate number within the tenant yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, actor string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
