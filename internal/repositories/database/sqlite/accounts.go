package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
)

const accountColumns = `account_id, tenant_id, account_number, name, account_type, normal_balance,
	parent_account_id, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type accountRepository struct {
	db querier
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		acc                  domain.Account
		createdAt, updatedAt string
	)
	err := row.Scan(
		&acc.AccountID,
		&acc.TenantID,
		&acc.AccountNumber,
		&acc.Name,
		&acc.AccountType,
		&acc.NormalBalance,
		&acc.ParentAccountID,
		&acc.Description,
		&acc.IsActive,
		&createdAt,
		&acc.CreatedBy,
		&updatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return acc, err
	}
	if acc.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return acc, err
	}
	acc.LastUpdatedAt, err = parseTimestamp(updatedAt)
	return acc, err
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES (` + placeholders(13) + `)`
	_, err := r.db.ExecContext(ctx, query,
		account.AccountID,
		account.TenantID,
		account.AccountNumber,
		account.Name,
		string(account.AccountType),
		string(account.NormalBalance),
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		formatTimestamp(account.CreatedAt),
		account.CreatedBy,
		formatTimestamp(account.LastUpdatedAt),
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s already exists in tenant %s", apperrors.ErrDuplicate, account.AccountNumber, account.TenantID)
		}
		return apperrors.NewAppError(500, "failed to save account "+account.AccountNumber, err)
	}
	return nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?`
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountByNumber(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = ? AND account_number = ?`
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, tenantID, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountNumber, err)
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountsByNumbers(ctx context.Context, tenantID string, accountNumbers []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountNumbers))
	if len(accountNumbers) == 0 {
		return accounts, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = ? AND account_number IN (` + placeholders(len(accountNumbers)) + `)`
	args := make([]any, 0, len(accountNumbers)+1)
	args = append(args, tenantID)
	for _, n := range accountNumbers {
		args = append(args, n)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by number", err)
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[acc.AccountNumber] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = ? AND (is_active = 1 OR ?) ORDER BY account_number`
	rows, err := r.db.QueryContext(ctx, query, tenantID, includeInactive)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

func (r *accountRepository) DeactivateAccount(ctx context.Context, accountID string, actor string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_active = 0, last_updated_at = ?, last_updated_by = ? WHERE account_id = ?`,
		formatTimestamp(now), actor, accountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
