package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// accountService manages each tenant's chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txManager   portsrepo.TransactionManager
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountReader, txManager portsrepo.TransactionManager) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, txManager: txManager}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// LookupAccount retrieves an account by number within a tenant.
func (s *accountService) LookupAccount(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, tenantID, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up account",
				slog.String("tenant_id", tenantID),
				slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves the tenant's chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return accounts, nil
}

// CreateAccount adds one account to the tenant's chart.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, def domain.ChartAccount, actor string) (*domain.Account, error) {
	var created *domain.Account
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		created, err = s.createInTx(ctx, tx, tenantID, def, actor)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account",
			slog.String("tenant_id", tenantID),
			slog.String("account_number", def.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("tenant_id", tenantID),
		slog.String("account_id", created.AccountID),
		slog.String("account_number", created.AccountNumber))
	return created, nil
}

// SeedChart creates the accounts of chart the tenant does not have yet, in one transaction.
func (s *accountService) SeedChart(ctx context.Context, tenantID string, chart []domain.ChartAccount, actor string) ([]domain.Account, error) {
	created := make([]domain.Account, 0, len(chart))
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for _, def := range chart {
			_, err := tx.FindAccountByNumber(ctx, tenantID, def.Number)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			account, err := s.createInTx(ctx, tx, tenantID, def, actor)
			if err != nil {
				return err
			}
			created = append(created, *account)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Chart of accounts seeded",
		slog.String("tenant_id", tenantID),
		slog.Int("created", len(created)),
		slog.Int("requested", len(chart)))
	return created, nil
}

func (s *accountService) createInTx(ctx context.Context, tx portsrepo.LedgerTx, tenantID string, def domain.ChartAccount, actor string) (*domain.Account, error) {
	if err := validateChartAccount(tenantID, def, actor); err != nil {
		return nil, err
	}

	normal := def.NormalBalance
	if normal == "" {
		normal = def.Type.DefaultNormalBalance()
	}

	var parentID *string
	if def.Parent != "" {
		parent, err := tx.FindAccountByNumber(ctx, tenantID, def.Parent)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist in tenant", apperrors.ErrValidation, def.Parent)
			}
			return nil, err
		}
		parentID = &parent.AccountID
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		AccountNumber:   def.Number,
		Name:            def.Name,
		AccountType:     def.Type,
		NormalBalance:   normal,
		ParentAccountID: parentID,
		Description:     def.Description,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actor, now),
	}
	if err := tx.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	audit := newAuditLog(tenantID, account.AccountID, domain.EntityAccount, domain.ActionCreate, actor, now,
		fmt.Sprintf("created account %s %s (%s, %s normal)", account.AccountNumber, account.Name, account.AccountType, account.NormalBalance))
	if err := tx.AppendAudit(ctx, audit); err != nil {
		return nil, err
	}
	return &account, nil
}

func validateChartAccount(tenantID string, def domain.ChartAccount, actor string) error {
	switch {
	case strings.TrimSpace(tenantID) == "":
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTenantMissing)
	case strings.TrimSpace(actor) == "":
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrActorMissing)
	case strings.TrimSpace(def.Number) == "":
		return fmt.Errorf("%w: account number is required", apperrors.ErrValidation)
	case strings.TrimSpace(def.Name) == "":
		return fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	case !def.Type.IsValid():
		return fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, def.Type)
	case def.NormalBalance != "" && !def.NormalBalance.IsValid():
		return fmt.Errorf("%w: invalid normal balance %q", apperrors.ErrValidation, def.NormalBalance)
	case def.Parent == def.Number:
		return fmt.Errorf("%w: account %s cannot be its own parent", apperrors.ErrValidation, def.Number)
	}
	return nil
}

// DeactivateAccount marks an account inactive so no new lines can reference it.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountNumber, actor string) (*domain.Account, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrActorMissing)
	}

	var account *domain.Account
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		account, err = tx.FindAccountByNumber(ctx, tenantID, accountNumber)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return nil
		}

		now := s.Now()
		if err := tx.DeactivateAccount(ctx, account.AccountID, actor, now); err != nil {
			return err
		}
		account.IsActive = false
		account.LastUpdatedAt = now
		account.LastUpdatedBy = actor

		oldValue, newValue := "active", "inactive"
		audit := newAuditLog(tenantID, account.AccountID, domain.EntityAccount, domain.ActionUpdate, actor, now,
			fmt.Sprintf("deactivated account %s", account.AccountNumber))
		audit.OldValue = &oldValue
		audit.NewValue = &newValue
		return tx.AppendAudit(ctx, audit)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("tenant_id", tenantID),
			slog.String("account_number", accountNumber))
		return nil, err
	}
	return account, nil
}
