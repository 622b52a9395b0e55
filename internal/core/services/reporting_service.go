package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the clock used to stamp generated reports.
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GenerateTrialBalance lists every account of the tenant with its balance as of a date.
func (s *reportingService) GenerateTrialBalance(ctx context.Context, tenantID string, asOf *time.Time) (*domain.TrialBalance, error) {
	if asOf != nil {
		d := domain.DateOnly(*asOf)
		asOf = &d
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for trial balance", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	activity, err := s.reportingRepo.SumActivityByAccount(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := &domain.TrialBalance{
		TenantID:       tenantID,
		AsOf:           asOf,
		Accounts:       make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebits:    decimal.Zero,
		TotalCredits:   decimal.Zero,
		AccountsByType: make(map[domain.AccountType][]domain.TrialBalanceRow, len(domain.AccountTypes)),
		TotalsByType:   make(map[domain.AccountType]domain.TypeTotals, len(domain.AccountTypes)),
		GeneratedAt:    s.Now(),
	}
	for _, t := range domain.AccountTypes {
		tb.AccountsByType[t] = []domain.TrialBalanceRow{}
		tb.TotalsByType[t] = domain.TypeTotals{Debit: decimal.Zero, Credit: decimal.Zero, Balance: decimal.Zero}
	}

	for _, acc := range accounts {
		debits, credits := decimal.Zero, decimal.Zero
		if act, ok := activity[acc.AccountID]; ok {
			debits, credits = act.Debits, act.Credits
		}
		balance := domain.RoundMoney(accounting.SignedBalance(debits, credits, acc.NormalBalance))
		debit, credit := accounting.TrialBalanceColumns(balance, acc.NormalBalance)

		row := domain.TrialBalanceRow{
			AccountID:     acc.AccountID,
			AccountNumber: acc.AccountNumber,
			AccountName:   acc.Name,
			AccountType:   acc.AccountType,
			NormalBalance: acc.NormalBalance,
			Balance:       balance,
			Debit:         debit,
			Credit:        credit,
		}
		tb.Accounts = append(tb.Accounts, row)
		tb.TotalDebits = tb.TotalDebits.Add(debit)
		tb.TotalCredits = tb.TotalCredits.Add(credit)

		tb.AccountsByType[acc.AccountType] = append(tb.AccountsByType[acc.AccountType], row)
		totals := tb.TotalsByType[acc.AccountType]
		totals.Debit = totals.Debit.Add(debit)
		totals.Credit = totals.Credit.Add(credit)
		totals.Balance = totals.Balance.Add(balance)
		tb.TotalsByType[acc.AccountType] = totals
	}

	tb.Difference = domain.RoundMoney(tb.TotalDebits.Sub(tb.TotalCredits).Abs())
	tb.Balanced = tb.Difference.IsZero()
	tb.Status = domain.StatusBalanced
	if !tb.Balanced {
		tb.Status = domain.StatusUnbalanced
		s.GetLogger(ctx).Warn("Trial balance does not tie out",
			slog.String("tenant_id", tenantID),
			slog.String("difference", domain.FormatMoney(tb.Difference)))
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.Int("row_count", len(tb.Accounts)),
		slog.String("status", string(tb.Status)))
	return tb, nil
}

// GenerateTrialBalanceForPeriod resolves a period label to its end date and delegates to GenerateTrialBalance.
func (s *reportingService) GenerateTrialBalanceForPeriod(ctx context.Context, tenantID string, year int, periodLabel string) (*domain.TrialBalance, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d is out of range", apperrors.ErrValidation, year)
	}
	asOf, err := domain.ResolvePeriodEnd(year, periodLabel)
	if err != nil {
		return nil, err
	}
	return s.GenerateTrialBalance(ctx, tenantID, &asOf)
}
