package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/utils/accounting"
)

type statementService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
	accountMap    domain.AccountMap
}

// StatementServiceOption is a functional option for configuring the statement service
type StatementServiceOption func(*statementService)

// WithStatementAccountMap overrides which accounts make up a filer statement.
func WithStatementAccountMap(m domain.AccountMap) StatementServiceOption {
	return func(s *statementService) {
		s.accountMap = m
	}
}

// WithStatementClock overrides the clock used for the statement date.
func WithStatementClock(clock func() time.Time) StatementServiceOption {
	return func(s *statementService) {
		s.Clock = clock
	}
}

// NewStatementService creates the filer statement generator.
func NewStatementService(accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository, options ...StatementServiceOption) portssvc.StatementService {
	svc := &statementService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		accountMap:    domain.DefaultAccountMap(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StatementService = (*statementService)(nil)

// GenerateFilerStatement returns the filer-side activity on the filer liability accounts within
// the inclusive date window, with a running balance after each line. Lines are selected strictly
// by entry date. The beginning balance is zero: the statement reports window activity only.
func (s *statementService) GenerateFilerStatement(ctx context.Context, tenantID, filerID string, startDate, endDate *time.Time) (*domain.FilerStatement, error) {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(filerID) == "" {
		return nil, fmt.Errorf("%w: tenant and filer are required", apperrors.ErrValidation)
	}
	if startDate != nil {
		d := domain.DateOnly(*startDate)
		startDate = &d
	}
	if endDate != nil {
		d := domain.DateOnly(*endDate)
		endDate = &d
	}

	stmt := &domain.FilerStatement{
		TenantID:         tenantID,
		FilerID:          filerID,
		StatementDate:    domain.DateOnly(s.Now()),
		StartDate:        startDate,
		EndDate:          endDate,
		Transactions:     []domain.StatementLine{},
		TotalDebits:      decimal.Zero,
		TotalCredits:     decimal.Zero,
		BeginningBalance: decimal.Zero,
		EndingBalance:    decimal.Zero,
	}

	numbers := s.accountMap.FilerStatementAccounts()
	accounts, err := s.accountRepo.FindAccountsByNumbers(ctx, tenantID, numbers)
	if err != nil {
		s.LogError(ctx, err, "Failed to load statement accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to load statement accounts: %w", err)
	}

	// The primary liability account names the statement and fixes its orientation.
	orientation := domain.NormalCredit
	if primary, ok := accounts[numbers[0]]; ok {
		stmt.AccountName = primary.Name
		orientation = primary.NormalBalance
	}

	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return stmt, nil
	}
	if len(accounts) == 0 {
		return stmt, nil
	}

	accountIDs := make([]string, 0, len(accounts))
	for _, number := range numbers {
		if acc, ok := accounts[number]; ok {
			accountIDs = append(accountIDs, acc.AccountID)
		}
	}

	lines, err := s.reportingRepo.ListSubjectLines(ctx, domain.LineFilter{
		TenantID:        tenantID,
		SubjectEntityID: filerID,
		AccountIDs:      accountIDs,
		StartDate:       startDate,
		EndDate:         endDate,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load statement lines",
			slog.String("tenant_id", tenantID),
			slog.String("filer_id", filerID))
		return nil, fmt.Errorf("failed to load statement lines: %w", err)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		return a.LineNumber < b.LineNumber
	})

	running := stmt.BeginningBalance
	for _, l := range lines {
		running = running.Add(accounting.SignedBalance(l.Debit, l.Credit, orientation))
		stmt.TotalDebits = stmt.TotalDebits.Add(l.Debit)
		stmt.TotalCredits = stmt.TotalCredits.Add(l.Credit)
		stmt.Transactions = append(stmt.Transactions, domain.StatementLine{
			EntryID:        l.EntryID,
			EntryNumber:    l.EntryNumber,
			EntryDate:      l.EntryDate,
			Description:    lineDescription(l),
			SourceType:     l.SourceType,
			SourceID:       l.SourceID,
			AccountNumber:  l.AccountNumber,
			AccountName:    l.AccountName,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: domain.RoundMoney(running),
		})
	}
	stmt.EndingBalance = domain.RoundMoney(running)

	fromTotals := domain.RoundMoney(stmt.BeginningBalance.Add(accounting.SignedBalance(stmt.TotalDebits, stmt.TotalCredits, orientation)))
	if !fromTotals.Equal(stmt.EndingBalance) {
		err := fmt.Errorf("%w: statement for filer %s does not reconcile: running %s, totals %s",
			apperrors.ErrInternal, filerID, domain.FormatMoney(stmt.EndingBalance), domain.FormatMoney(fromTotals))
		s.LogError(ctx, err, "Statement reconciliation failed", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogDebug(ctx, "Filer statement generated",
		slog.String("tenant_id", tenantID),
		slog.String("filer_id", filerID),
		slog.Int("line_count", len(stmt.Transactions)))
	return stmt, nil
}

func lineDescription(l domain.PostedLine) string {
	if l.Description != "" {
		return l.Description
	}
	return l.EntryDescription
}
