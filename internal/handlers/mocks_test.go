package handlers_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) LookupAccount(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, def domain.ChartAccount, actor string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, def, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID, accountNumber, actor string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountNumber, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SeedChart(ctx context.Context, tenantID string, chart []domain.ChartAccount, actor string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, chart, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) Post(ctx context.Context, req domain.PostingRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostPair(ctx context.Context, pair domain.PostingPair) (*domain.PostedPair, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedPair), args.Error(1)
}

func (m *MockJournalService) Reverse(ctx context.Context, tenantID, entryID, actor, reason string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostPairInTx(ctx context.Context, tx portsrepo.LedgerTx, pair domain.PostingPair) (*domain.PostedPair, error) {
	args := m.Called(ctx, tx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostedPair), args.Error(1)
}

func (m *MockJournalService) PublishPosted(ctx context.Context, actor string, entries ...*domain.JournalEntry) {
	m.Called(ctx, actor, entries)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) GenerateTrialBalance(ctx context.Context, tenantID string, asOf *time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) GenerateTrialBalanceForPeriod(ctx context.Context, tenantID string, year int, periodLabel string) (*domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, year, periodLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

// --- Mock StatementService ---
type MockStatementService struct {
	mock.Mock
}

var _ portssvc.StatementService = (*MockStatementService)(nil)

func (m *MockStatementService) GenerateFilerStatement(ctx context.Context, tenantID, filerID string, startDate, endDate *time.Time) (*domain.FilerStatement, error) {
	args := m.Called(ctx, tenantID, filerID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilerStatement), args.Error(1)
}

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

var _ portssvc.PaymentService = (*MockPaymentService)(nil)

func (m *MockPaymentService) ProcessPayment(ctx context.Context, req domain.PaymentRequest, actor string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

// --- Mock RefundService ---
type MockRefundService struct {
	mock.Mock
}

var _ portssvc.RefundService = (*MockRefundService)(nil)

func (m *MockRefundService) RequestRefund(ctx context.Context, req domain.RefundRequest, actor string) (*domain.Refund, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundService) IssueRefund(ctx context.Context, tenantID, refundID string, issueDate time.Time, amount *decimal.Decimal, actor string) (*domain.Refund, error) {
	args := m.Called(ctx, tenantID, refundID, issueDate, amount, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockRefundService) GetRefund(ctx context.Context, tenantID, refundID string) (*domain.Refund, error) {
	args := m.Called(ctx, tenantID, refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}
