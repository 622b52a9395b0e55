package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// --- Mock LedgerTx ---
type MockLedgerTx struct {
	mock.Mock
}

var _ portsrepo.LedgerTx = (*MockLedgerTx)(nil)

func (m *MockLedgerTx) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerTx) FindAccountByNumber(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerTx) FindAccountsByNumbers(ctx context.Context, tenantID string, accountNumbers []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerTx) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerTx) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockLedgerTx) DeactivateAccount(ctx context.Context, accountID string, actor string, now time.Time) error {
	return m.Called(ctx, accountID, actor, now).Error(0)
}

func (m *MockLedgerTx) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerTx) ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerTx) NextEntrySequence(ctx context.Context, tenantID, prefix string) (int64, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerTx) EntryExistsForSource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID, subjectEntityID string) (bool, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID, subjectEntityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerTx) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLedgerTx) MarkEntryReversed(ctx context.Context, entryID, reversedByEntryID, actor, reason string, at time.Time) error {
	return m.Called(ctx, entryID, reversedByEntryID, actor, reason, at).Error(0)
}

func (m *MockLedgerTx) AppendAudit(ctx context.Context, log domain.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockLedgerTx) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *MockLedgerTx) PaymentExistsInAnyTenant(ctx context.Context, paymentID string) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerTx) SavePayment(ctx context.Context, payment domain.PaymentTransaction) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockLedgerTx) UpdatePaymentOutcome(ctx context.Context, payment domain.PaymentTransaction) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockLedgerTx) FindRefundByID(ctx context.Context, tenantID, refundID string) (*domain.Refund, error) {
	args := m.Called(ctx, tenantID, refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}

func (m *MockLedgerTx) RefundExistsInAnyTenant(ctx context.Context, refundID string) (bool, error) {
	args := m.Called(ctx, refundID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerTx) SaveRefund(ctx context.Context, refund domain.Refund) error {
	return m.Called(ctx, refund).Error(0)
}

func (m *MockLedgerTx) MarkRefundIssued(ctx context.Context, refund domain.Refund) error {
	return m.Called(ctx, refund).Error(0)
}

// fakeTxManager runs fn against tx and reports whether the work would have committed.
type fakeTxManager struct {
	tx        portsrepo.LedgerTx
	committed int
	rolled    int
}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := fn(ctx, f.tx); err != nil {
		f.rolled++
		return err
	}
	f.committed++
	return nil
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) SumActivityByAccount(ctx context.Context, tenantID string, asOf *time.Time) (map[string]domain.AccountActivity, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.AccountActivity), args.Error(1)
}

func (m *MockReportingRepository) ListSubjectLines(ctx context.Context, filter domain.LineFilter) ([]domain.PostedLine, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PostedLine), args.Error(1)
}

// --- Mock EventPublisher ---
type MockPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, events ...domain.LedgerEvent) error {
	return m.Called(ctx, events).Error(0)
}

// --- Mock LedgerMetrics ---
type MockMetrics struct {
	mock.Mock
}

var _ portssvc.LedgerMetrics = (*MockMetrics)(nil)

func (m *MockMetrics) EntryPosted(sourceType domain.SourceType)     { m.Called(sourceType) }
func (m *MockMetrics) EntryReversed()                               { m.Called() }
func (m *MockMetrics) PostRejected(reason string)                   { m.Called(reason) }
func (m *MockMetrics) PaymentProcessed(status domain.PaymentStatus) { m.Called(status) }
func (m *MockMetrics) EventPublishFailed()                          { m.Called() }

// --- Mock PaymentAuthorizer ---
type MockAuthorizer struct {
	mock.Mock
}

var _ portssvc.PaymentAuthorizer = (*MockAuthorizer)(nil)

func (m *MockAuthorizer) Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.Authorization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}
