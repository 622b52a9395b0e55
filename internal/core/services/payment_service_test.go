package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/core/services"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	tx         *MockLedgerTx
	txManager  *fakeTxManager
	authorizer *MockAuthorizer
	metrics    *MockMetrics
	service    portssvc.PaymentService
	ctx        context.Context
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.tx = new(MockLedgerTx)
	suite.txManager = &fakeTxManager{tx: suite.tx}
	suite.authorizer = new(MockAuthorizer)
	suite.metrics = new(MockMetrics)
	journal := services.NewJournalService(suite.txManager, suite.tx)
	suite.service = services.NewPaymentService(suite.txManager, suite.tx, journal, suite.authorizer,
		domain.DefaultAccountMap(), services.WithPaymentMetrics(suite.metrics))
	suite.ctx = context.Background()
}

func (suite *PaymentServiceTestSuite) request(breakdown *domain.PaymentBreakdown) domain.PaymentRequest {
	return domain.PaymentRequest{
		PaymentID:      "PAY-1",
		TenantID:       "t1",
		FilerID:        "filer-1",
		MunicipalityID: "muni-1",
		PaymentDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromInt(100),
		Method:         "ach",
		Breakdown:      breakdown,
	}
}

func (suite *PaymentServiceTestSuite) expectNewPayment() {
	suite.tx.On("SavePayment", mock.Anything, mock.MatchedBy(func(p domain.PaymentTransaction) bool {
		return p.PaymentID == "PAY-1" && p.Status == domain.PaymentPending && p.JournalEntryID == nil
	})).Return(nil).Once()
}

func activeAccounts(numbers ...string) map[string]domain.Account {
	out := make(map[string]domain.Account, len(numbers))
	for _, n := range numbers {
		out[n] = domain.Account{AccountID: "acc-" + n, AccountNumber: n, IsActive: true}
	}
	return out
}

func (suite *PaymentServiceTestSuite) TestApprovedPaymentSplitsBreakdown() {
	suite.expectNewPayment()
	code := "A1B2C3"
	suite.authorizer.On("Authorize", mock.Anything, mock.MatchedBy(func(r domain.AuthorizationRequest) bool {
		return r.PaymentID == "PAY-1" && r.Amount.Equal(decimal.NewFromInt(100)) && r.Method == "ach"
	})).Return(&domain.Authorization{Status: domain.PaymentApproved, ProviderTransactionID: "ptx-1", AuthorizationCode: &code}, nil).Once()

	suite.tx.On("FindAccountsByNumbers", mock.Anything, "t1", mock.Anything).
		Return(activeAccounts("1000", "1100", "1110", "2000", "2010"), nil)
	suite.tx.On("EntryExistsForSource", mock.Anything, "t1", domain.SourcePayment, "PAY-1", mock.Anything).Return(false, nil).Twice()
	suite.tx.On("NextEntrySequence", mock.Anything, "t1", "JE-202403").Return(int64(1), nil).Once()
	suite.tx.On("NextEntrySequence", mock.Anything, "t1", "JE-202403").Return(int64(2), nil).Once()

	var inserted []domain.JournalEntry
	suite.tx.On("InsertEntry", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).(domain.JournalEntry))
	}).Return(nil).Twice()
	suite.tx.On("AppendAudit", mock.Anything, mock.Anything).Return(nil)
	suite.tx.On("UpdatePaymentOutcome", mock.Anything, mock.MatchedBy(func(p domain.PaymentTransaction) bool {
		return p.Status == domain.PaymentApproved && p.JournalEntryID != nil && p.MunicipalityEntryID != nil
	})).Return(nil).Once()
	suite.metrics.On("PaymentProcessed", domain.PaymentApproved).Once()

	payment, err := suite.service.ProcessPayment(suite.ctx, suite.request(&domain.PaymentBreakdown{
		ToTax: decimal.NewFromInt(60), ToPenalty: decimal.NewFromInt(40), ToInterest: decimal.Zero,
	}), "cashier")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentApproved, payment.Status)
	suite.Equal("ptx-1", payment.ProviderTransactionID)
	suite.Require().Len(inserted, 2)

	filer := inserted[0]
	suite.Equal("filer-1", filer.SubjectEntityID)
	suite.Require().Len(filer.Lines, 3)
	suite.Equal("2000", filer.Lines[0].AccountNumber)
	suite.Equal("60.00", domain.FormatMoney(filer.Lines[0].Debit))
	suite.Equal("2010", filer.Lines[1].AccountNumber)
	suite.Equal("40.00", domain.FormatMoney(filer.Lines[1].Debit))
	suite.Equal("1000", filer.Lines[2].AccountNumber)
	suite.Equal("100.00", domain.FormatMoney(filer.Lines[2].Credit))

	municipality := inserted[1]
	suite.Equal("muni-1", municipality.SubjectEntityID)
	suite.Require().Len(municipality.Lines, 3)
	suite.Equal("1000", municipality.Lines[0].AccountNumber)
	suite.Equal("1100", municipality.Lines[1].AccountNumber)
	suite.Equal("1110", municipality.Lines[2].AccountNumber)
	suite.Equal(*payment.JournalEntryID, filer.EntryID)

	suite.tx.AssertExpectations(suite.T())
	suite.metrics.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestAuthorizerFailureRecordedAsError() {
	suite.expectNewPayment()
	suite.authorizer.On("Authorize", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()
	suite.tx.On("UpdatePaymentOutcome", mock.Anything, mock.MatchedBy(func(p domain.PaymentTransaction) bool {
		return p.Status == domain.PaymentError && p.JournalEntryID == nil
	})).Return(nil).Once()
	suite.tx.On("AppendAudit", mock.Anything, mock.MatchedBy(func(a domain.AuditLog) bool {
		return a.EntityType == domain.EntityPayment && a.Reason != nil
	})).Return(nil).Once()
	suite.metrics.On("PaymentProcessed", domain.PaymentError).Once()

	payment, err := suite.service.ProcessPayment(suite.ctx, suite.request(nil), "cashier")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentError, payment.Status)
	suite.Nil(payment.JournalEntryID)
	suite.Require().NotNil(payment.FailureReason)
	suite.Contains(*payment.FailureReason, apperrors.ErrIntegration.Error())
	suite.Contains(*payment.FailureReason, "connection refused")
	suite.tx.AssertNotCalled(suite.T(), "InsertEntry", mock.Anything, mock.Anything)
	suite.tx.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestUnexpectedStatusRecordedAsError() {
	suite.expectNewPayment()
	suite.authorizer.On("Authorize", mock.Anything, mock.Anything).
		Return(&domain.Authorization{Status: "PENDING", ProviderTransactionID: "ptx-9"}, nil).Once()
	suite.tx.On("UpdatePaymentOutcome", mock.Anything, mock.Anything).Return(nil).Once()
	suite.tx.On("AppendAudit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.metrics.On("PaymentProcessed", domain.PaymentError).Once()

	payment, err := suite.service.ProcessPayment(suite.ctx, suite.request(nil), "cashier")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentError, payment.Status)
	suite.Contains(*payment.FailureReason, "PENDING")
}

func (suite *PaymentServiceTestSuite) TestDuplicatePaymentNeverReachesAuthorizer() {
	suite.tx.On("SavePayment", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: payment PAY-1", apperrors.ErrDuplicate)).Once()

	_, err := suite.service.ProcessPayment(suite.ctx, suite.request(nil), "cashier")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.authorizer.AssertNotCalled(suite.T(), "Authorize", mock.Anything, mock.Anything)
	suite.Equal(1, suite.txManager.rolled)
}

func (suite *PaymentServiceTestSuite) TestOutcomeFailureKeepsPendingAttempt() {
	suite.expectNewPayment()
	suite.authorizer.On("Authorize", mock.Anything, mock.Anything).
		Return(&domain.Authorization{Status: domain.PaymentDeclined, ProviderTransactionID: "ptx-2"}, nil).Once()
	suite.tx.On("UpdatePaymentOutcome", mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(500, "failed to update payment PAY-1", errors.New("disk I/O error"))).Once()

	_, err := suite.service.ProcessPayment(suite.ctx, suite.request(nil), "cashier")

	suite.Require().Error(err)
	suite.Contains(err.Error(), "disk I/O error")
	// The PENDING row written before authorization committed; only the outcome rolled back.
	suite.Equal(1, suite.txManager.committed)
	suite.Equal(1, suite.txManager.rolled)
	suite.tx.AssertNotCalled(suite.T(), "AppendAudit", mock.Anything, mock.Anything)
	suite.metrics.AssertNotCalled(suite.T(), "PaymentProcessed", mock.Anything)
	suite.tx.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestGetPaymentRefusesOtherTenantsID() {
	suite.tx.On("FindPaymentByID", mock.Anything, "t2", "PAY-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.tx.On("PaymentExistsInAnyTenant", mock.Anything, "PAY-1").Return(true, nil).Once()
	suite.tx.On("FindPaymentByID", mock.Anything, "t2", "PAY-9").Return(nil, apperrors.ErrNotFound).Once()
	suite.tx.On("PaymentExistsInAnyTenant", mock.Anything, "PAY-9").Return(false, nil).Once()

	_, err := suite.service.GetPayment(suite.ctx, "t2", "PAY-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.GetPayment(suite.ctx, "t2", "PAY-9")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.NotErrorIs(err, apperrors.ErrForbidden)
	suite.tx.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestInvalidRequests() {
	mismatch := &domain.PaymentBreakdown{ToTax: decimal.NewFromInt(50), ToPenalty: decimal.NewFromInt(20), ToInterest: decimal.Zero}
	_, err := suite.service.ProcessPayment(suite.ctx, suite.request(mismatch), "cashier")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "70.00")

	zero := suite.request(nil)
	zero.Amount = decimal.Zero
	_, err = suite.service.ProcessPayment(suite.ctx, zero, "cashier")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ProcessPayment(suite.ctx, suite.request(nil), "")
	suite.ErrorIs(err, services.ErrActorMissing)

	suite.authorizer.AssertNotCalled(suite.T(), "Authorize", mock.Anything, mock.Anything)
	suite.tx.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
