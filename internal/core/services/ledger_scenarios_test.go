package services_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/core/services"
	"github.com/SscSPs/muni_tax_ledger/internal/platform/paymentgateway"
	"github.com/SscSPs/muni_tax_ledger/internal/repositories/database/sqlite"
)

const (
	tenant       = "springfield"
	filer        = "filer-42"
	municipality = "muni-springfield"
	clerk        = "clerk-1"
)

// LedgerScenarioSuite runs the services end to end against a file-backed SQLite store.
type LedgerScenarioSuite struct {
	suite.Suite
	ctx   context.Context
	store *sqlite.Store
	svc   *portssvc.ServiceContainer
}

func (suite *LedgerScenarioSuite) SetupTest() {
	suite.ctx = context.Background()
	store, err := sqlite.Open(suite.ctx, filepath.Join(suite.T().TempDir(), "ledger.db"))
	suite.Require().NoError(err)
	suite.store = store
	suite.svc = services.NewServiceContainer(store.Repositories(), services.ServiceDependencies{
		Authorizer: paymentgateway.Sandbox{},
	})

	created, err := suite.svc.Account.SeedChart(suite.ctx, tenant, domain.DefaultMunicipalChart(), "setup")
	suite.Require().NoError(err)
	suite.Require().Len(created, len(domain.DefaultMunicipalChart()))
}

func (suite *LedgerScenarioSuite) TearDownTest() {
	suite.Require().NoError(suite.store.Close())
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (suite *LedgerScenarioSuite) assess(id string, date time.Time, tax, penalty, interest string) *domain.AssessmentPosting {
	posting, err := suite.svc.Assessment.Assess(suite.ctx, domain.Assessment{
		AssessmentID:   id,
		TenantID:       tenant,
		FilerID:        filer,
		MunicipalityID: municipality,
		AssessmentDate: date,
		Tax:            money(tax),
		Penalty:        money(penalty),
		Interest:       money(interest),
	}, clerk)
	suite.Require().NoError(err)
	return posting
}

func (suite *LedgerScenarioSuite) pay(id string, date time.Time, amount, token string, breakdown *domain.PaymentBreakdown) *domain.PaymentTransaction {
	payment, err := suite.svc.Payment.ProcessPayment(suite.ctx, domain.PaymentRequest{
		PaymentID:      id,
		TenantID:       tenant,
		FilerID:        filer,
		MunicipalityID: municipality,
		PaymentDate:    date,
		Amount:         money(amount),
		Method:         "card",
		Instrument:     map[string]string{"token": token},
		Breakdown:      breakdown,
	}, clerk)
	suite.Require().NoError(err)
	return payment
}

func (suite *LedgerScenarioSuite) trialBalance() *domain.TrialBalance {
	tb, err := suite.svc.Reporting.GenerateTrialBalance(suite.ctx, tenant, nil)
	suite.Require().NoError(err)
	return tb
}

func balances(tb *domain.TrialBalance) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(tb.Accounts))
	for _, row := range tb.Accounts {
		out[row.AccountNumber] = row.Balance
	}
	return out
}

func (suite *LedgerScenarioSuite) assertBalanced(tb *domain.TrialBalance) {
	suite.True(tb.Difference.IsZero(), "difference %s", tb.Difference)
	suite.True(tb.Balanced)
	suite.Equal(domain.StatusBalanced, tb.Status)
	suite.True(tb.TotalDebits.Equal(tb.TotalCredits))
}

func (suite *LedgerScenarioSuite) assertEntryBalanced(entry *domain.JournalEntry) {
	debits, credits := entry.Totals()
	suite.True(debits.Equal(credits), "entry %s debits %s credits %s", entry.EntryNumber, debits, credits)
}

func (suite *LedgerScenarioSuite) TestAssessmentAndPaymentsSettleToZero() {
	suite.assess("ASMT-1", day(2024, 1, 10), "10000", "0", "0")
	suite.pay("PAY-1", day(2024, 2, 1), "10000", "tok_visa", nil)
	suite.assess("ASMT-2", day(2024, 3, 1), "0", "50", "0")
	payment := suite.pay("PAY-2", day(2024, 3, 5), "50", "tok_visa",
		&domain.PaymentBreakdown{ToTax: decimal.Zero, ToPenalty: money("50"), ToInterest: decimal.Zero})
	suite.Equal(domain.PaymentApproved, payment.Status)
	suite.Require().NotNil(payment.JournalEntryID)

	stmt, err := suite.svc.Statement.GenerateFilerStatement(suite.ctx, tenant, filer, nil, nil)
	suite.Require().NoError(err)

	suite.Require().Len(stmt.Transactions, 4)
	suite.Equal("ASMT-1", stmt.Transactions[0].SourceID)
	suite.Equal("PAY-1", stmt.Transactions[1].SourceID)
	suite.Equal("ASMT-2", stmt.Transactions[2].SourceID)
	suite.Equal("PAY-2", stmt.Transactions[3].SourceID)
	suite.Equal("10000.00", domain.FormatMoney(stmt.Transactions[0].RunningBalance))
	suite.Equal("0.00", domain.FormatMoney(stmt.Transactions[1].RunningBalance))
	suite.Equal("50.00", domain.FormatMoney(stmt.Transactions[2].RunningBalance))
	suite.Equal("0.00", domain.FormatMoney(stmt.EndingBalance))
	suite.Equal("Filer Tax Liability", stmt.AccountName)

	suite.assertBalanced(suite.trialBalance())
}

func (suite *LedgerScenarioSuite) TestCompoundAssessmentLines() {
	posting := suite.assess("ASMT-C", day(2024, 4, 15), "10000", "500", "150")

	filerEntry := posting.Filer
	suite.Require().Len(filerEntry.Lines, 6)
	debits, credits := filerEntry.Totals()
	suite.Equal("10650.00", domain.FormatMoney(debits))
	suite.Equal("10650.00", domain.FormatMoney(credits))

	liabilityCredits, expenseDebits := 0, 0
	for _, l := range filerEntry.Lines {
		switch l.AccountNumber {
		case "2000", "2010", "2020":
			suite.True(l.Debit.IsZero())
			liabilityCredits++
		case "5000", "5010", "5020":
			suite.True(l.Credit.IsZero())
			expenseDebits++
		default:
			suite.Failf("unexpected account", "filer line on %s", l.AccountNumber)
		}
	}
	suite.Equal(3, liabilityCredits)
	suite.Equal(3, expenseDebits)

	muniEntry := posting.Municipality
	suite.Require().Len(muniEntry.Lines, 6)
	muniDebits, muniCredits := muniEntry.Totals()
	suite.True(muniDebits.Equal(debits))
	suite.True(muniCredits.Equal(credits))
	suite.Equal(municipality, muniEntry.SubjectEntityID)
	suite.Equal(filerEntry.SourceID, muniEntry.SourceID)

	b := balances(suite.trialBalance())
	suite.Equal("10000.00", domain.FormatMoney(b["1100"]))
	suite.Equal("500.00", domain.FormatMoney(b["1110"]))
	suite.Equal("150.00", domain.FormatMoney(b["1120"]))
	suite.Equal("150.00", domain.FormatMoney(b["4020"]))
}

func (suite *LedgerScenarioSuite) TestZeroComponentsProduceNoLines() {
	posting := suite.assess("ASMT-Z", day(2024, 4, 15), "200", "0", "0")

	suite.Len(posting.Filer.Lines, 2)
	suite.Len(posting.Municipality.Lines, 2)
	for _, l := range append(posting.Filer.Lines, posting.Municipality.Lines...) {
		suite.False(l.Debit.IsZero() && l.Credit.IsZero())
	}
}

func (suite *LedgerScenarioSuite) TestDeclinedPaymentPostsNothing() {
	payment := suite.pay("PAY-D", day(2024, 5, 1), "75", paymentgateway.SandboxDeclineToken, nil)

	suite.Equal(domain.PaymentDeclined, payment.Status)
	suite.Nil(payment.JournalEntryID)
	suite.Require().NotNil(payment.FailureReason)

	entries, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourcePayment, "PAY-D")
	suite.Require().NoError(err)
	suite.Empty(entries)

	stored, err := suite.svc.Payment.GetPayment(suite.ctx, tenant, "PAY-D")
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentDeclined, stored.Status)
}

func (suite *LedgerScenarioSuite) TestGatewayFailureRecordsError() {
	payment := suite.pay("PAY-E", day(2024, 5, 1), "75", paymentgateway.SandboxErrorToken, nil)

	suite.Equal(domain.PaymentError, payment.Status)
	suite.Nil(payment.JournalEntryID)
	suite.Require().NotNil(payment.FailureReason)
	suite.Contains(*payment.FailureReason, apperrors.ErrIntegration.Error())

	entries, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourcePayment, "PAY-E")
	suite.Require().NoError(err)
	suite.Empty(entries)

	_, err = suite.svc.Payment.ProcessPayment(suite.ctx, domain.PaymentRequest{
		PaymentID: "PAY-E", TenantID: tenant, FilerID: filer, MunicipalityID: municipality,
		PaymentDate: day(2024, 5, 2), Amount: money("75"), Method: "card",
	}, clerk)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LedgerScenarioSuite) TestRefundRequestAndIssuance() {
	refund, err := suite.svc.Refund.RequestRefund(suite.ctx, domain.RefundRequest{
		RefundID: "REF-1", TenantID: tenant, FilerID: filer, MunicipalityID: municipality,
		RequestDate: day(2024, 6, 1), Amount: money("1000"), Reason: "overpaid",
	}, clerk)
	suite.Require().NoError(err)
	suite.Equal(domain.RefundRequested, refund.Status)

	request, err := suite.svc.Journal.GetEntry(suite.ctx, tenant, refund.RequestEntryID)
	suite.Require().NoError(err)
	suite.Require().Len(request.Lines, 2)
	suite.Equal("1200", request.Lines[0].AccountNumber)
	suite.Equal("1000.00", domain.FormatMoney(request.Lines[0].Debit))
	suite.Equal("2000", request.Lines[1].AccountNumber)
	suite.Equal("1000.00", domain.FormatMoney(request.Lines[1].Credit))

	issued, err := suite.svc.Refund.IssueRefund(suite.ctx, tenant, "REF-1", day(2024, 6, 10), nil, clerk)
	suite.Require().NoError(err)
	suite.Equal(domain.RefundIssued, issued.Status)
	suite.Require().NotNil(issued.IssueEntryID)

	issuance, err := suite.svc.Journal.GetEntry(suite.ctx, tenant, *issued.IssueEntryID)
	suite.Require().NoError(err)
	suite.Equal("1000", issuance.Lines[0].AccountNumber)
	suite.Equal("1000.00", domain.FormatMoney(issuance.Lines[0].Debit))
	suite.Equal("1200", issuance.Lines[1].AccountNumber)
	suite.Equal("1000.00", domain.FormatMoney(issuance.Lines[1].Credit))

	tb := suite.trialBalance()
	suite.assertBalanced(tb)
	b := balances(tb)
	suite.True(b["1200"].IsZero(), "refund receivable %s", b["1200"])
	suite.True(b["2100"].IsZero(), "refunds payable %s", b["2100"])

	_, err = suite.svc.Refund.IssueRefund(suite.ctx, tenant, "REF-1", day(2024, 6, 11), nil, clerk)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerScenarioSuite) TestRefundAmountMustBePositive() {
	for _, amount := range []string{"0", "-5", "0.004"} {
		_, err := suite.svc.Refund.RequestRefund(suite.ctx, domain.RefundRequest{
			RefundID: "REF-BAD", TenantID: tenant, FilerID: filer, MunicipalityID: municipality,
			RequestDate: day(2024, 6, 1), Amount: money(amount),
		}, clerk)
		suite.ErrorIs(err, apperrors.ErrValidation)
		suite.Contains(err.Error(), "Refund amount must be positive")
	}

	entries, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourceRefundRequest, "REF-BAD")
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *LedgerScenarioSuite) TestRefundOverIssueRejected() {
	_, err := suite.svc.Refund.RequestRefund(suite.ctx, domain.RefundRequest{
		RefundID: "REF-2", TenantID: tenant, FilerID: filer, MunicipalityID: municipality,
		RequestDate: day(2024, 6, 1), Amount: money("100"),
	}, clerk)
	suite.Require().NoError(err)

	over := money("150")
	_, err = suite.svc.Refund.IssueRefund(suite.ctx, tenant, "REF-2", day(2024, 6, 2), &over, clerk)
	suite.ErrorIs(err, apperrors.ErrValidation)

	entries, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourceRefundIssuance, "REF-2")
	suite.Require().NoError(err)
	suite.Empty(entries)

	partial := money("40")
	issued, err := suite.svc.Refund.IssueRefund(suite.ctx, tenant, "REF-2", day(2024, 6, 2), &partial, clerk)
	suite.Require().NoError(err)
	suite.Equal("40.00", domain.FormatMoney(*issued.IssuedAmount))
}

func (suite *LedgerScenarioSuite) TestTrialBalanceForPeriod() {
	suite.assess("ASMT-Q1", day(2024, 2, 10), "300", "0", "0")
	suite.assess("ASMT-Q2", day(2024, 4, 10), "700", "0", "0")

	tb, err := suite.svc.Reporting.GenerateTrialBalanceForPeriod(suite.ctx, tenant, 2024, "Q1")
	suite.Require().NoError(err)
	suite.Require().NotNil(tb.AsOf)
	suite.Equal("2024-03-31", tb.AsOf.Format(domain.DateLayout))
	suite.Equal("300.00", domain.FormatMoney(balances(tb)["1100"]))
	suite.assertBalanced(tb)

	_, err = suite.svc.Reporting.GenerateTrialBalanceForPeriod(suite.ctx, tenant, 2024, "INVALID")
	var periodErr *apperrors.InvalidPeriodError
	suite.True(errors.As(err, &periodErr))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerScenarioSuite) TestReverseRoundTrip() {
	suite.assess("ASMT-R", day(2024, 7, 1), "120", "0", "0")
	before := balances(suite.trialBalance())

	entry, err := suite.svc.Journal.Post(suite.ctx, domain.PostingRequest{
		TenantID:    tenant,
		EntryDate:   day(2024, 7, 2),
		Description: "Opening fund transfer",
		SourceType:  domain.SourceManual,
		SourceID:    "ADJ-7",
		Actor:       clerk,
		Lines: []domain.LineInput{
			domain.DebitLine("1000", money("250.50"), ""),
			domain.CreditLine("3000", money("250.50"), ""),
		},
	})
	suite.Require().NoError(err)
	suite.assertEntryBalanced(entry)
	suite.Equal("JE-202407-000003", entry.EntryNumber)

	mirror, err := suite.svc.Journal.Reverse(suite.ctx, tenant, entry.EntryID, "supervisor", "wrong fund")
	suite.Require().NoError(err)
	suite.assertEntryBalanced(mirror)

	tb := suite.trialBalance()
	suite.assertBalanced(tb)
	after := balances(tb)
	for number, balance := range before {
		suite.True(balance.Equal(after[number]), "account %s moved from %s to %s", number, balance, after[number])
	}

	original, err := suite.svc.Journal.GetEntry(suite.ctx, tenant, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, original.Status)
	suite.Require().NotNil(original.ReversedByEntryID)
	suite.Equal(mirror.EntryID, *original.ReversedByEntryID)

	_, err = suite.svc.Journal.Reverse(suite.ctx, tenant, entry.EntryID, "supervisor", "again")
	suite.ErrorIs(err, apperrors.ErrConflict)
	_, err = suite.svc.Journal.Reverse(suite.ctx, tenant, mirror.EntryID, "supervisor", "")
	suite.ErrorIs(err, apperrors.ErrConflict)

	reversals, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourceReversal, entry.EntryID)
	suite.Require().NoError(err)
	suite.Len(reversals, 1)

	trail, err := suite.svc.Audit.GetAuditTrail(suite.ctx, tenant, entry.EntryID)
	suite.Require().NoError(err)
	suite.Require().Len(trail, 2)
	suite.Equal(domain.ActionCreate, trail[0].Action)
	suite.Equal(domain.ActionReverse, trail[1].Action)
}

func (suite *LedgerScenarioSuite) TestRejectedPostingsLeaveNoTrace() {
	_, err := suite.svc.Journal.Post(suite.ctx, domain.PostingRequest{
		TenantID: tenant, EntryDate: day(2024, 8, 1), Description: "Off by a cent",
		SourceType: domain.SourceManual, SourceID: "ADJ-8", Actor: clerk,
		Lines: []domain.LineInput{
			domain.DebitLine("1000", money("10.00"), ""),
			domain.CreditLine("3000", money("9.99"), ""),
		},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "delta 0.01")

	_, err = suite.svc.Account.DeactivateAccount(suite.ctx, tenant, "3000", clerk)
	suite.Require().NoError(err)
	_, err = suite.svc.Journal.Post(suite.ctx, domain.PostingRequest{
		TenantID: tenant, EntryDate: day(2024, 8, 1), Description: "Into a closed account",
		SourceType: domain.SourceManual, SourceID: "ADJ-8", Actor: clerk,
		Lines: []domain.LineInput{
			domain.DebitLine("1000", money("10.00"), ""),
			domain.CreditLine("3000", money("10.00"), ""),
		},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	entries, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourceManual, "ADJ-8")
	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.True(suite.trialBalance().TotalDebits.IsZero())
}

func (suite *LedgerScenarioSuite) TestDuplicateAssessmentRejected() {
	suite.assess("ASMT-DUP", day(2024, 9, 1), "10", "0", "0")

	_, err := suite.svc.Assessment.Assess(suite.ctx, domain.Assessment{
		AssessmentID: "ASMT-DUP", TenantID: tenant, FilerID: filer, MunicipalityID: municipality,
		AssessmentDate: day(2024, 9, 2), Tax: money("10"),
	}, clerk)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	entries, err := suite.svc.Journal.ListEntriesBySource(suite.ctx, tenant, domain.SourceAssessment, "ASMT-DUP")
	suite.Require().NoError(err)
	suite.Len(entries, 2)
}

func (suite *LedgerScenarioSuite) TestStatementWindow() {
	suite.assess("ASMT-W1", day(2024, 1, 5), "100", "0", "0")
	suite.assess("ASMT-W2", day(2024, 2, 5), "200", "0", "0")

	start, end := day(2024, 2, 1), day(2024, 2, 28)
	stmt, err := suite.svc.Statement.GenerateFilerStatement(suite.ctx, tenant, filer, &start, &end)
	suite.Require().NoError(err)
	suite.Require().Len(stmt.Transactions, 1)
	suite.Equal("ASMT-W2", stmt.Transactions[0].SourceID)
	suite.Equal("200.00", domain.FormatMoney(stmt.EndingBalance))

	inverted, err := suite.svc.Statement.GenerateFilerStatement(suite.ctx, tenant, filer, &end, &start)
	suite.Require().NoError(err)
	suite.Empty(inverted.Transactions)
	suite.True(inverted.EndingBalance.IsZero())
}

func (suite *LedgerScenarioSuite) TestCrossTenantAccessDenied() {
	posting := suite.assess("ASMT-T", day(2024, 10, 1), "10", "0", "0")

	_, err := suite.svc.Journal.GetEntry(suite.ctx, "shelbyville", posting.Filer.EntryID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = suite.svc.Journal.Reverse(suite.ctx, "shelbyville", posting.Filer.EntryID, "supervisor", "")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.svc.Audit.GetAuditTrail(suite.ctx, "shelbyville", posting.Filer.EntryID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	trail, err := suite.svc.Audit.GetAuditTrail(suite.ctx, tenant, posting.Filer.EntryID)
	suite.Require().NoError(err)
	suite.Len(trail, 1)

	suite.pay("PAY-T", day(2024, 10, 2), "10", "tok_ok", nil)
	_, err = suite.svc.Payment.GetPayment(suite.ctx, "shelbyville", "PAY-T")
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = suite.svc.Audit.GetAuditTrail(suite.ctx, "shelbyville", "PAY-T")
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = suite.svc.Payment.GetPayment(suite.ctx, "shelbyville", "PAY-UNKNOWN")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.svc.Refund.RequestRefund(suite.ctx, domain.RefundRequest{
		RefundID: "REF-T", TenantID: tenant, FilerID: filer, MunicipalityID: municipality,
		RequestDate: day(2024, 10, 3), Amount: money("5"), Reason: "overpaid",
	}, clerk)
	suite.Require().NoError(err)
	_, err = suite.svc.Refund.GetRefund(suite.ctx, "shelbyville", "REF-T")
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = suite.svc.Refund.IssueRefund(suite.ctx, "shelbyville", "REF-T", day(2024, 10, 4), nil, "supervisor")
	suite.ErrorIs(err, apperrors.ErrForbidden)
	_, err = suite.svc.Refund.GetRefund(suite.ctx, "shelbyville", "REF-UNKNOWN")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerScenarioSuite) TestSharedPaymentIDStaysPerTenant() {
	suite.pay("PAY-S", day(2024, 10, 2), "10", "tok_ok", nil)

	// A declined attempt posts nothing, so the other tenant needs no chart.
	other, err := suite.svc.Payment.ProcessPayment(suite.ctx, domain.PaymentRequest{
		PaymentID: "PAY-S", TenantID: "shelbyville", FilerID: "filer-7", MunicipalityID: "muni-shelbyville",
		PaymentDate: day(2024, 10, 2), Amount: money("20"), Method: "card",
		Instrument: map[string]string{"token": paymentgateway.SandboxDeclineToken},
	}, "clerk-2")
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentDeclined, other.Status)

	stored, err := suite.svc.Payment.GetPayment(suite.ctx, "shelbyville", "PAY-S")
	suite.Require().NoError(err)
	suite.Equal("filer-7", stored.FilerID)

	trail, err := suite.svc.Audit.GetAuditTrail(suite.ctx, "shelbyville", "PAY-S")
	suite.Require().NoError(err)
	suite.Require().Len(trail, 1)
	suite.Equal("shelbyville", trail[0].TenantID)
	suite.Equal("clerk-2", trail[0].Actor)
}

func (suite *LedgerScenarioSuite) TestConcurrentPostsGetDistinctNumbers() {
	const posts = 40
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make([]string, 0, posts)
		errs    []error
	)
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := suite.svc.Journal.Post(suite.ctx, domain.PostingRequest{
				TenantID:    tenant,
				EntryDate:   day(2024, 8, 1+i%28),
				Description: "Fund transfer",
				SourceType:  domain.SourceManual,
				SourceID:    fmt.Sprintf("ADJ-C%02d", i),
				Actor:       clerk,
				Lines: []domain.LineInput{
					domain.DebitLine("1000", money("1.00"), ""),
					domain.CreditLine("3000", money("1.00"), ""),
				},
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, entry.EntryNumber)
		}(i)
	}
	wg.Wait()

	suite.Require().Empty(errs)
	suite.Require().Len(numbers, posts)
	want := make([]string, 0, posts)
	for seq := int64(1); seq <= posts; seq++ {
		want = append(want, domain.FormatEntryNumber("JE-202408", seq))
	}
	suite.ElementsMatch(want, numbers)
	suite.assertBalanced(suite.trialBalance())
}

func (suite *LedgerScenarioSuite) TestAuditLogPagination() {
	seen := map[string]bool{}
	var token *string
	for page := 0; page < 10; page++ {
		logs, next, err := suite.svc.Audit.GetTenantAuditLogs(suite.ctx, tenant, 5, token)
		suite.Require().NoError(err)
		suite.LessOrEqual(len(logs), 5)
		for _, l := range logs {
			suite.False(seen[l.AuditID], "audit %s returned twice", l.AuditID)
			seen[l.AuditID] = true
		}
		if next == nil {
			break
		}
		token = next
	}
	suite.Len(seen, len(domain.DefaultMunicipalChart()))

	bad := "not-a-token"
	_, _, err := suite.svc.Audit.GetTenantAuditLogs(suite.ctx, tenant, 5, &bad)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLedgerScenarios(t *testing.T) {
	suite.Run(t, new(LedgerScenarioSuite))
}
