package services_test

import (
	"context"
	"errors"
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

type ReportingServiceTestSuite struct {
	suite.Suite
	accounts  *MockLedgerTx
	reporting *MockReportingRepository
	service   portssvc.ReportingService
	ctx       context.Context
	now       time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.accounts = new(MockLedgerTx)
	suite.reporting = new(MockReportingRepository)
	suite.now = time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	suite.service = services.NewReportingService(suite.accounts, suite.reporting,
		services.WithReportingClock(func() time.Time { return suite.now }))
	suite.ctx = context.Background()
}

func (suite *ReportingServiceTestSuite) chart() []domain.Account {
	return []domain.Account{
		{AccountID: "a-cash", AccountNumber: "1000", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: "a-liab", AccountNumber: "2000", Name: "Filer Tax Liability", AccountType: domain.Liability, NormalBalance: domain.NormalCredit, IsActive: true},
		{AccountID: "a-rev", AccountNumber: "4000", Name: "Tax Revenue", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
		{AccountID: "a-exp", AccountNumber: "5000", Name: "Filer Tax Expense", AccountType: domain.Expense, NormalBalance: domain.NormalDebit},
	}
}

func (suite *ReportingServiceTestSuite) TestGenerateTrialBalance_Balanced() {
	suite.accounts.On("ListAccounts", mock.Anything, "t1", true).Return(suite.chart(), nil).Once()
	suite.reporting.On("SumActivityByAccount", mock.Anything, "t1", (*time.Time)(nil)).Return(map[string]domain.AccountActivity{
		"a-cash": {AccountID: "a-cash", Debits: decimal.RequireFromString("500.00"), Credits: decimal.RequireFromString("120.00")},
		"a-rev":  {AccountID: "a-rev", Credits: decimal.RequireFromString("380.00"), Debits: decimal.Zero},
	}, nil).Once()

	tb, err := suite.service.GenerateTrialBalance(suite.ctx, "t1", nil)

	suite.Require().NoError(err)
	suite.Len(tb.Accounts, 4)
	suite.Equal("380.00", domain.FormatMoney(tb.TotalDebits))
	suite.Equal("380.00", domain.FormatMoney(tb.TotalCredits))
	suite.True(tb.Balanced)
	suite.Equal(domain.StatusBalanced, tb.Status)
	suite.Equal(suite.now, tb.GeneratedAt)
	suite.Len(tb.AccountsByType[domain.Equity], 0)
	suite.Equal("380.00", domain.FormatMoney(tb.TotalsByType[domain.Revenue].Credit))
	suite.True(tb.Accounts[1].Balance.IsZero())
}

func (suite *ReportingServiceTestSuite) TestGenerateTrialBalance_ContraBalanceFlipsColumn() {
	suite.accounts.On("ListAccounts", mock.Anything, "t1", true).Return(suite.chart(), nil).Once()
	suite.reporting.On("SumActivityByAccount", mock.Anything, "t1", mock.Anything).Return(map[string]domain.AccountActivity{
		"a-liab": {AccountID: "a-liab", Debits: decimal.NewFromInt(75), Credits: decimal.NewFromInt(25)},
		"a-cash": {AccountID: "a-cash", Debits: decimal.Zero, Credits: decimal.NewFromInt(50)},
	}, nil).Once()

	tb, err := suite.service.GenerateTrialBalance(suite.ctx, "t1", nil)

	suite.Require().NoError(err)
	liability := tb.Accounts[1]
	suite.Equal("-50.00", domain.FormatMoney(liability.Balance))
	suite.Equal("50.00", domain.FormatMoney(liability.Debit))
	suite.True(liability.Credit.IsZero())
	suite.True(tb.Balanced)
}

func (suite *ReportingServiceTestSuite) TestGenerateTrialBalance_Unbalanced() {
	suite.accounts.On("ListAccounts", mock.Anything, "t1", true).Return(suite.chart(), nil).Once()
	suite.reporting.On("SumActivityByAccount", mock.Anything, "t1", mock.Anything).Return(map[string]domain.AccountActivity{
		"a-cash": {AccountID: "a-cash", Debits: decimal.RequireFromString("10.00"), Credits: decimal.Zero},
		"a-rev":  {AccountID: "a-rev", Debits: decimal.Zero, Credits: decimal.RequireFromString("9.99")},
	}, nil).Once()

	tb, err := suite.service.GenerateTrialBalance(suite.ctx, "t1", nil)

	suite.Require().NoError(err)
	suite.False(tb.Balanced)
	suite.Equal(domain.StatusUnbalanced, tb.Status)
	suite.Equal("0.01", domain.FormatMoney(tb.Difference))
}

func (suite *ReportingServiceTestSuite) TestGenerateTrialBalanceForPeriod() {
	suite.accounts.On("ListAccounts", mock.Anything, "t1", true).Return([]domain.Account{}, nil)
	suite.reporting.On("SumActivityByAccount", mock.Anything, "t1", mock.MatchedBy(func(d *time.Time) bool {
		return d != nil && d.Format(domain.DateLayout) == "2024-02-29"
	})).Return(map[string]domain.AccountActivity{}, nil).Once()

	tb, err := suite.service.GenerateTrialBalanceForPeriod(suite.ctx, "t1", 2024, "M02")
	suite.Require().NoError(err)
	suite.Equal("2024-02-29", tb.AsOf.Format(domain.DateLayout))

	_, err = suite.service.GenerateTrialBalanceForPeriod(suite.ctx, "t1", 2024, "Q0")
	var periodErr *apperrors.InvalidPeriodError
	suite.True(errors.As(err, &periodErr))

	_, err = suite.service.GenerateTrialBalanceForPeriod(suite.ctx, "t1", 0, "Q1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.reporting.AssertNumberOfCalls(suite.T(), "SumActivityByAccount", 1)
}

func (suite *ReportingServiceTestSuite) TestGenerateTrialBalance_StoreFailure() {
	suite.accounts.On("ListAccounts", mock.Anything, "t1", true).Return(nil, errors.New("db gone")).Once()

	_, err := suite.service.GenerateTrialBalance(suite.ctx, "t1", nil)

	suite.ErrorContains(err, "db gone")
	suite.reporting.AssertNotCalled(suite.T(), "SumActivityByAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
