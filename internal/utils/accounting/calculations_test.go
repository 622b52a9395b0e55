package accounting

import (
	"testing"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSignedBalance(t *testing.T) {
	assert.True(t, SignedBalance(d("100"), d("30"), domain.NormalDebit).Equal(d("70")))
	assert.True(t, SignedBalance(d("100"), d("30"), domain.NormalCredit).Equal(d("-70")))
	assert.True(t, SignedBalance(d("0"), d("50"), domain.NormalCredit).Equal(d("50")))
}

func TestTrialBalanceColumns(t *testing.T) {
	tests := []struct {
		name       string
		balance    string
		normal     domain.NormalBalance
		wantDebit  string
		wantCredit string
	}{
		{"debit normal positive", "70", domain.NormalDebit, "70", "0"},
		{"debit normal negative", "-70", domain.NormalDebit, "0", "70"},
		{"credit normal positive", "50", domain.NormalCredit, "0", "50"},
		{"credit normal negative", "-50", domain.NormalCredit, "50", "0"},
		{"zero", "0", domain.NormalCredit, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit := TrialBalanceColumns(d(tt.balance), tt.normal)
			assert.True(t, debit.Equal(d(tt.wantDebit)), "debit %s", debit)
			assert.True(t, credit.Equal(d(tt.wantCredit)), "credit %s", credit)
		})
	}
}

func TestValidateJournalLines(t *testing.T) {
	balanced := []domain.JournalLine{
		{LineNumber: 1, AccountNumber: "5000", Debit: d("100"), Credit: decimal.Zero},
		{LineNumber: 2, AccountNumber: "2000", Debit: decimal.Zero, Credit: d("100")},
	}
	assert.NoError(t, ValidateJournalLines(balanced))

	assert.ErrorIs(t, ValidateJournalLines(nil), apperrors.ErrValidation)

	unbalanced := []domain.JournalLine{
		{LineNumber: 1, AccountNumber: "5000", Debit: d("100"), Credit: decimal.Zero},
		{LineNumber: 2, AccountNumber: "2000", Debit: decimal.Zero, Credit: d("90")},
	}
	err := ValidateJournalLines(unbalanced)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "delta 10.00")

	oneSided := []domain.JournalLine{
		{LineNumber: 1, AccountNumber: "5000", Debit: d("100"), Credit: d("100")},
	}
	assert.ErrorIs(t, ValidateJournalLines(oneSided), apperrors.ErrValidation)
}
