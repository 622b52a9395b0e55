package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestJournalLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{name: "debit only", line: domain.JournalLine{Debit: dec("10.00"), Credit: decimal.Zero}},
		{name: "credit only", line: domain.JournalLine{Debit: decimal.Zero, Credit: dec("10.00")}},
		{name: "both sides", line: domain.JournalLine{Debit: dec("1"), Credit: dec("1")}, wantErr: true},
		{name: "neither side", line: domain.JournalLine{Debit: decimal.Zero, Credit: decimal.Zero}, wantErr: true},
		{name: "negative debit", line: domain.JournalLine{Debit: dec("-5"), Credit: decimal.Zero}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBalance(t *testing.T) {
	assert.NoError(t, domain.ValidateBalance(dec("100.00"), dec("100")))

	err := domain.ValidateBalance(dec("100"), dec("90"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "debits 100.00 != credits 90.00 (delta 10.00)")
}

func TestEntryNumberFormatting(t *testing.T) {
	prefix := domain.EntryNumberPrefix(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "JE-202403", prefix)
	assert.Equal(t, "JE-202403-000042", domain.FormatEntryNumber(prefix, 42))
}

func TestNonZeroLines(t *testing.T) {
	candidates := []domain.LineInput{
		domain.DebitLine("5000", dec("100"), "tax"),
		domain.DebitLine("5010", decimal.Zero, "penalty"),
		domain.CreditLine("2000", dec("100"), "tax"),
		domain.CreditLine("2010", decimal.Zero, "penalty"),
	}

	lines := domain.NonZeroLines(candidates)

	require.Len(t, lines, 2)
	assert.Equal(t, "5000", lines[0].AccountNumber)
	assert.Equal(t, "2000", lines[1].AccountNumber)
	assert.Empty(t, domain.NonZeroLines(candidates[1:2]))
}

func TestSwapSides(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "a1", AccountNumber: "1000", LineNumber: 1, Debit: dec("25"), Credit: decimal.Zero},
		{AccountID: "a2", AccountNumber: "2000", LineNumber: 2, Debit: decimal.Zero, Credit: dec("25")},
	}

	swapped := domain.SwapSides(lines)

	require.Len(t, swapped, 2)
	for i := range lines {
		assert.Equal(t, lines[i].AccountID, swapped[i].AccountID)
		assert.True(t, lines[i].Debit.Equal(swapped[i].Credit))
		assert.True(t, lines[i].Credit.Equal(swapped[i].Debit))
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "10.13", domain.FormatMoney(domain.RoundMoney(dec("10.125"))))
	assert.Equal(t, "-10.13", domain.FormatMoney(domain.RoundMoney(dec("-10.125"))))
	assert.Equal(t, "10.12", domain.FormatMoney(domain.RoundMoney(dec("10.124"))))
}
