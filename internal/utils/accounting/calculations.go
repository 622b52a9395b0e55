package accounting

import (
	"fmt"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance orients raw debit and credit volume by an account's normal balance.
// A debit-normal account grows with debits, a credit-normal account grows with credits.
func SignedBalance(debits, credits decimal.Decimal, normal domain.NormalBalance) decimal.Decimal {
	if normal == domain.NormalDebit {
		return debits.Sub(credits)
	}
	return credits.Sub(debits)
}

// TrialBalanceColumns places a signed balance into the debit or credit column.
// A positive balance lands on the account's normal side and a negative one on the opposite side.
func TrialBalanceColumns(balance decimal.Decimal, normal domain.NormalBalance) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	onNormalSide := !balance.IsNegative()
	amount := balance.Abs()
	if (normal == domain.NormalDebit) == onNormalSide {
		debit = amount
	} else {
		credit = amount
	}
	return debit, credit
}

// ValidateJournalLines checks every line and then that the entry balances to the cent.
func ValidateJournalLines(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: journal entry must have at least one line", apperrors.ErrValidation)
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	return domain.ValidateBalance(debits, credits)
}
