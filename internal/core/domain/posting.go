package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineInput is a candidate journal line addressed by account number.
type LineInput struct {
	AccountNumber string          `json:"accountNumber"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
}

// DebitLine builds a debit-side candidate line.
func DebitLine(accountNumber string, amount decimal.Decimal, description string) LineInput {
	return LineInput{AccountNumber: accountNumber, Debit: amount, Credit: decimal.Zero, Description: description}
}

// CreditLine builds a credit-side candidate line.
func CreditLine(accountNumber string, amount decimal.Decimal, description string) LineInput {
	return LineInput{AccountNumber: accountNumber, Debit: decimal.Zero, Credit: amount, Description: description}
}

// IsZero reports whether both sides of the line are zero.
func (l LineInput) IsZero() bool {
	return l.Debit.IsZero() && l.Credit.IsZero()
}

// NonZeroLines drops candidate lines whose debit and credit are both zero.
// Adapters build one candidate per component and run them through this filter
// before validation, so a zero component never produces a line.
func NonZeroLines(candidates []LineInput) []LineInput {
	lines := make([]LineInput, 0, len(candidates))
	for _, c := range candidates {
		if c.IsZero() {
			continue
		}
		lines = append(lines, c)
	}
	return lines
}

// PostingRequest carries everything needed to post one journal entry.
type PostingRequest struct {
	TenantID        string
	SubjectEntityID string
	EntryDate       time.Time
	Description     string
	SourceType      SourceType
	SourceID        string
	Actor           string
	Lines           []LineInput
}

// PostingPair is the two-sided posting of one business event: the filer's view
// and the municipality's view, sharing a source reference.
type PostingPair struct {
	Filer        PostingRequest
	Municipality PostingRequest
}

// PostedPair holds both legs of a committed PostingPair.
type PostedPair struct {
	Filer        *JournalEntry `json:"filerEntry"`
	Municipality *JournalEntry `json:"municipalityEntry"`
}
