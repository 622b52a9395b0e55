package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// SourceType correlates an entry to the kind of business event that produced it.
type SourceType string

const (
	SourceManual         SourceType = "MANUAL"
	SourceAssessment     SourceType = "TAX_ASSESSMENT"
	SourcePayment        SourceType = "PAYMENT"
	SourceRefundRequest  SourceType = "REFUND_REQUEST"
	SourceRefundIssuance SourceType = "REFUND_ISSUANCE"
	SourceReversal       SourceType = "REVERSAL"
)

// JournalEntry is an atomic, balanced set of lines recorded once against the ledger.
// Entries are never edited after posting; the only change an entry ever sees is the
// REVERSED status flip together with its reversal link.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	TenantID          string        `json:"tenantID"`
	EntryNumber       string        `json:"entryNumber"` // JE-YYYYMM-NNNNNN
	Sequence          int64         `json:"sequence"`    // Per tenant+prefix, monotonic
	EntryDate         time.Time     `json:"entryDate"`
	Description       string        `json:"description"`
	SourceType        SourceType    `json:"sourceType"`
	SourceID          string        `json:"sourceID"`
	Status            EntryStatus   `json:"status"`
	SubjectEntityID   string        `json:"subjectEntityID"` // Filer or municipality, may be empty
	PostedBy          string        `json:"postedBy"`
	PostedAt          time.Time     `json:"postedAt"`
	ReversedBy        *string       `json:"reversedBy,omitempty"`
	ReversedAt        *time.Time    `json:"reversedAt,omitempty"`
	ReversalReason    string        `json:"reversalReason,omitempty"`
	ReversalOfID      *string       `json:"reversalOfID,omitempty"`      // Set on the mirror entry
	ReversedByEntryID *string       `json:"reversedByEntryID,omitempty"` // Set on the original
	Lines             []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID        string          `json:"lineID"`
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	LineNumber    int             `json:"lineNumber"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
}

// Validate checks that exactly one side of the line is non-zero and neither is negative.
func (l JournalLine) Validate() error {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d on account %s has a negative amount", apperrors.ErrValidation, l.LineNumber, l.AccountNumber)
	}
	if l.Debit.IsZero() == l.Credit.IsZero() {
		return fmt.Errorf("%w: line %d on account %s must have exactly one non-zero side", apperrors.ErrValidation, l.LineNumber, l.AccountNumber)
	}
	return nil
}

// Totals sums the debit and credit sides of the entry's lines.
func (e JournalEntry) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// IsReversal reports whether the entry is the mirror of another entry.
func (e JournalEntry) IsReversal() bool {
	return e.ReversalOfID != nil
}

// EntryNumberPrefix returns the numbering prefix for an entry dated d.
func EntryNumberPrefix(d time.Time) string {
	return "JE-" + d.Format("200601")
}

// FormatEntryNumber renders the human-facing entry number for a reserved sequence.
func FormatEntryNumber(prefix string, sequence int64) string {
	return fmt.Sprintf("%s-%06d", prefix, sequence)
}

// ValidateBalance enforces sum(debits) == sum(credits), naming the exact delta when it fails.
func ValidateBalance(debits, credits decimal.Decimal) error {
	if debits.Equal(credits) {
		return nil
	}
	return fmt.Errorf("%w: entry is unbalanced: debits %s != credits %s (delta %s)",
		apperrors.ErrValidation, FormatMoney(debits), FormatMoney(credits), FormatMoney(debits.Sub(credits).Abs()))
}

// SwapSides returns a copy of lines with debit and credit exchanged, used by reversals.
func SwapSides(lines []JournalLine) []JournalLine {
	swapped := make([]JournalLine, len(lines))
	for i, l := range lines {
		swapped[i] = JournalLine{
			AccountID:     l.AccountID,
			AccountNumber: l.AccountNumber,
			LineNumber:    l.LineNumber,
			Debit:         l.Credit,
			Credit:        l.Debit,
			Description:   l.Description,
		}
	}
	return swapped
}
