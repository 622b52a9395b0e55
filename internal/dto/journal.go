package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// LineRequest is one debit or credit of a manual posting.
type LineRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Debit         decimal.Decimal `json:"debit" binding:"money"`
	Credit        decimal.Decimal `json:"credit" binding:"money"`
	Description   string          `json:"description"`
}

// PostEntryRequest defines the data needed to post a journal entry.
type PostEntryRequest struct {
	SubjectEntityID string        `json:"subjectEntityID"`
	EntryDate       string        `json:"entryDate" binding:"required"`
	Description     string        `json:"description" binding:"required"`
	SourceType      string        `json:"sourceType"` // Defaults to MANUAL
	SourceID        string        `json:"sourceID"`
	Lines           []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToPostingRequest converts the request for the poster.
func (r PostEntryRequest) ToPostingRequest(tenantID, actor string) (domain.PostingRequest, error) {
	entryDate, err := ParseDate("entryDate", r.EntryDate)
	if err != nil {
		return domain.PostingRequest{}, err
	}
	sourceType := domain.SourceType(r.SourceType)
	if sourceType == "" {
		sourceType = domain.SourceManual
	}
	lines := make([]domain.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.LineInput{
			AccountNumber: l.AccountNumber,
			Debit:         l.Debit,
			Credit:        l.Credit,
			Description:   l.Description,
		}
	}
	return domain.PostingRequest{
		TenantID:        tenantID,
		SubjectEntityID: r.SubjectEntityID,
		EntryDate:       entryDate,
		Description:     r.Description,
		SourceType:      sourceType,
		SourceID:        r.SourceID,
		Actor:           actor,
		Lines:           lines,
	}, nil
}

// ReverseEntryRequest carries the reason recorded with a reversal.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNumber    int    `json:"lineNumber"`
	AccountID     string `json:"accountID"`
	AccountNumber string `json:"accountNumber"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
	Description   string `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry and its lines.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	TenantID          string                `json:"tenantID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         string                `json:"entryDate"`
	Description       string                `json:"description"`
	SourceType        domain.SourceType     `json:"sourceType"`
	SourceID          string                `json:"sourceID"`
	Status            domain.EntryStatus    `json:"status"`
	SubjectEntityID   string                `json:"subjectEntityID,omitempty"`
	PostedBy          string                `json:"postedBy"`
	PostedAt          time.Time             `json:"postedAt"`
	ReversedBy        *string               `json:"reversedBy,omitempty"`
	ReversedAt        *time.Time            `json:"reversedAt,omitempty"`
	ReversalReason    string                `json:"reversalReason,omitempty"`
	ReversalOfID      *string               `json:"reversalOfID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	TotalDebits       string                `json:"totalDebits"`
	TotalCredits      string                `json:"totalCredits"`
	Lines             []JournalLineResponse `json:"lines"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	debits, credits := e.Totals()
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNumber:    l.LineNumber,
			AccountID:     l.AccountID,
			AccountNumber: l.AccountNumber,
			Debit:         domain.FormatMoney(l.Debit),
			Credit:        domain.FormatMoney(l.Credit),
			Description:   l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		TenantID:          e.TenantID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         formatDate(e.EntryDate),
		Description:       e.Description,
		SourceType:        e.SourceType,
		SourceID:          e.SourceID,
		Status:            e.Status,
		SubjectEntityID:   e.SubjectEntityID,
		PostedBy:          e.PostedBy,
		PostedAt:          e.PostedAt,
		ReversedBy:        e.ReversedBy,
		ReversedAt:        e.ReversedAt,
		ReversalReason:    e.ReversalReason,
		ReversalOfID:      e.ReversalOfID,
		ReversedByEntryID: e.ReversedByEntryID,
		TotalDebits:       domain.FormatMoney(debits),
		TotalCredits:      domain.FormatMoney(credits),
		Lines:             lines,
	}
}

// PostedPairResponse returns both legs of a two-sided posting.
type PostedPairResponse struct {
	FilerEntry        JournalEntryResponse `json:"filerEntry"`
	MunicipalityEntry JournalEntryResponse `json:"municipalityEntry"`
}

// ToPostedPairResponse converts a domain.PostedPair to its response DTO.
func ToPostedPairResponse(p *domain.PostedPair) PostedPairResponse {
	return PostedPairResponse{
		FilerEntry:        ToJournalEntryResponse(p.Filer),
		MunicipalityEntry: ToJournalEntryResponse(p.Municipality),
	}
}
