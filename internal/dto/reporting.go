package dto

import (
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID     string               `json:"accountID"`
	AccountNumber string               `json:"accountNumber"`
	AccountName   string               `json:"accountName"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	Debit         string               `json:"debit"`
	Credit        string               `json:"credit"`
	Balance       string               `json:"balance"`
}

// TypeTotalsResponse is the subtotal of one account type.
type TypeTotalsResponse struct {
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
	Balance string `json:"balance"`
}

// TrialBalanceResponse defines the trial balance report payload.
type TrialBalanceResponse struct {
	TenantID       string                                           `json:"tenantID"`
	AsOf           *string                                          `json:"asOf,omitempty"`
	Accounts       []TrialBalanceRowResponse                        `json:"accounts"`
	AccountsByType map[domain.AccountType][]TrialBalanceRowResponse `json:"accountsByType"`
	TotalsByType   map[domain.AccountType]TypeTotalsResponse        `json:"totalsByType"`
	TotalDebits    string                                           `json:"totalDebits"`
	TotalCredits   string                                           `json:"totalCredits"`
	Difference     string                                           `json:"difference"`
	Balanced       bool                                             `json:"balanced"`
	Status         domain.TrialBalanceStatus                        `json:"status"`
	GeneratedAt    time.Time                                        `json:"generatedAt"`
}

func toTrialBalanceRowResponse(r domain.TrialBalanceRow) TrialBalanceRowResponse {
	return TrialBalanceRowResponse{
		AccountID:     r.AccountID,
		AccountNumber: r.AccountNumber,
		AccountName:   r.AccountName,
		AccountType:   r.AccountType,
		NormalBalance: r.NormalBalance,
		Debit:         domain.FormatMoney(r.Debit),
		Credit:        domain.FormatMoney(r.Credit),
		Balance:       domain.FormatMoney(r.Balance),
	}
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its response DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Accounts))
	for i, r := range tb.Accounts {
		rows[i] = toTrialBalanceRowResponse(r)
	}
	byType := make(map[domain.AccountType][]TrialBalanceRowResponse, len(tb.AccountsByType))
	for t, group := range tb.AccountsByType {
		converted := make([]TrialBalanceRowResponse, len(group))
		for i, r := range group {
			converted[i] = toTrialBalanceRowResponse(r)
		}
		byType[t] = converted
	}
	totals := make(map[domain.AccountType]TypeTotalsResponse, len(tb.TotalsByType))
	for t, tt := range tb.TotalsByType {
		totals[t] = TypeTotalsResponse{
			Debit:   domain.FormatMoney(tt.Debit),
			Credit:  domain.FormatMoney(tt.Credit),
			Balance: domain.FormatMoney(tt.Balance),
		}
	}
	return TrialBalanceResponse{
		TenantID:       tb.TenantID,
		AsOf:           formatOptionalDate(tb.AsOf),
		Accounts:       rows,
		AccountsByType: byType,
		TotalsByType:   totals,
		TotalDebits:    domain.FormatMoney(tb.TotalDebits),
		TotalCredits:   domain.FormatMoney(tb.TotalCredits),
		Difference:     domain.FormatMoney(tb.Difference),
		Balanced:       tb.Balanced,
		Status:         tb.Status,
		GeneratedAt:    tb.GeneratedAt,
	}
}

// StatementLineResponse is one transaction on a filer statement.
type StatementLineResponse struct {
	EntryID        string            `json:"entryID"`
	EntryNumber    string            `json:"entryNumber"`
	EntryDate      string            `json:"entryDate"`
	Description    string            `json:"description"`
	SourceType     domain.SourceType `json:"sourceType"`
	SourceID       string            `json:"sourceID"`
	AccountNumber  string            `json:"accountNumber"`
	AccountName    string            `json:"accountName"`
	Debit          string            `json:"debit"`
	Credit         string            `json:"credit"`
	RunningBalance string            `json:"runningBalance"`
}

// FilerStatementResponse defines the filer statement payload.
type FilerStatementResponse struct {
	TenantID         string                  `json:"tenantID"`
	FilerID          string                  `json:"filerID"`
	AccountName      string                  `json:"accountName"`
	StatementDate    string                  `json:"statementDate"`
	StartDate        *string                 `json:"startDate,omitempty"`
	EndDate          *string                 `json:"endDate,omitempty"`
	BeginningBalance string                  `json:"beginningBalance"`
	EndingBalance    string                  `json:"endingBalance"`
	TotalDebits      string                  `json:"totalDebits"`
	TotalCredits     string                  `json:"totalCredits"`
	Transactions     []StatementLineResponse `json:"transactions"`
}

// ToFilerStatementResponse converts a domain.FilerStatement to its response DTO.
func ToFilerStatementResponse(s *domain.FilerStatement) FilerStatementResponse {
	lines := make([]StatementLineResponse, len(s.Transactions))
	for i, l := range s.Transactions {
		lines[i] = StatementLineResponse{
			EntryID:        l.EntryID,
			EntryNumber:    l.EntryNumber,
			EntryDate:      formatDate(l.EntryDate),
			Description:    l.Description,
			SourceType:     l.SourceType,
			SourceID:       l.SourceID,
			AccountNumber:  l.AccountNumber,
			AccountName:    l.AccountName,
			Debit:          domain.FormatMoney(l.Debit),
			Credit:         domain.FormatMoney(l.Credit),
			RunningBalance: domain.FormatMoney(l.RunningBalance),
		}
	}
	return FilerStatementResponse{
		TenantID:         s.TenantID,
		FilerID:          s.FilerID,
		AccountName:      s.AccountName,
		StatementDate:    formatDate(s.StatementDate),
		StartDate:        formatOptionalDate(s.StartDate),
		EndDate:          formatOptionalDate(s.EndDate),
		BeginningBalance: domain.FormatMoney(s.BeginningBalance),
		EndingBalance:    domain.FormatMoney(s.EndingBalance),
		TotalDebits:      domain.FormatMoney(s.TotalDebits),
		TotalCredits:     domain.FormatMoney(s.TotalCredits),
		Transactions:     lines,
	}
}
