package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one line of a filer statement with the balance after it.
type StatementLine struct {
	EntryID        string          `json:"entryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	SourceType     SourceType      `json:"sourceType"`
	SourceID       string          `json:"sourceID"`
	AccountNumber  string          `json:"accountNumber"`
	AccountName    string          `json:"accountName"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// FilerStatement is the chronological account history of one filer within a date window.
type FilerStatement struct {
	TenantID         string          `json:"tenantID"`
	FilerID          string          `json:"filerID"`
	AccountName      string          `json:"accountName"`
	StatementDate    time.Time       `json:"statementDate"`
	StartDate        *time.Time      `json:"startDate,omitempty"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	Transactions     []StatementLine `json:"transactions"`
	TotalDebits      decimal.Decimal `json:"totalDebits"`
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	EndingBalance    decimal.Decimal `json:"endingBalance"`
}
