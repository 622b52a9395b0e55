package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceStatus summarizes whether the trial balance ties out.
type TrialBalanceStatus string

const (
	StatusBalanced   TrialBalanceStatus = "BALANCED"
	StatusUnbalanced TrialBalanceStatus = "UNBALANCED"
)

// AccountActivity is the raw debit and credit volume posted to one account.
type AccountActivity struct {
	AccountID string
	Debits    decimal.Decimal
	Credits   decimal.Decimal
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"` // Signed by normal balance
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// TypeTotals is the subtotal of one account type group.
type TypeTotals struct {
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance is a point-in-time listing of every account's balance for a tenant.
type TrialBalance struct {
	TenantID       string                            `json:"tenantID"`
	AsOf           *time.Time                        `json:"asOf,omitempty"`
	Accounts       []TrialBalanceRow                 `json:"accounts"`
	TotalDebits    decimal.Decimal                   `json:"totalDebits"`
	TotalCredits   decimal.Decimal                   `json:"totalCredits"`
	Difference     decimal.Decimal                   `json:"difference"`
	Balanced       bool                              `json:"balanced"`
	Status         TrialBalanceStatus                `json:"status"`
	AccountsByType map[AccountType][]TrialBalanceRow `json:"accountsByType"`
	TotalsByType   map[AccountType]TypeTotals        `json:"totalsByType"`
	GeneratedAt    time.Time                         `json:"generatedAt"`
}

// PostedLine is a journal line joined with its entry header and account, as read for statements.
type PostedLine struct {
	EntryID          string
	EntryNumber      string
	Sequence         int64
	EntryDate        time.Time
	EntryDescription string
	SourceType       SourceType
	SourceID         string
	Status           EntryStatus
	LineNumber       int
	AccountID        string
	AccountNumber    string
	AccountName      string
	NormalBalance    NormalBalance
	Debit            decimal.Decimal
	Credit           decimal.Decimal
	Description      string
}

// LineFilter selects posted lines for a subject entity. Nil dates are unbounded.
type LineFilter struct {
	TenantID        string
	SubjectEntityID string
	AccountIDs      []string
	StartDate       *time.Time
	EndDate         *time.Time
}
