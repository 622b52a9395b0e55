package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in trial balance presentation order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DefaultNormalBalance returns the side on which an account of this type increases.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	if t == Asset || t == Expense {
		return NormalDebit
	}
	return NormalCredit
}

// NormalBalance is the side (DEBIT or CREDIT) on which an account naturally increases.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// IsValid reports whether n is DEBIT or CREDIT.
func (n NormalBalance) IsValid() bool {
	return n == NormalDebit || n == NormalCredit
}

// Account represents a ledger account within a tenant's chart of accounts.
type Account struct {
	AccountID       string        `json:"accountID"`     // Primary Key (UUID)
	TenantID        string        `json:"tenantID"`      // Owning tenant (municipality ledger)
	AccountNumber   string        `json:"accountNumber"` // Unique per tenant
	Name            string        `json:"name"`
	AccountType     AccountType   `json:"accountType"`
	NormalBalance   NormalBalance `json:"normalBalance"`
	ParentAccountID *string       `json:"parentAccountID,omitempty"` // Same tenant
	Description     string        `json:"description"`
	IsActive        bool          `json:"isActive"` // Accounts are deactivated, never deleted
	AuditFields
}
