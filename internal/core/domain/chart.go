package domain

// ChartAccount is an account definition used to seed a tenant's chart.
type ChartAccount struct {
	Number        string        `toml:"number" json:"number"`
	Name          string        `toml:"name" json:"name"`
	Type          AccountType   `toml:"type" json:"type"`
	NormalBalance NormalBalance `toml:"normal_balance" json:"normalBalance,omitempty"`
	Parent        string        `toml:"parent" json:"parent,omitempty"`
	Description   string        `toml:"description" json:"description,omitempty"`
}

// AccountMap names the accounts the tax adapters post to.
type AccountMap struct {
	Cash                   string
	RefundReceivable       string
	RefundsPayable         string
	RefundExpense          string
	FilerLiability         map[TaxComponent]string
	FilerExpense           map[TaxComponent]string
	MunicipalityReceivable map[TaxComponent]string
	MunicipalityRevenue    map[TaxComponent]string
}

// FilerStatementAccounts returns the account numbers that make up a filer's statement.
func (m AccountMap) FilerStatementAccounts() []string {
	numbers := make([]string, 0, len(TaxComponents))
	for _, c := range TaxComponents {
		numbers = append(numbers, m.FilerLiability[c])
	}
	return numbers
}

// DefaultAccountMap matches DefaultMunicipalChart.
func DefaultAccountMap() AccountMap {
	return AccountMap{
		Cash:             "1000",
		RefundReceivable: "1200",
		RefundsPayable:   "2100",
		RefundExpense:    "5100",
		FilerLiability: map[TaxComponent]string{
			ComponentTax:      "2000",
			ComponentPenalty:  "2010",
			ComponentInterest: "2020",
		},
		FilerExpense: map[TaxComponent]string{
			ComponentTax:      "5000",
			ComponentPenalty:  "5010",
			ComponentInterest: "5020",
		},
		MunicipalityReceivable: map[TaxComponent]string{
			ComponentTax:      "1100",
			ComponentPenalty:  "1110",
			ComponentInterest: "1120",
		},
		MunicipalityRevenue: map[TaxComponent]string{
			ComponentTax:      "4000",
			ComponentPenalty:  "4010",
			ComponentInterest: "4020",
		},
	}
}

// DefaultMunicipalChart returns the standard chart of accounts for a municipal tax ledger.
// Parents precede their children.
func DefaultMunicipalChart() []ChartAccount {
	return []ChartAccount{
		{Number: "1000", Name: "Cash", Type: Asset},
		{Number: "1100", Name: "Tax Receivable", Type: Asset},
		{Number: "1110", Name: "Penalty Receivable", Type: Asset, Parent: "1100"},
		{Number: "1120", Name: "Interest Receivable", Type: Asset, Parent: "1100"},
		{Number: "1200", Name: "Refund Receivable", Type: Asset},
		{Number: "2000", Name: "Filer Tax Liability", Type: Liability},
		{Number: "2010", Name: "Filer Penalty Liability", Type: Liability, Parent: "2000"},
		{Number: "2020", Name: "Filer Interest Liability", Type: Liability, Parent: "2000"},
		{Number: "2100", Name: "Refunds Payable", Type: Liability},
		{Number: "3000", Name: "Fund Balance", Type: Equity},
		{Number: "4000", Name: "Tax Revenue", Type: Revenue},
		{Number: "4010", Name: "Penalty Revenue", Type: Revenue, Parent: "4000"},
		{Number: "4020", Name: "Interest Revenue", Type: Revenue, Parent: "4000"},
		{Number: "5000", Name: "Filer Tax Expense", Type: Expense},
		{Number: "5010", Name: "Filer Penalty Expense", Type: Expense, Parent: "5000"},
		{Number: "5020", Name: "Filer Interest Expense", Type: Expense, Parent: "5000"},
		{Number: "5100", Name: "Refund Expense", Type: Expense},
	}
}
