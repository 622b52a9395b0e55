package dto

import (
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to add an account to a tenant's chart.
type CreateAccountRequest struct {
	AccountNumber       string               `json:"accountNumber" binding:"required,max=32"`
	Name                string               `json:"name" binding:"required,max=255"`
	AccountType         domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance       domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // Defaults from the type
	ParentAccountNumber string               `json:"parentAccountNumber"`
	Description         string               `json:"description"`
}

// ToChartAccount converts the request to a chart definition.
func (r CreateAccountRequest) ToChartAccount() domain.ChartAccount {
	return domain.ChartAccount{
		Number:        r.AccountNumber,
		Name:          r.Name,
		Type:          r.AccountType,
		NormalBalance: r.NormalBalance,
		Parent:        r.ParentAccountNumber,
		Description:   r.Description,
	}
}

// SeedChartRequest seeds a tenant's chart. An empty account list seeds the standard municipal chart.
type SeedChartRequest struct {
	Accounts []CreateAccountRequest `json:"accounts" binding:"omitempty,dive"`
}

// ToChart converts the request to chart definitions, falling back to the standard chart.
func (r SeedChartRequest) ToChart() []domain.ChartAccount {
	if len(r.Accounts) == 0 {
		return domain.DefaultMunicipalChart()
	}
	chart := make([]domain.ChartAccount, len(r.Accounts))
	for i, a := range r.Accounts {
		chart[i] = a.ToChartAccount()
	}
	return chart
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	TenantID        string               `json:"tenantID"`
	AccountNumber   string               `json:"accountNumber"`
	Name            string               `json:"name"`
	AccountType     domain.AccountType   `json:"accountType"`
	NormalBalance   domain.NormalBalance `json:"normalBalance"`
	ParentAccountID *string              `json:"parentAccountID,omitempty"`
	Description     string               `json:"description"`
	IsActive        bool                 `json:"isActive"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		TenantID:        acc.TenantID,
		AccountNumber:   acc.AccountNumber,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		NormalBalance:   acc.NormalBalance,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountsResponse converts a slice of domain.Account to ListAccountsResponse.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: list}
}
