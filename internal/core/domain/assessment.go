package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxComponent is one of the separately accounted parts of a tax amount.
type TaxComponent string

const (
	ComponentTax      TaxComponent = "TAX"
	ComponentPenalty  TaxComponent = "PENALTY"
	ComponentInterest TaxComponent = "INTEREST"
)

// TaxComponents lists components in the order their lines are built.
var TaxComponents = []TaxComponent{ComponentTax, ComponentPenalty, ComponentInterest}

// Assessment is a computed tax assessment handed to the ledger by the tax-rule layer.
type Assessment struct {
	AssessmentID   string          `json:"assessmentID"`
	TenantID       string          `json:"tenantID"`
	FilerID        string          `json:"filerID"`
	MunicipalityID string          `json:"municipalityID"`
	AssessmentDate time.Time       `json:"assessmentDate"`
	Tax            decimal.Decimal `json:"tax"`
	Penalty        decimal.Decimal `json:"penalty"`
	Interest       decimal.Decimal `json:"interest"`
}

// Amount returns the assessed amount for one component.
func (a Assessment) Amount(c TaxComponent) decimal.Decimal {
	switch c {
	case ComponentPenalty:
		return a.Penalty
	case ComponentInterest:
		return a.Interest
	default:
		return a.Tax
	}
}

// AssessmentPosting is the result of posting an assessment.
type AssessmentPosting struct {
	Assessment Assessment `json:"assessment"`
	PostedPair
}
