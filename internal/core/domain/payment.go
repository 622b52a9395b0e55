package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the authorization outcome recorded for a payment attempt.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING" // Recorded, authorization outstanding
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentDeclined PaymentStatus = "DECLINED"
	PaymentError    PaymentStatus = "ERROR"
)

// PaymentBreakdown allocates a payment across tax components.
type PaymentBreakdown struct {
	ToTax      decimal.Decimal `json:"toTax"`
	ToPenalty  decimal.Decimal `json:"toPenalty"`
	ToInterest decimal.Decimal `json:"toInterest"`
}

// Total sums the allocated components.
func (b PaymentBreakdown) Total() decimal.Decimal {
	return b.ToTax.Add(b.ToPenalty).Add(b.ToInterest)
}

// Amount returns the allocation for one component.
func (b PaymentBreakdown) Amount(c TaxComponent) decimal.Decimal {
	switch c {
	case ComponentPenalty:
		return b.ToPenalty
	case ComponentInterest:
		return b.ToInterest
	default:
		return b.ToTax
	}
}

// ResolveBreakdown returns the allocation for amount. A nil breakdown puts everything on tax;
// a supplied one must have no negative component and must sum exactly to amount.
func ResolveBreakdown(amount decimal.Decimal, breakdown *PaymentBreakdown) (PaymentBreakdown, error) {
	if breakdown == nil {
		return PaymentBreakdown{ToTax: amount, ToPenalty: decimal.Zero, ToInterest: decimal.Zero}, nil
	}
	b := PaymentBreakdown{
		ToTax:      RoundMoney(breakdown.ToTax),
		ToPenalty:  RoundMoney(breakdown.ToPenalty),
		ToInterest: RoundMoney(breakdown.ToInterest),
	}
	if b.ToTax.IsNegative() || b.ToPenalty.IsNegative() || b.ToInterest.IsNegative() {
		return PaymentBreakdown{}, fmt.Errorf("%w: payment breakdown components must not be negative", apperrors.ErrValidation)
	}
	if !b.Total().Equal(amount) {
		return PaymentBreakdown{}, fmt.Errorf("%w: payment breakdown totals %s but payment amount is %s",
			apperrors.ErrValidation, FormatMoney(b.Total()), FormatMoney(amount))
	}
	return b, nil
}

// AuthorizationRequest is sent to the payment authorization collaborator.
type AuthorizationRequest struct {
	PaymentID  string            `json:"paymentID"`
	Amount     decimal.Decimal   `json:"amount"`
	Method     string            `json:"method"`
	Instrument map[string]string `json:"instrument"`
}

// Authorization is the collaborator's answer for one payment attempt.
type Authorization struct {
	Status                PaymentStatus `json:"status"`
	ProviderTransactionID string        `json:"providerTransactionID"`
	AuthorizationCode     *string       `json:"authorizationCode,omitempty"`
	FailureReason         *string       `json:"failureReason,omitempty"`
}

// PaymentTransaction records one payment attempt, whatever its outcome.
type PaymentTransaction struct {
	PaymentID             string           `json:"paymentID"`
	TenantID              string           `json:"tenantID"`
	FilerID               string           `json:"filerID"`
	MunicipalityID        string           `json:"municipalityID"`
	PaymentDate           time.Time        `json:"paymentDate"`
	Amount                decimal.Decimal  `json:"amount"`
	Method                string           `json:"method"`
	Breakdown             PaymentBreakdown `json:"breakdown"`
	Status                PaymentStatus    `json:"status"`
	ProviderTransactionID string           `json:"providerTransactionID"`
	AuthorizationCode     *string          `json:"authorizationCode,omitempty"`
	FailureReason         *string          `json:"failureReason,omitempty"`
	JournalEntryID        *string          `json:"journalEntryID"`                // Filer leg, nil unless APPROVED
	MunicipalityEntryID   *string          `json:"municipalityEntryID,omitempty"` // Municipality leg
	AuditFields
}

// PaymentRequest is an incoming payment from a filer to a municipality.
type PaymentRequest struct {
	PaymentID      string
	TenantID       string
	FilerID        string
	MunicipalityID string
	PaymentDate    time.Time
	Amount         decimal.Decimal
	Method         string
	Instrument     map[string]string
	Breakdown      *PaymentBreakdown
}
