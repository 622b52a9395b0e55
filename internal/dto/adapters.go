package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// Amount checks for the tax adapters live in the services so API and CLI callers
// get the same messages.

// AssessmentRequest carries a computed assessment from the tax-rule layer.
type AssessmentRequest struct {
	AssessmentID   string          `json:"assessmentID" binding:"required"`
	FilerID        string          `json:"filerID" binding:"required"`
	MunicipalityID string          `json:"municipalityID" binding:"required"`
	AssessmentDate string          `json:"assessmentDate" binding:"required"`
	Tax            decimal.Decimal `json:"tax"`
	Penalty        decimal.Decimal `json:"penalty"`
	Interest       decimal.Decimal `json:"interest"`
}

// ToAssessment converts the request to a domain.Assessment.
func (r AssessmentRequest) ToAssessment(tenantID string) (domain.Assessment, error) {
	date, err := ParseDate("assessmentDate", r.AssessmentDate)
	if err != nil {
		return domain.Assessment{}, err
	}
	return domain.Assessment{
		AssessmentID:   r.AssessmentID,
		TenantID:       tenantID,
		FilerID:        r.FilerID,
		MunicipalityID: r.MunicipalityID,
		AssessmentDate: date,
		Tax:            r.Tax,
		Penalty:        r.Penalty,
		Interest:       r.Interest,
	}, nil
}

// AssessmentResponse returns the assessment and both posted legs.
type AssessmentResponse struct {
	AssessmentID      string               `json:"assessmentID"`
	FilerID           string               `json:"filerID"`
	MunicipalityID    string               `json:"municipalityID"`
	AssessmentDate    string               `json:"assessmentDate"`
	Tax               string               `json:"tax"`
	Penalty           string               `json:"penalty"`
	Interest          string               `json:"interest"`
	FilerEntry        JournalEntryResponse `json:"filerEntry"`
	MunicipalityEntry JournalEntryResponse `json:"municipalityEntry"`
}

// ToAssessmentResponse converts a domain.AssessmentPosting to its response DTO.
func ToAssessmentResponse(p *domain.AssessmentPosting) AssessmentResponse {
	a := p.Assessment
	return AssessmentResponse{
		AssessmentID:      a.AssessmentID,
		FilerID:           a.FilerID,
		MunicipalityID:    a.MunicipalityID,
		AssessmentDate:    formatDate(a.AssessmentDate),
		Tax:               domain.FormatMoney(a.Tax),
		Penalty:           domain.FormatMoney(a.Penalty),
		Interest:          domain.FormatMoney(a.Interest),
		FilerEntry:        ToJournalEntryResponse(p.Filer),
		MunicipalityEntry: ToJournalEntryResponse(p.Municipality),
	}
}

// BreakdownRequest allocates a payment across components.
type BreakdownRequest struct {
	ToTax      decimal.Decimal `json:"toTax"`
	ToPenalty  decimal.Decimal `json:"toPenalty"`
	ToInterest decimal.Decimal `json:"toInterest"`
}

// PaymentRequest defines an incoming payment.
type PaymentRequest struct {
	PaymentID      string            `json:"paymentID" binding:"required"`
	FilerID        string            `json:"filerID" binding:"required"`
	MunicipalityID string            `json:"municipalityID" binding:"required"`
	PaymentDate    string            `json:"paymentDate" binding:"required"`
	Amount         decimal.Decimal   `json:"amount"`
	Method         string            `json:"method" binding:"required"`
	Instrument     map[string]string `json:"instrument"`
	Breakdown      *BreakdownRequest `json:"breakdown"` // Defaults to all tax
}

// ToPaymentRequest converts the request to a domain.PaymentRequest.
func (r PaymentRequest) ToPaymentRequest(tenantID string) (domain.PaymentRequest, error) {
	date, err := ParseDate("paymentDate", r.PaymentDate)
	if err != nil {
		return domain.PaymentRequest{}, err
	}
	var breakdown *domain.PaymentBreakdown
	if r.Breakdown != nil {
		breakdown = &domain.PaymentBreakdown{
			ToTax:      r.Breakdown.ToTax,
			ToPenalty:  r.Breakdown.ToPenalty,
			ToInterest: r.Breakdown.ToInterest,
		}
	}
	return domain.PaymentRequest{
		PaymentID:      r.PaymentID,
		TenantID:       tenantID,
		FilerID:        r.FilerID,
		MunicipalityID: r.MunicipalityID,
		PaymentDate:    date,
		Amount:         r.Amount,
		Method:         r.Method,
		Instrument:     r.Instrument,
		Breakdown:      breakdown,
	}, nil
}

// PaymentResponse defines the data returned for a payment attempt.
type PaymentResponse struct {
	PaymentID             string               `json:"paymentID"`
	FilerID               string               `json:"filerID"`
	MunicipalityID        string               `json:"municipalityID"`
	PaymentDate           string               `json:"paymentDate"`
	Amount                string               `json:"amount"`
	Method                string               `json:"method"`
	ToTax                 string               `json:"toTax"`
	ToPenalty             string               `json:"toPenalty"`
	ToInterest            string               `json:"toInterest"`
	Status                domain.PaymentStatus `json:"status"`
	ProviderTransactionID string               `json:"providerTransactionID,omitempty"`
	AuthorizationCode     *string              `json:"authorizationCode,omitempty"`
	FailureReason         *string              `json:"failureReason,omitempty"`
	JournalEntryID        *string              `json:"journalEntryID"`
	MunicipalityEntryID   *string              `json:"municipalityEntryID,omitempty"`
	CreatedAt             time.Time            `json:"createdAt"`
	CreatedBy             string               `json:"createdBy"`
}

// ToPaymentResponse converts a domain.PaymentTransaction to its response DTO.
func ToPaymentResponse(p *domain.PaymentTransaction) PaymentResponse {
	return PaymentResponse{
		PaymentID:             p.PaymentID,
		FilerID:               p.FilerID,
		MunicipalityID:        p.MunicipalityID,
		PaymentDate:           formatDate(p.PaymentDate),
		Amount:                domain.FormatMoney(p.Amount),
		Method:                p.Method,
		ToTax:                 domain.FormatMoney(p.Breakdown.ToTax),
		ToPenalty:             domain.FormatMoney(p.Breakdown.ToPenalty),
		ToInterest:            domain.FormatMoney(p.Breakdown.ToInterest),
		Status:                p.Status,
		ProviderTransactionID: p.ProviderTransactionID,
		AuthorizationCode:     p.AuthorizationCode,
		FailureReason:         p.FailureReason,
		JournalEntryID:        p.JournalEntryID,
		MunicipalityEntryID:   p.MunicipalityEntryID,
		CreatedAt:             p.CreatedAt,
		CreatedBy:             p.CreatedBy,
	}
}

// RefundRequest opens a refund.
type RefundRequest struct {
	RefundID       string          `json:"refundID" binding:"required"`
	FilerID        string          `json:"filerID" binding:"required"`
	MunicipalityID string          `json:"municipalityID" binding:"required"`
	RequestDate    string          `json:"requestDate" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason" binding:"max=1000"`
}

// ToRefundRequest converts the request to a domain.RefundRequest.
func (r RefundRequest) ToRefundRequest(tenantID string) (domain.RefundRequest, error) {
	date, err := ParseDate("requestDate", r.RequestDate)
	if err != nil {
		return domain.RefundRequest{}, err
	}
	return domain.RefundRequest{
		RefundID:       r.RefundID,
		TenantID:       tenantID,
		FilerID:        r.FilerID,
		MunicipalityID: r.MunicipalityID,
		RequestDate:    date,
		Amount:         r.Amount,
		Reason:         r.Reason,
	}, nil
}

// IssueRefundRequest issues a requested refund. Omitted fields default to the
// requested amount and today's date.
type IssueRefundRequest struct {
	Amount    *decimal.Decimal `json:"amount"`
	IssueDate string           `json:"issueDate"`
}

// RefundResponse defines the data returned for a refund.
type RefundResponse struct {
	RefundID                   string              `json:"refundID"`
	FilerID                    string              `json:"filerID"`
	MunicipalityID             string              `json:"municipalityID"`
	RequestedAmount            string              `json:"requestedAmount"`
	IssuedAmount               *string             `json:"issuedAmount,omitempty"`
	Reason                     string              `json:"reason"`
	Status                     domain.RefundStatus `json:"status"`
	RequestDate                string              `json:"requestDate"`
	IssueDate                  *string             `json:"issueDate,omitempty"`
	RequestEntryID             string              `json:"requestEntryID"`
	RequestMunicipalityEntryID string              `json:"requestMunicipalityEntryID"`
	IssueEntryID               *string             `json:"issueEntryID,omitempty"`
	IssueMunicipalityEntryID   *string             `json:"issueMunicipalityEntryID,omitempty"`
	LastUpdatedAt              time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy              string              `json:"lastUpdatedBy"`
}

// ToRefundResponse converts a domain.Refund to its response DTO.
func ToRefundResponse(r *domain.Refund) RefundResponse {
	return RefundResponse{
		RefundID:                   r.RefundID,
		FilerID:                    r.FilerID,
		MunicipalityID:             r.MunicipalityID,
		RequestedAmount:            domain.FormatMoney(r.RequestedAmount),
		IssuedAmount:               formatOptionalMoney(r.IssuedAmount),
		Reason:                     r.Reason,
		Status:                     r.Status,
		RequestDate:                formatDate(r.RequestDate),
		IssueDate:                  formatOptionalDate(r.IssueDate),
		RequestEntryID:             r.RequestEntryID,
		RequestMunicipalityEntryID: r.RequestMunicipalEntryID,
		IssueEntryID:               r.IssueEntryID,
		IssueMunicipalityEntryID:   r.IssueMunicipalEntryID,
		LastUpdatedAt:              r.LastUpdatedAt,
		LastUpdatedBy:              r.LastUpdatedBy,
	}
}
