package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundStatus tracks the two-phase refund lifecycle.
type RefundStatus string

const (
	RefundRequested RefundStatus = "REQUESTED"
	RefundIssued    RefundStatus = "ISSUED"
)

// Refund is a filer refund, requested first and issued later.
type Refund struct {
	RefundID                string           `json:"refundID"`
	TenantID                string           `json:"tenantID"`
	FilerID                 string           `json:"filerID"`
	MunicipalityID          string           `json:"municipalityID"`
	RequestedAmount         decimal.Decimal  `json:"requestedAmount"`
	IssuedAmount            *decimal.Decimal `json:"issuedAmount,omitempty"`
	Reason                  string           `json:"reason"`
	Status                  RefundStatus     `json:"status"`
	RequestDate             time.Time        `json:"requestDate"`
	IssueDate               *time.Time       `json:"issueDate,omitempty"`
	RequestEntryID          string           `json:"requestEntryID"`
	RequestMunicipalEntryID string           `json:"requestMunicipalityEntryID"`
	IssueEntryID            *string          `json:"issueEntryID,omitempty"`
	IssueMunicipalEntryID   *string          `json:"issueMunicipalityEntryID,omitempty"`
	AuditFields
}

// RefundRequest opens a refund for a filer.
type RefundRequest struct {
	RefundID       string
	TenantID       string
	FilerID        string
	MunicipalityID string
	RequestDate    time.Time
	Amount         decimal.Decimal
	Reason         string
}
