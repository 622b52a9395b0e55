package services

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssessmentService posts computed tax assessments
type AssessmentService interface {
	Assess(ctx context.Context, assessment domain.Assessment, actor string) (*domain.AssessmentPosting, error)
}

// PaymentService authorizes payments and posts the approved ones
type PaymentService interface {
	// ProcessPayment always records the attempt. Entries are posted only when the payment is APPROVED.
	ProcessPayment(ctx context.Context, req domain.PaymentRequest, actor string) (*domain.PaymentTransaction, error)

	GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error)
}

// RefundService handles the request and issuance phases of refunds
type RefundService interface {
	RequestRefund(ctx context.Context, req domain.RefundRequest, actor string) (*domain.Refund, error)

	// IssueRefund issues a requested refund. A nil amount issues the requested amount.
	IssueRefund(ctx context.Context, tenantID, refundID string, issueDate time.Time, amount *decimal.Decimal, actor string) (*domain.Refund, error)

	GetRefund(ctx context.Context, tenantID, refundID string) (*domain.Refund, error)
}

// PaymentAuthorizer is the external payment authorization collaborator.
// A returned error means the collaborator could not be reached or answered garbage.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.Authorization, error)
}
