package repositories

import (
	"context"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// PaymentReader defines read operations for payment attempts
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error)

	// PaymentExistsInAnyTenant reports whether any tenant has recorded paymentID.
	PaymentExistsInAnyTenant(ctx context.Context, paymentID string) (bool, error)
}

// PaymentWriter records payment attempts. A repeated payment id yields apperrors.ErrDuplicate.
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.PaymentTransaction) error

	// UpdatePaymentOutcome stores the authorization outcome of a PENDING payment,
	// returning apperrors.ErrConflict when the payment is no longer PENDING.
	UpdatePaymentOutcome(ctx context.Context, payment domain.PaymentTransaction) error
}

// RefundReader defines read operations for refunds
type RefundReader interface {
	FindRefundByID(ctx context.Context, tenantID, refundID string) (*domain.Refund, error)

	// RefundExistsInAnyTenant reports whether any tenant has requested refundID.
	RefundExistsInAnyTenant(ctx context.Context, refundID string) (bool, error)
}

// RefundWriter defines write operations for refunds
type RefundWriter interface {
	// SaveRefund persists a newly requested refund. A repeated refund id yields apperrors.ErrDuplicate.
	SaveRefund(ctx context.Context, refund domain.Refund) error

	// MarkRefundIssued records issuance of a REQUESTED refund, returning apperrors.ErrConflict otherwise.
	MarkRefundIssued(ctx context.Context, refund domain.Refund) error
}
