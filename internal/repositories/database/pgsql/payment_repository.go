package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `payment_id, tenant_id, filer_id, municipality_id, payment_date, amount, method,
	to_tax, to_penalty, to_interest, status, provider_transaction_id, authorization_code, failure_reason,
	journal_entry_id, municipality_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	db dbtx
}

func newPgxPaymentRepository(db dbtx) *PgxPaymentRepository {
	return &PgxPaymentRepository{db: db}
}

var (
	_ portsrepo.PaymentReader = (*PgxPaymentRepository)(nil)
	_ portsrepo.PaymentWriter = (*PgxPaymentRepository)(nil)
)

// SavePayment records a payment attempt whatever its authorization outcome.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, p domain.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.db.Exec(ctx, query,
		p.PaymentID,
		p.TenantID,
		p.FilerID,
		p.MunicipalityID,
		p.PaymentDate,
		p.Amount,
		p.Method,
		p.Breakdown.ToTax,
		p.Breakdown.ToPenalty,
		p.Breakdown.ToInterest,
		string(p.Status),
		p.ProviderTransactionID,
		p.AuthorizationCode,
		p.FailureReason,
		p.JournalEntryID,
		p.MunicipalityEntryID,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, p.PaymentID)
		}
		return apperrors.NewAppError(500, "failed to save payment "+p.PaymentID, err)
	}
	return nil
}

// UpdatePaymentOutcome stores the authorization outcome of a PENDING payment.
func (r *PgxPaymentRepository) UpdatePaymentOutcome(ctx context.Context, p domain.PaymentTransaction) error {
	query := `
		UPDATE payment_transactions
		SET status = $3, provider_transaction_id = $4, authorization_code = $5, failure_reason = $6,
			journal_entry_id = $7, municipality_entry_id = $8, last_updated_at = $9, last_updated_by = $10
		WHERE tenant_id = $1 AND payment_id = $2 AND status = 'PENDING';
	`
	cmdTag, err := r.db.Exec(ctx, query,
		p.TenantID,
		p.PaymentID,
		string(p.Status),
		p.ProviderTransactionID,
		p.AuthorizationCode,
		p.FailureReason,
		p.JournalEntryID,
		p.MunicipalityEntryID,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment "+p.PaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is not PENDING", apperrors.ErrConflict, p.PaymentID)
	}
	return nil
}

// PaymentExistsInAnyTenant reports whether paymentID is recorded under any tenant.
func (r *PgxPaymentRepository) PaymentExistsInAnyTenant(ctx context.Context, paymentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payment_transactions WHERE payment_id = $1);`, paymentID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check payment "+paymentID, err)
	}
	return exists, nil
}

// FindPaymentByID retrieves a payment attempt of a tenant.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE tenant_id = $1 AND payment_id = $2;`
	var p domain.PaymentTransaction
	err := r.db.QueryRow(ctx, query, tenantID, paymentID).Scan(
		&p.PaymentID,
		&p.TenantID,
		&p.FilerID,
		&p.MunicipalityID,
		&p.PaymentDate,
		&p.Amount,
		&p.Method,
		&p.Breakdown.ToTax,
		&p.Breakdown.ToPenalty,
		&p.Breakdown.ToInterest,
		&p.Status,
		&p.ProviderTransactionID,
		&p.AuthorizationCode,
		&p.FailureReason,
		&p.JournalEntryID,
		&p.MunicipalityEntryID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment "+paymentID, err)
	}
	p.PaymentDate = domain.DateOnly(p.PaymentDate)
	return &p, nil
}
