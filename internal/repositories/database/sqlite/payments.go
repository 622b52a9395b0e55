package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
)

const paymentColumns = `payment_id, tenant_id, filer_id, municipality_id, payment_date, amount, method,
	to_tax, to_penalty, to_interest, status, provider_transaction_id, authorization_code, failure_reason,
	journal_entry_id, municipality_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type paymentRepository struct {
	db querier
}

var (
	_ portsrepo.PaymentReader = (*paymentRepository)(nil)
	_ portsrepo.PaymentWriter = (*paymentRepository)(nil)
)

func (r *paymentRepository) SavePayment(ctx context.Context, p domain.PaymentTransaction) error {
	query := `INSERT INTO payment_transactions (` + paymentColumns + `) VALUES (` + placeholders(20) + `)`
	_, err := r.db.ExecContext(ctx, query,
		p.PaymentID,
		p.TenantID,
		p.FilerID,
		p.MunicipalityID,
		formatDate(p.PaymentDate),
		formatMoney(p.Amount),
		p.Method,
		formatMoney(p.Breakdown.ToTax),
		formatMoney(p.Breakdown.ToPenalty),
		formatMoney(p.Breakdown.ToInterest),
		string(p.Status),
		p.ProviderTransactionID,
		p.AuthorizationCode,
		p.FailureReason,
		p.JournalEntryID,
		p.MunicipalityEntryID,
		formatTimestamp(p.CreatedAt),
		p.CreatedBy,
		formatTimestamp(p.LastUpdatedAt),
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

func (r *paymentRepository) UpdatePaymentOutcome(ctx context.Context, p domain.PaymentTransaction) error {
	query := `
		UPDATE payment_transactions
		SET status = ?, provider_transaction_id = ?, authorization_code = ?, failure_reason = ?,
			journal_entry_id = ?, municipality_entry_id = ?, last_updated_at = ?, last_updated_by = ?
		WHERE tenant_id = ? AND payment_id = ? AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, query,
		string(p.Status),
		p.ProviderTransactionID,
		p.AuthorizationCode,
		p.FailureReason,
		p.JournalEntryID,
		p.MunicipalityEntryID,
		formatTimestamp(p.LastUpdatedAt),
		p.LastUpdatedBy,
		p.TenantID,
		p.PaymentID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment "+p.PaymentID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: payment %s is not PENDING", apperrors.ErrConflict, p.PaymentID)
	}
	return nil
}

func (r *paymentRepository) PaymentExistsInAnyTenant(ctx context.Context, paymentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM payment_transactions WHERE payment_id = ?)`, paymentID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check payment "+paymentID, err)
	}
	return exists, nil
}

func (r *paymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE tenant_id = ? AND payment_id = ?`
	var (
		p                                 domain.PaymentTransaction
		paymentDate, createdAt, updatedAt string
		amount, toTax, toPen, toInt       string
	)
	err := r.db.QueryRowContext(ctx, query, tenantID, paymentID).Scan(
		&p.PaymentID,
		&p.TenantID,
		&p.FilerID,
		&p.MunicipalityID,
		&paymentDate,
		&amount,
		&p.Method,
		&toTax,
		&toPen,
		&toInt,
		&p.Status,
		&p.ProviderTransactionID,
		&p.AuthorizationCode,
		&p.FailureReason,
		&p.JournalEntryID,
		&p.MunicipalityEntryID,
		&createdAt,
		&p.CreatedBy,
		&updatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment "+paymentID, err)
	}

	if p.PaymentDate, err = parseDate(paymentDate); err != nil {
		return nil, apperrors.NewAppError(500, "corrupt payment record "+paymentID, err)
	}
	if err := scanMoneyFields(
		moneyField{amount, &p.Amount},
		moneyField{toTax, &p.Breakdown.ToTax},
		moneyField{toPen, &p.Breakdown.ToPenalty},
		moneyField{toInt, &p.Breakdown.ToInterest},
	); err != nil {
		return nil, apperrors.NewAppError(500, "corrupt payment record "+paymentID, err)
	}
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, apperrors.NewAppError(500, "corrupt payment record "+paymentID, err)
	}
	if p.LastUpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, apperrors.NewAppError(500, "corrupt payment record "+paymentID, err)
	}
	return &p, nil
}
