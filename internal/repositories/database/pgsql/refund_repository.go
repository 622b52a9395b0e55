package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const refundColumns = `refund_id, tenant_id, filer_id, municipality_id, requested_amount, issued_amount, reason, status,
	request_date, issue_date, request_entry_id, request_municipal_entry_id, issue_entry_id, issue_municipal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRefundRepository struct {
	db dbtx
}

func newPgxRefundRepository(db dbtx) *PgxRefundRepository {
	return &PgxRefundRepository{db: db}
}

var (
	_ portsrepo.RefundReader = (*PgxRefundRepository)(nil)
	_ portsrepo.RefundWriter = (*PgxRefundRepository)(nil)
)

// SaveRefund inserts a newly requested refund.
func (r *PgxRefundRepository) SaveRefund(ctx context.Context, refund domain.Refund) error {
	query := `
		INSERT INTO refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.db.Exec(ctx, query,
		refund.RefundID,
		refund.TenantID,
		refund.FilerID,
		refund.MunicipalityID,
		refund.RequestedAmount,
		refund.IssuedAmount,
		refund.Reason,
		string(refund.Status),
		refund.RequestDate,
		refund.IssueDate,
		refund.RequestEntryID,
		refund.RequestMunicipalEntryID,
		refund.IssueEntryID,
		refund.IssueMunicipalEntryID,
		refund.CreatedAt,
		refund.CreatedBy,
		refund.LastUpdatedAt,
		refund.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: refund %s", apperrors.ErrDuplicate, refund.RefundID)
		}
		return apperrors.NewAppError(500, "failed to save refund "+refund.RefundID, err)
	}
	return nil
}

// MarkRefundIssued records issuance on a REQUESTED refund.
func (r *PgxRefundRepository) MarkRefundIssued(ctx context.Context, refund domain.Refund) error {
	query := `
		UPDATE refunds
		SET status = 'ISSUED', issued_amount = $3, issue_date = $4, issue_entry_id = $5,
			issue_municipal_entry_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $1 AND refund_id = $2 AND status = 'REQUESTED';
	`
	cmdTag, err := r.db.Exec(ctx, query,
		refund.TenantID,
		refund.RefundID,
		refund.IssuedAmount,
		refund.IssueDate,
		refund.IssueEntryID,
		refund.IssueMunicipalEntryID,
		refund.LastUpdatedAt,
		refund.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark refund issued "+refund.RefundID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: refund %s is not REQUESTED", apperrors.ErrConflict, refund.RefundID)
	}
	return nil
}

// RefundExistsInAnyTenant reports whether refundID is recorded under any tenant.
func (r *PgxRefundRepository) RefundExistsInAnyTenant(ctx context.Context, refundID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM refunds WHERE refund_id = $1);`, refundID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check refund "+refundID, err)
	}
	return exists, nil
}

// FindRefundByID retrieves a refund of a tenant.
func (r *PgxRefundRepository) FindRefundByID(ctx context.Context, tenantID, refundID string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE tenant_id = $1 AND refund_id = $2;`
	var refund domain.Refund
	var issued decimal.NullDecimal
	err := r.db.QueryRow(ctx, query, tenantID, refundID).Scan(
		&refund.RefundID,
		&refund.TenantID,
		&refund.FilerID,
		&refund.MunicipalityID,
		&refund.RequestedAmount,
		&issued,
		&refund.Reason,
		&refund.Status,
		&refund.RequestDate,
		&refund.IssueDate,
		&refund.RequestEntryID,
		&refund.RequestMunicipalEntryID,
		&refund.IssueEntryID,
		&refund.IssueMunicipalEntryID,
		&refund.CreatedAt,
		&refund.CreatedBy,
		&refund.LastUpdatedAt,
		&refund.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find refund "+refundID, err)
	}
	if issued.Valid {
		refund.IssuedAmount = &issued.Decimal
	}
	refund.RequestDate = domain.DateOnly(refund.RequestDate)
	if refund.IssueDate != nil {
		d := domain.DateOnly(*refund.IssueDate)
		refund.IssueDate = &d
	}
	return &refund, nil
}
