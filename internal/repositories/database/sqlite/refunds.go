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

const refundColumns = `refund_id, tenant_id, filer_id, municipality_id, requested_amount, issued_amount, reason, status,
	request_date, issue_date, request_entry_id, request_municipal_entry_id, issue_entry_id, issue_municipal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

type refundRepository struct {
	db querier
}

var (
	_ portsrepo.RefundReader = (*refundRepository)(nil)
	_ portsrepo.RefundWriter = (*refundRepository)(nil)
)

func nullableMoney(refund domain.Refund) any {
	if refund.IssuedAmount == nil {
		return nil
	}
	return formatMoney(*refund.IssuedAmount)
}

func (r *refundRepository) SaveRefund(ctx context.Context, refund domain.Refund) error {
	query := `INSERT INTO refunds (` + refundColumns + `) VALUES (` + placeholders(18) + `)`
	_, err := r.db.ExecContext(ctx, query,
		refund.RefundID,
		refund.TenantID,
		refund.FilerID,
		refund.MunicipalityID,
		formatMoney(refund.RequestedAmount),
		nullableMoney(refund),
		refund.Reason,
		string(refund.Status),
		formatDate(refund.RequestDate),
		nullableDate(refund.IssueDate),
		refund.RequestEntryID,
		refund.RequestMunicipalEntryID,
		refund.IssueEntryID,
		refund.IssueMunicipalEntryID,
		formatTimestamp(refund.CreatedAt),
		refund.CreatedBy,
		formatTimestamp(refund.LastUpdatedAt),
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

func (r *refundRepository) MarkRefundIssued(ctx context.Context, refund domain.Refund) error {
	query := `
		UPDATE refunds
		SET status = 'ISSUED', issued_amount = ?, issue_date = ?, issue_entry_id = ?,
			issue_municipal_entry_id = ?, last_updated_at = ?, last_updated_by = ?
		WHERE tenant_id = ? AND refund_id = ? AND status = 'REQUESTED'`
	res, err := r.db.ExecContext(ctx, query,
		nullableMoney(refund),
		nullableDate(refund.IssueDate),
		refund.IssueEntryID,
		refund.IssueMunicipalEntryID,
		formatTimestamp(refund.LastUpdatedAt),
		refund.LastUpdatedBy,
		refund.TenantID,
		refund.RefundID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark refund issued "+refund.RefundID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: refund %s is not REQUESTED", apperrors.ErrConflict, refund.RefundID)
	}
	return nil
}

func (r *refundRepository) RefundExistsInAnyTenant(ctx context.Context, refundID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM refunds WHERE refund_id = ?)`, refundID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check refund "+refundID, err)
	}
	return exists, nil
}

func (r *refundRepository) FindRefundByID(ctx context.Context, tenantID, refundID string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE tenant_id = ? AND refund_id = ?`
	var (
		refund                 domain.Refund
		requested, requestDate string
		createdAt, updatedAt   string
		issued, issueDate      *string
	)
	err := r.db.QueryRowContext(ctx, query, tenantID, refundID).Scan(
		&refund.RefundID,
		&refund.TenantID,
		&refund.FilerID,
		&refund.MunicipalityID,
		&requested,
		&issued,
		&refund.Reason,
		&refund.Status,
		&requestDate,
		&issueDate,
		&refund.RequestEntryID,
		&refund.RequestMunicipalEntryID,
		&refund.IssueEntryID,
		&refund.IssueMunicipalEntryID,
		&createdAt,
		&refund.CreatedBy,
		&updatedAt,
		&refund.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find refund "+refundID, err)
	}

	corrupt := func(err error) error {
		return apperrors.NewAppError(500, "corrupt refund record "+refundID, err)
	}
	if refund.RequestedAmount, err = parseMoney(requested); err != nil {
		return nil, corrupt(err)
	}
	if issued != nil {
		amount, err := parseMoney(*issued)
		if err != nil {
			return nil, corrupt(err)
		}
		refund.IssuedAmount = &amount
	}
	if refund.RequestDate, err = parseDate(requestDate); err != nil {
		return nil, corrupt(err)
	}
	if refund.IssueDate, err = parseNullableDate(issueDate); err != nil {
		return nil, corrupt(err)
	}
	if refund.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, corrupt(err)
	}
	if refund.LastUpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, corrupt(err)
	}
	return &refund, nil
}
