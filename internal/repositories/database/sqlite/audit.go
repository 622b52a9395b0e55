package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/muni_tax_ledger/internal/utils/pagination"
)

const auditColumns = `audit_id, tenant_id, entity_id, entity_type, action, actor, details, old_value, new_value, reason, created_at`

type auditRepository struct {
	db querier
}

var _ portsrepo.AuditRepositoryFacade = (*auditRepository)(nil)

func (r *auditRepository) AppendAudit(ctx context.Context, log domain.AuditLog) error {
	query := `INSERT INTO audit_logs (` + auditColumns + `) VALUES (` + placeholders(11) + `)`
	_, err := r.db.ExecContext(ctx, query,
		log.AuditID,
		log.TenantID,
		log.EntityID,
		string(log.EntityType),
		string(log.Action),
		log.Actor,
		log.Details,
		log.OldValue,
		log.NewValue,
		log.Reason,
		formatTimestamp(log.CreatedAt),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append audit record for "+log.EntityID, err)
	}
	return nil
}

func (r *auditRepository) ListAuditByEntity(ctx context.Context, entityID string) ([]domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE entity_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list audit records for "+entityID, err)
	}
	defer rows.Close()
	return collectAuditLogs(rows)
}

func (r *auditRepository) ListAuditByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE tenant_id = ?`
	args := []any{tenantID}
	if nextToken != nil && *nextToken != "" {
		createdAt, auditID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, audit_id) < (?, ?)`
		args = append(args, formatTimestamp(createdAt), auditID)
	}
	query += ` ORDER BY created_at DESC, audit_id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list audit records for tenant "+tenantID, err)
	}
	defer rows.Close()

	logs, err := collectAuditLogs(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(logs) > limit {
		logs = logs[:limit]
		last := logs[len(logs)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.AuditID)
		next = &token
	}
	return logs, next, nil
}

func collectAuditLogs(rows *sql.Rows) ([]domain.AuditLog, error) {
	logs := []domain.AuditLog{}
	for rows.Next() {
		var (
			l         domain.AuditLog
			createdAt string
		)
		err := rows.Scan(&l.AuditID, &l.TenantID, &l.EntityID, &l.EntityType, &l.Action, &l.Actor, &l.Details,
			&l.OldValue, &l.NewValue, &l.Reason, &createdAt)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit row", err)
		}
		if l.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, apperrors.NewAppError(500, "corrupt audit timestamp", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit rows", err)
	}
	return logs, nil
}
