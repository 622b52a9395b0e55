package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/muni_tax_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const auditColumns = `audit_id, tenant_id, entity_id, entity_type, action, actor, details, old_value, new_value, reason, created_at`

type PgxAuditRepository struct {
	db dbtx
}

func newPgxAuditRepository(db dbtx) *PgxAuditRepository {
	return &PgxAuditRepository{db: db}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// AppendAudit inserts an audit record. Records are never updated.
func (r *PgxAuditRepository) AppendAudit(ctx context.Context, log domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
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
		log.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append audit record for "+log.EntityID, err)
	}
	return nil
}

// ListAuditByEntity retrieves the audit trail of one entity in the order it was written.
func (r *PgxAuditRepository) ListAuditByEntity(ctx context.Context, entityID string) ([]domain.AuditLog, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE entity_id = $1
		ORDER BY created_at, audit_id;
	`
	rows, err := r.db.Query(ctx, query, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list audit records for "+entityID, err)
	}
	defer rows.Close()
	return collectAuditLogs(rows)
}

// ListAuditByTenant pages through a tenant's audit records, newest first.
func (r *PgxAuditRepository) ListAuditByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if nextToken != nil && *nextToken != "" {
		createdAt, auditID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, audit_id) < ($2, $3)`
		args = append(args, createdAt, auditID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, audit_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
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

func collectAuditLogs(rows pgx.Rows) ([]domain.AuditLog, error) {
	logs := []domain.AuditLog{}
	for rows.Next() {
		var l domain.AuditLog
		err := rows.Scan(&l.AuditID, &l.TenantID, &l.EntityID, &l.EntityType, &l.Action, &l.Actor, &l.Details,
			&l.OldValue, &l.NewValue, &l.Reason, &l.CreatedAt)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit row", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit rows", err)
	}
	return logs, nil
}
