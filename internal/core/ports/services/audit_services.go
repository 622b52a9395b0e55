package services

import (
	"context"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// AuditService exposes the audit trail
type AuditService interface {
	// GetAuditTrail retrieves every audit record of one entity, oldest first.
	GetAuditTrail(ctx context.Context, tenantID, entityID string) ([]domain.AuditLog, error)

	// GetTenantAuditLogs retrieves a page of the tenant's audit log, newest first.
	GetTenantAuditLogs(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error)
}
