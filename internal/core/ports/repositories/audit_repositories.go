package repositories

import (
	"context"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// AuditReader defines read operations for the audit log
type AuditReader interface {
	// ListAuditByEntity retrieves every audit record written for entityID in any tenant, oldest first.
	// Callers enforce tenant ownership.
	ListAuditByEntity(ctx context.Context, entityID string) ([]domain.AuditLog, error)

	// ListAuditByTenant retrieves a page of a tenant's audit records, newest first, using token-based pagination.
	// It returns the records, a token for the next page, and an error.
	ListAuditByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error)
}

// AuditWriter appends audit records
type AuditWriter interface {
	AppendAudit(ctx context.Context, log domain.AuditLog) error
}

// AuditRepositoryFacade combines all audit-related repository interfaces
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
