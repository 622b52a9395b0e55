package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/utils/pagination"
)

// newAuditLog builds an audit record. Callers append it through the transaction that made the change.
func newAuditLog(tenantID, entityID string, entityType domain.AuditEntityType, action domain.AuditAction, actor string, at time.Time, details string) domain.AuditLog {
	return domain.AuditLog{
		AuditID:    uuid.NewString(),
		TenantID:   tenantID,
		EntityID:   entityID,
		EntityType: entityType,
		Action:     action,
		Actor:      actor,
		Details:    details,
		CreatedAt:  at,
	}
}

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditReader
}

// NewAuditService creates the read side of the audit sink.
func NewAuditService(auditRepo portsrepo.AuditReader) portssvc.AuditService {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditService = (*auditService)(nil)

// GetAuditTrail returns the tenant's audit records for entityID. An entity known only to other
// tenants is refused rather than reported as having no history.
func (s *auditService) GetAuditTrail(ctx context.Context, tenantID, entityID string) ([]domain.AuditLog, error) {
	logs, err := s.auditRepo.ListAuditByEntity(ctx, entityID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load audit trail",
			slog.String("tenant_id", tenantID),
			slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}

	// Payment and refund ids are only unique per tenant, so other tenants may share entityID.
	own := make([]domain.AuditLog, 0, len(logs))
	for _, l := range logs {
		if l.TenantID == tenantID {
			own = append(own, l)
		}
	}
	if len(own) == 0 && len(logs) > 0 {
		s.GetLogger(ctx).Warn("Cross-tenant audit trail request refused",
			slog.String("tenant_id", tenantID),
			slog.String("entity_id", entityID))
		return nil, fmt.Errorf("%w: entity %s belongs to another tenant", apperrors.ErrForbidden, entityID)
	}
	return own, nil
}

func (s *auditService) GetTenantAuditLogs(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.AuditLog, *string, error) {
	logs, next, err := s.auditRepo.ListAuditByTenant(ctx, tenantID, pagination.NormalizeLimit(limit), nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to load tenant audit logs", slog.String("tenant_id", tenantID))
		return nil, nil, fmt.Errorf("failed to load tenant audit logs: %w", err)
	}
	return logs, next, nil
}
