package dto

import (
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// AuditLogResponse defines the data returned for an audit record.
type AuditLogResponse struct {
	AuditID    string                 `json:"auditID"`
	EntityID   string                 `json:"entityID"`
	EntityType domain.AuditEntityType `json:"entityType"`
	Action     domain.AuditAction     `json:"action"`
	Actor      string                 `json:"actor"`
	Details    string                 `json:"details"`
	OldValue   *string                `json:"oldValue,omitempty"`
	NewValue   *string                `json:"newValue,omitempty"`
	Reason     *string                `json:"reason,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// ListAuditLogsResponse wraps a page of audit records.
type ListAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"auditLogs"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToAuditLogResponse converts a domain.AuditLog to its response DTO.
func ToAuditLogResponse(a domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		AuditID:    a.AuditID,
		EntityID:   a.EntityID,
		EntityType: a.EntityType,
		Action:     a.Action,
		Actor:      a.Actor,
		Details:    a.Details,
		OldValue:   a.OldValue,
		NewValue:   a.NewValue,
		Reason:     a.Reason,
		CreatedAt:  a.CreatedAt,
	}
}

// ToListAuditLogsResponse converts a page of audit records.
func ToListAuditLogsResponse(logs []domain.AuditLog, nextToken *string) ListAuditLogsResponse {
	list := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		list[i] = ToAuditLogResponse(l)
	}
	return ListAuditLogsResponse{AuditLogs: list, NextToken: nextToken}
}
