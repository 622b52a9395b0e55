package domain

import "time"

// AuditAction is the kind of change recorded in the audit log.
type AuditAction string

const (
	ActionCreate  AuditAction = "CREATE"
	ActionReverse AuditAction = "REVERSE"
	ActionUpdate  AuditAction = "UPDATE"
)

// AuditEntityType names the kind of record an audit log refers to.
type AuditEntityType string

const (
	EntityJournalEntry AuditEntityType = "JOURNAL_ENTRY"
	EntityAccount      AuditEntityType = "ACCOUNT"
	EntityPayment      AuditEntityType = "PAYMENT"
	EntityRefund       AuditEntityType = "REFUND"
)

// AuditLog is one append-only record of an action taken against a ledger entity.
type AuditLog struct {
	AuditID    string          `json:"auditID"`
	TenantID   string          `json:"tenantID"`
	EntityID   string          `json:"entityID"`
	EntityType AuditEntityType `json:"entityType"`
	Action     AuditAction     `json:"action"`
	Actor      string          `json:"actor"`
	Details    string          `json:"details"`
	OldValue   *string         `json:"oldValue,omitempty"`
	NewValue   *string         `json:"newValue,omitempty"`
	Reason     *string         `json:"reason,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
