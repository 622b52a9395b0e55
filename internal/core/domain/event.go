package domain

import "time"

// LedgerEventType names an event published after a ledger write commits.
type LedgerEventType string

const (
	EventEntryPosted   LedgerEventType = "journal.posted"
	EventEntryReversed LedgerEventType = "journal.reversed"
)

// LedgerEvent is the payload published to downstream consumers.
type LedgerEvent struct {
	Type            LedgerEventType `json:"type"`
	TenantID        string          `json:"tenantID"`
	EntryID         string          `json:"entryID"`
	EntryNumber     string          `json:"entryNumber"`
	EntryDate       string          `json:"entryDate"`
	SourceType      SourceType      `json:"sourceType"`
	SourceID        string          `json:"sourceID"`
	SubjectEntityID string          `json:"subjectEntityID,omitempty"`
	Actor           string          `json:"actor"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// NewLedgerEvent builds the event for a committed entry.
func NewLedgerEvent(eventType LedgerEventType, entry JournalEntry, actor string, at time.Time) LedgerEvent {
	return LedgerEvent{
		Type:            eventType,
		TenantID:        entry.TenantID,
		EntryID:         entry.EntryID,
		EntryNumber:     entry.EntryNumber,
		EntryDate:       entry.EntryDate.Format(DateLayout),
		SourceType:      entry.SourceType,
		SourceID:        entry.SourceID,
		SubjectEntityID: entry.SubjectEntityID,
		Actor:           actor,
		OccurredAt:      at,
	}
}
