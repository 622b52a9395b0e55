package services

import (
	"context"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// EventPublisher delivers ledger events to downstream consumers after commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.LedgerEvent) error
}

// LedgerMetrics records ledger activity counters.
type LedgerMetrics interface {
	EntryPosted(sourceType domain.SourceType)
	EntryReversed()
	PostRejected(reason string)
	PaymentProcessed(status domain.PaymentStatus)
	EventPublishFailed()
}
