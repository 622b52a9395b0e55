package services

import (
	"context"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines. Entries of another tenant yield apperrors.ErrForbidden.
	GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListEntriesBySource retrieves the entries posted for one business event.
	ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error)
}

// JournalWriterSvc defines the poster's write operations
type JournalWriterSvc interface {
	// Post validates and atomically persists one balanced entry.
	Post(ctx context.Context, req domain.PostingRequest) (*domain.JournalEntry, error)

	// PostPair posts both legs of a two-sided posting in one transaction.
	PostPair(ctx context.Context, pair domain.PostingPair) (*domain.PostedPair, error)

	// Reverse posts the mirror of an entry and marks the original REVERSED.
	Reverse(ctx context.Context, tenantID, entryID, actor, reason string) (*domain.JournalEntry, error)
}

// JournalTxPoster lets adapters post inside a transaction they already hold, so their own
// records commit together with the entries.
type JournalTxPoster interface {
	PostPairInTx(ctx context.Context, tx portsrepo.LedgerTx, pair domain.PostingPair) (*domain.PostedPair, error)

	// PublishPosted emits events for entries committed by an adapter-held transaction.
	PublishPosted(ctx context.Context, actor string, entries ...*domain.JournalEntry)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalTxPoster
}
