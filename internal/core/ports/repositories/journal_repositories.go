package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line number.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesBySource retrieves the entries posted for one business event, ordered by sequence.
	ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error)
}

// JournalWriter defines the append-only writes of the poster. Every method must run inside
// a store transaction obtained from TransactionManager.
type JournalWriter interface {
	// NextEntrySequence atomically reserves the next sequence for tenant and prefix.
	NextEntrySequence(ctx context.Context, tenantID, prefix string) (int64, error)

	// EntryExistsForSource reports whether an entry was already posted for the source and subject.
	EntryExistsForSource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID, subjectEntityID string) (bool, error)

	// InsertEntry persists the header and all lines of a new entry.
	InsertEntry(ctx context.Context, entry domain.JournalEntry) error

	// MarkEntryReversed flips a POSTED entry to REVERSED and links it to its mirror.
	// It returns apperrors.ErrConflict when the entry is no longer POSTED.
	MarkEntryReversed(ctx context.Context, entryID, reversedByEntryID, actor, reason string, at time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
