package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id, tenant_id, entry_number, sequence, entry_date, description, source_type, source_id,
	status, subject_entity_id, posted_by, posted_at, reversed_by, reversed_at, reversal_reason, reversal_of_id,
	reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	db dbtx
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(db dbtx) *PgxJournalRepository {
	return &PgxJournalRepository{db: db}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.TenantID,
		&e.EntryNumber,
		&e.Sequence,
		&e.EntryDate,
		&e.Description,
		&e.SourceType,
		&e.SourceID,
		&e.Status,
		&e.SubjectEntityID,
		&e.PostedBy,
		&e.PostedAt,
		&e.ReversedBy,
		&e.ReversedAt,
		&e.ReversalReason,
		&e.ReversalOfID,
		&e.ReversedByEntryID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	e.EntryDate = domain.DateOnly(e.EntryDate)
	return e, err
}

// NextEntrySequence reserves the next number for a tenant and prefix. The upsert takes a row
// lock on the reservation row, so concurrent posters are serialized until commit.
func (r *PgxJournalRepository) NextEntrySequence(ctx context.Context, tenantID, prefix string) (int64, error) {
	query := `
		INSERT INTO entry_sequences (tenant_id, prefix, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, prefix)
		DO UPDATE SET last_value = entry_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := r.db.QueryRow(ctx, query, tenantID, prefix).Scan(&seq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to reserve entry sequence for "+prefix, err)
	}
	return seq, nil
}

// EntryExistsForSource reports whether the source was already posted for the subject.
func (r *PgxJournalRepository) EntryExistsForSource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID, subjectEntityID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE tenant_id = $1 AND source_type = $2 AND source_id = $3 AND subject_entity_id = $4
		);
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tenantID, string(sourceType), sourceID, subjectEntityID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check entry source "+sourceID, err)
	}
	return exists, nil
}

// InsertEntry persists the header and then all lines in one batch.
func (r *PgxJournalRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.db.Exec(ctx, query,
		entry.EntryID,
		entry.TenantID,
		entry.EntryNumber,
		entry.Sequence,
		entry.EntryDate,
		entry.Description,
		string(entry.SourceType),
		entry.SourceID,
		string(entry.Status),
		entry.SubjectEntityID,
		entry.PostedBy,
		entry.PostedAt,
		entry.ReversedBy,
		entry.ReversedAt,
		entry.ReversalReason,
		entry.ReversalOfID,
		entry.ReversedByEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryNumber, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, line_number, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		batch.Queue(lineQuery, line.LineID, entry.EntryID, line.AccountID, line.LineNumber, line.Debit, line.Credit, line.Description)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for i := range entry.Lines {
		if _, err := br.Exec(); err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to insert line %d of journal entry %s", i+1, entry.EntryNumber), err)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close line batch for journal entry "+entry.EntryNumber, err)
	}
	return nil
}

// MarkEntryReversed flips a POSTED entry to REVERSED. Nothing else on a header ever changes.
func (r *PgxJournalRepository) MarkEntryReversed(ctx context.Context, entryID, reversedByEntryID, actor, reason string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by = $3, reversed_at = $5, reversal_reason = $4,
			reversed_by_entry_id = $2, last_updated_at = $5, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := r.db.Exec(ctx, query, entryID, reversedByEntryID, actor, reason, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal entry reversed "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not POSTED", apperrors.ErrConflict, entryID)
	}
	return nil
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	lines, err := r.findLines(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

// ListEntriesBySource retrieves every entry posted for one business event.
func (r *PgxJournalRepository) ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND source_type = $2 AND source_id = $3
		ORDER BY entry_date, sequence;
	`
	rows, err := r.db.Query(ctx, query, tenantID, string(sourceType), sourceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list journal entries for source "+sourceID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	ids := []string{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, entry)
		ids = append(ids, entry.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return entries, nil
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, nil
}

// findLines loads the lines of the given entries keyed by entry ID, each slice ordered by line number.
func (r *PgxJournalRepository) findLines(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, a.account_number, l.line_number, l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = ANY($1)
		ORDER BY l.entry_id, l.line_number;
	`
	rows, err := r.db.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	lines := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.AccountNumber, &l.LineNumber, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		lines[l.EntryID] = append(lines[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}
	return lines, nil
}
