package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
)

const entryColumns = `entry_id, tenant_id, entry_number, sequence, entry_date, description, source_type, source_id,
	status, subject_entity_id, posted_by, posted_at, reversed_by, reversed_at, reversal_reason, reversal_of_id,
	reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type journalRepository struct {
	db querier
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var (
		e                                         domain.JournalEntry
		entryDate, postedAt, createdAt, updatedAt string
		reversedAt                                *string
	)
	err := row.Scan(
		&e.EntryID,
		&e.TenantID,
		&e.EntryNumber,
		&e.Sequence,
		&entryDate,
		&e.Description,
		&e.SourceType,
		&e.SourceID,
		&e.Status,
		&e.SubjectEntityID,
		&e.PostedBy,
		&postedAt,
		&e.ReversedBy,
		&reversedAt,
		&e.ReversalReason,
		&e.ReversalOfID,
		&e.ReversedByEntryID,
		&createdAt,
		&e.CreatedBy,
		&updatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return e, err
	}
	if e.EntryDate, err = parseDate(entryDate); err != nil {
		return e, err
	}
	if e.PostedAt, err = parseTimestamp(postedAt); err != nil {
		return e, err
	}
	if e.ReversedAt, err = parseNullableTimestamp(reversedAt); err != nil {
		return e, err
	}
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return e, err
	}
	e.LastUpdatedAt, err = parseTimestamp(updatedAt)
	return e, err
}

func (r *journalRepository) NextEntrySequence(ctx context.Context, tenantID, prefix string) (int64, error) {
	query := `
		INSERT INTO entry_sequences (tenant_id, prefix, last_value) VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, prefix) DO UPDATE SET last_value = last_value + 1
		RETURNING last_value`
	var seq int64
	if err := r.db.QueryRowContext(ctx, query, tenantID, prefix).Scan(&seq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to reserve entry sequence for "+prefix, err)
	}
	return seq, nil
}

func (r *journalRepository) EntryExistsForSource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID, subjectEntityID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE tenant_id = ? AND source_type = ? AND source_id = ? AND subject_entity_id = ?
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tenantID, string(sourceType), sourceID, subjectEntityID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check entry source "+sourceID, err)
	}
	return exists, nil
}

func (r *journalRepository) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `INSERT INTO journal_entries (` + entryColumns + `) VALUES (` + placeholders(21) + `)`
	_, err := r.db.ExecContext(ctx, query,
		entry.EntryID,
		entry.TenantID,
		entry.EntryNumber,
		entry.Sequence,
		formatDate(entry.EntryDate),
		entry.Description,
		string(entry.SourceType),
		entry.SourceID,
		string(entry.Status),
		entry.SubjectEntityID,
		entry.PostedBy,
		formatTimestamp(entry.PostedAt),
		entry.ReversedBy,
		nullableTimestamp(entry.ReversedAt),
		entry.ReversalReason,
		entry.ReversalOfID,
		entry.ReversedByEntryID,
		formatTimestamp(entry.CreatedAt),
		entry.CreatedBy,
		formatTimestamp(entry.LastUpdatedAt),
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
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, line := range entry.Lines {
		_, err := r.db.ExecContext(ctx, lineQuery,
			line.LineID, entry.EntryID, line.AccountID, line.LineNumber,
			formatMoney(line.Debit), formatMoney(line.Credit), line.Description)
		if err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to insert line %d of journal entry %s", line.LineNumber, entry.EntryNumber), err)
		}
	}
	return nil
}

func (r *journalRepository) MarkEntryReversed(ctx context.Context, entryID, reversedByEntryID, actor, reason string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by = ?, reversed_at = ?, reversal_reason = ?,
			reversed_by_entry_id = ?, last_updated_at = ?, last_updated_by = ?
		WHERE entry_id = ? AND status = 'POSTED'`
	ts := formatTimestamp(at)
	res, err := r.db.ExecContext(ctx, query, actor, ts, reason, reversedByEntryID, ts, actor, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal entry reversed "+entryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: journal entry %s is not POSTED", apperrors.ErrConflict, entryID)
	}
	return nil
}

func (r *journalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = ?`
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (r *journalRepository) ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = ? AND source_type = ? AND source_id = ?
		ORDER BY entry_date, sequence`
	rows, err := r.db.QueryContext(ctx, query, tenantID, string(sourceType), sourceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list journal entries for source "+sourceID, err)
	}
	entries := []domain.JournalEntry{}
	ids := []string{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, entry)
		ids = append(ids, entry.EntryID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
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

func (r *journalRepository) findLines(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, a.account_number, l.line_number, l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id IN (` + placeholders(len(entryIDs)) + `)
		ORDER BY l.entry_id, l.line_number`
	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	lines := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		var (
			l             domain.JournalLine
			debit, credit string
		)
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.AccountNumber, &l.LineNumber, &debit, &credit, &l.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		if l.Debit, err = parseMoney(debit); err != nil {
			return nil, apperrors.NewAppError(500, "corrupt journal line amount", err)
		}
		if l.Credit, err = parseMoney(credit); err != nil {
			return nil, apperrors.NewAppError(500, "corrupt journal line amount", err)
		}
		lines[l.EntryID] = append(lines[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}
	return lines, nil
}
