package sqlite

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
)

type reportingRepository struct {
	db querier
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// SumActivityByAccount totals in Go: amounts are stored as text, and SQLite would sum them as floats.
func (r *reportingRepository) SumActivityByAccount(ctx context.Context, tenantID string, asOf *time.Time) (map[string]domain.AccountActivity, error) {
	query := `
		SELECT l.account_id, l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.tenant_id = ?
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND (? IS NULL OR e.entry_date <= ?)`
	bound := nullableDate(asOf)
	rows, err := r.db.QueryContext(ctx, query, tenantID, bound, bound)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum account activity for tenant "+tenantID, err)
	}
	defer rows.Close()

	activity := make(map[string]domain.AccountActivity)
	for rows.Next() {
		var accountID, debit, credit string
		if err := rows.Scan(&accountID, &debit, &credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account activity row", err)
		}
		d, err := parseMoney(debit)
		if err != nil {
			return nil, apperrors.NewAppError(500, "corrupt journal line amount", err)
		}
		c, err := parseMoney(credit)
		if err != nil {
			return nil, apperrors.NewAppError(500, "corrupt journal line amount", err)
		}
		a, ok := activity[accountID]
		if !ok {
			a = domain.AccountActivity{AccountID: accountID}
		}
		a.Debits = a.Debits.Add(d)
		a.Credits = a.Credits.Add(c)
		activity[accountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account activity rows", err)
	}
	return activity, nil
}

func (r *reportingRepository) ListSubjectLines(ctx context.Context, filter domain.LineFilter) ([]domain.PostedLine, error) {
	query := `
		SELECT e.entry_id, e.entry_number, e.sequence, e.entry_date, e.description, e.source_type, e.source_id,
			e.status, l.line_number, l.account_id, a.account_number, a.name, a.normal_balance,
			l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.tenant_id = ? AND e.subject_entity_id = ?`
	args := []any{filter.TenantID, filter.SubjectEntityID}
	if len(filter.AccountIDs) > 0 {
		query += ` AND l.account_id IN (` + placeholders(len(filter.AccountIDs)) + `)`
		for _, id := range filter.AccountIDs {
			args = append(args, id)
		}
	}
	if filter.StartDate != nil {
		query += ` AND e.entry_date >= ?`
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += ` AND e.entry_date <= ?`
		args = append(args, formatDate(*filter.EndDate))
	}
	query += ` ORDER BY e.entry_date, e.sequence, l.line_number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list lines for subject "+filter.SubjectEntityID, err)
	}
	defer rows.Close()

	lines := []domain.PostedLine{}
	for rows.Next() {
		var (
			l                        domain.PostedLine
			entryDate, debit, credit string
		)
		err := rows.Scan(
			&l.EntryID, &l.EntryNumber, &l.Sequence, &entryDate, &l.EntryDescription, &l.SourceType, &l.SourceID,
			&l.Status, &l.LineNumber, &l.AccountID, &l.AccountNumber, &l.AccountName, &l.NormalBalance,
			&debit, &credit, &l.Description,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan subject line row", err)
		}
		if l.EntryDate, err = parseDate(entryDate); err != nil {
			return nil, apperrors.NewAppError(500, "corrupt entry date", err)
		}
		if l.Debit, err = parseMoney(debit); err != nil {
			return nil, apperrors.NewAppError(500, "corrupt journal line amount", err)
		}
		if l.Credit, err = parseMoney(credit); err != nil {
			return nil, apperrors.NewAppError(500, "corrupt journal line amount", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating subject line rows", err)
	}
	return lines, nil
}
