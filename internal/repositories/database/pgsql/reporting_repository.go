package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
)

// PgxReportingRepository implements the ReportingRepository interface using pgx
type PgxReportingRepository struct {
	db dbtx
}

// newPgxReportingRepository creates a new PgxReportingRepository
func newPgxReportingRepository(db dbtx) *PgxReportingRepository {
	return &PgxReportingRepository{db: db}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// SumActivityByAccount aggregates line volume per account. Lines of REVERSED entries are kept
// because their mirror entries net them out.
func (r *PgxReportingRepository) SumActivityByAccount(ctx context.Context, tenantID string, asOf *time.Time) (map[string]domain.AccountActivity, error) {
	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.tenant_id = $1
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND ($2::date IS NULL OR e.entry_date <= $2::date)
		GROUP BY l.account_id;
	`
	rows, err := r.db.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum account activity for tenant "+tenantID, err)
	}
	defer rows.Close()

	activity := make(map[string]domain.AccountActivity)
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Debits, &a.Credits); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account activity row", err)
		}
		activity[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account activity rows", err)
	}
	return activity, nil
}

// ListSubjectLines retrieves the lines of a subject's entries ordered by entry date, sequence and line number.
func (r *PgxReportingRepository) ListSubjectLines(ctx context.Context, filter domain.LineFilter) ([]domain.PostedLine, error) {
	query := `
		SELECT e.entry_id, e.entry_number, e.sequence, e.entry_date, e.description, e.source_type, e.source_id,
			e.status, l.line_number, l.account_id, a.account_number, a.name, a.normal_balance,
			l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.tenant_id = $1
		  AND e.subject_entity_id = $2
		  AND (cardinality($3::text[]) = 0 OR l.account_id = ANY($3::text[]))
		  AND ($4::date IS NULL OR e.entry_date >= $4::date)
		  AND ($5::date IS NULL OR e.entry_date <= $5::date)
		ORDER BY e.entry_date, e.sequence, l.line_number;
	`
	accountIDs := filter.AccountIDs
	if accountIDs == nil {
		accountIDs = []string{}
	}
	rows, err := r.db.Query(ctx, query, filter.TenantID, filter.SubjectEntityID, accountIDs, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list lines for subject "+filter.SubjectEntityID, err)
	}
	defer rows.Close()

	lines := []domain.PostedLine{}
	for rows.Next() {
		var l domain.PostedLine
		err := rows.Scan(
			&l.EntryID, &l.EntryNumber, &l.Sequence, &l.EntryDate, &l.EntryDescription, &l.SourceType, &l.SourceID,
			&l.Status, &l.LineNumber, &l.AccountID, &l.AccountNumber, &l.AccountName, &l.NormalBalance,
			&l.Debit, &l.Credit, &l.Description,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan subject line row", err)
		}
		l.EntryDate = domain.DateOnly(l.EntryDate)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating subject line rows", err)
	}
	return lines, nil
}
