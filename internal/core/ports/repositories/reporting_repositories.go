package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

// ReportingRepository defines the read-side aggregations behind reports
type ReportingRepository interface {
	// SumActivityByAccount totals debits and credits per account over lines of POSTED and REVERSED
	// entries dated on or before asOf. A nil asOf includes every line.
	SumActivityByAccount(ctx context.Context, tenantID string, asOf *time.Time) (map[string]domain.AccountActivity, error)

	// ListSubjectLines retrieves committed lines of entries whose subject entity matches the filter.
	ListSubjectLines(ctx context.Context, filter domain.LineFilter) ([]domain.PostedLine, error)
}
