package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// assessmentService turns computed assessments into two-sided postings.
type assessmentService struct {
	BaseService
	journal    portssvc.JournalWriterSvc
	accountMap domain.AccountMap
}

// NewAssessmentService creates the tax assessment adapter.
func NewAssessmentService(journal portssvc.JournalWriterSvc, accountMap domain.AccountMap) portssvc.AssessmentService {
	return &assessmentService{journal: journal, accountMap: accountMap}
}

var _ portssvc.AssessmentService = (*assessmentService)(nil)

// Assess posts the filer and municipality legs of an assessment. Components of zero produce no lines.
func (s *assessmentService) Assess(ctx context.Context, a domain.Assessment, actor string) (*domain.AssessmentPosting, error) {
	if err := validateParties(a.TenantID, a.AssessmentID, a.FilerID, a.MunicipalityID); err != nil {
		return nil, err
	}
	if a.AssessmentDate.IsZero() {
		return nil, fmt.Errorf("%w: assessment date is required", apperrors.ErrValidation)
	}

	a.Tax = domain.RoundMoney(a.Tax)
	a.Penalty = domain.RoundMoney(a.Penalty)
	a.Interest = domain.RoundMoney(a.Interest)

	filerCandidates := make([]domain.LineInput, 0, 2*len(domain.TaxComponents))
	municipalityCandidates := make([]domain.LineInput, 0, 2*len(domain.TaxComponents))
	for _, c := range domain.TaxComponents {
		amount := a.Amount(c)
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s amount must not be negative", apperrors.ErrValidation, strings.ToLower(string(c)))
		}
		label := fmt.Sprintf("Assessed %s", strings.ToLower(string(c)))
		filerCandidates = append(filerCandidates,
			domain.DebitLine(s.accountMap.FilerExpense[c], amount, label),
			domain.CreditLine(s.accountMap.FilerLiability[c], amount, label))
		municipalityCandidates = append(municipalityCandidates,
			domain.DebitLine(s.accountMap.MunicipalityReceivable[c], amount, label),
			domain.CreditLine(s.accountMap.MunicipalityRevenue[c], amount, label))
	}

	filerLines := domain.NonZeroLines(filerCandidates)
	if len(filerLines) == 0 {
		return nil, fmt.Errorf("%w: assessment %s has no non-zero component", apperrors.ErrValidation, a.AssessmentID)
	}

	description := fmt.Sprintf("Tax assessment %s", a.AssessmentID)
	pair := domain.PostingPair{
		Filer: domain.PostingRequest{
			TenantID:        a.TenantID,
			SubjectEntityID: a.FilerID,
			EntryDate:       a.AssessmentDate,
			Description:     description,
			SourceType:      domain.SourceAssessment,
			SourceID:        a.AssessmentID,
			Actor:           actor,
			Lines:           filerLines,
		},
		Municipality: domain.PostingRequest{
			TenantID:        a.TenantID,
			SubjectEntityID: a.MunicipalityID,
			EntryDate:       a.AssessmentDate,
			Description:     description,
			SourceType:      domain.SourceAssessment,
			SourceID:        a.AssessmentID,
			Actor:           actor,
			Lines:           domain.NonZeroLines(municipalityCandidates),
		},
	}

	posted, err := s.journal.PostPair(ctx, pair)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Assessment posted",
		slog.String("tenant_id", a.TenantID),
		slog.String("assessment_id", a.AssessmentID),
		slog.String("filer_entry", posted.Filer.EntryNumber),
		slog.String("municipality_entry", posted.Municipality.EntryNumber))
	return &domain.AssessmentPosting{Assessment: a, PostedPair: *posted}, nil
}

// validateParties checks the identifiers every adapter event carries.
func validateParties(tenantID, eventID, filerID, municipalityID string) error {
	switch {
	case strings.TrimSpace(tenantID) == "":
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTenantMissing)
	case strings.TrimSpace(eventID) == "":
		return fmt.Errorf("%w: event id is required", apperrors.ErrValidation)
	case strings.TrimSpace(filerID) == "":
		return fmt.Errorf("%w: filer id is required", apperrors.ErrValidation)
	case strings.TrimSpace(municipalityID) == "":
		return fmt.Errorf("%w: municipality id is required", apperrors.ErrValidation)
	case filerID == municipalityID:
		return fmt.Errorf("%w: filer and municipality must differ", apperrors.ErrValidation)
	}
	return nil
}
