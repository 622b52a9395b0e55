package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/utils/accounting"
)

var (
	ErrEntryNoLines       = errors.New("journal entry must have at least one line")
	ErrEntryAlreadyPosted = errors.New("journal entry already posted for this source")
	ErrEntryReversed      = errors.New("journal entry is already reversed")
	ErrEntryIsReversal    = errors.New("a reversal entry cannot be reversed")
	ErrPairSourceMismatch = errors.New("both legs of a two-sided posting must share tenant, source type and source id")
	ErrActorMissing       = errors.New("actor is required")
	ErrDescriptionMissing = errors.New("journal entry description is required")
	ErrUnknownSourceType  = errors.New("unknown source type")
	ErrEntryDateMissing   = errors.New("journal entry date is required")
	ErrTenantMissing      = errors.New("tenant is required")
	ErrEntryOtherTenant   = errors.New("entry belongs to another tenant")
)

var knownSourceTypes = map[domain.SourceType]bool{
	domain.SourceManual:         true,
	domain.SourceAssessment:     true,
	domain.SourcePayment:        true,
	domain.SourceRefundRequest:  true,
	domain.SourceRefundIssuance: true,
	domain.SourceReversal:       true,
}

// journalService validates, numbers and persists journal entries.
type journalService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	journalRepo portsrepo.JournalReader
	publisher   portssvc.EventPublisher
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalMetrics sets the metrics recorder for the journal service.
func WithJournalMetrics(m portssvc.LedgerMetrics) JournalServiceOption {
	return func(s *journalService) {
		s.Metrics = m
	}
}

// WithEventPublisher sets the publisher notified after entries commit.
func WithEventPublisher(p portssvc.EventPublisher) JournalServiceOption {
	return func(s *journalService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithJournalClock overrides the clock used for posting timestamps.
func WithJournalClock(clock func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.Clock = clock
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(txManager portsrepo.TransactionManager, journalRepo portsrepo.JournalReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		txManager:   txManager,
		journalRepo: journalRepo,
		publisher:   noopPublisher{},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// Post validates and atomically persists one balanced entry.
func (s *journalService) Post(ctx context.Context, req domain.PostingRequest) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		entry, err = s.postInTx(ctx, tx, req)
		return err
	})
	if err != nil {
		s.recordRejection(ctx, err, req)
		return nil, err
	}

	s.PublishPosted(ctx, req.Actor, entry)
	return entry, nil
}

// PostPair posts both legs of a two-sided posting in one transaction.
func (s *journalService) PostPair(ctx context.Context, pair domain.PostingPair) (*domain.PostedPair, error) {
	var posted *domain.PostedPair
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		posted, err = s.PostPairInTx(ctx, tx, pair)
		return err
	})
	if err != nil {
		s.recordRejection(ctx, err, pair.Filer)
		return nil, err
	}

	s.PublishPosted(ctx, pair.Filer.Actor, posted.Filer, posted.Municipality)
	return posted, nil
}

// PostPairInTx posts the filer leg then the municipality leg inside the caller's transaction.
func (s *journalService) PostPairInTx(ctx context.Context, tx portsrepo.LedgerTx, pair domain.PostingPair) (*domain.PostedPair, error) {
	f, m := pair.Filer, pair.Municipality
	if f.TenantID != m.TenantID || f.SourceType != m.SourceType || f.SourceID != m.SourceID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPairSourceMismatch)
	}

	filerEntry, err := s.postInTx(ctx, tx, f)
	if err != nil {
		return nil, fmt.Errorf("filer leg: %w", err)
	}
	municipalityEntry, err := s.postInTx(ctx, tx, m)
	if err != nil {
		return nil, fmt.Errorf("municipality leg: %w", err)
	}
	return &domain.PostedPair{Filer: filerEntry, Municipality: municipalityEntry}, nil
}

// postInTx resolves accounts, validates and inserts one entry.
func (s *journalService) postInTx(ctx context.Context, tx portsrepo.LedgerTx, req domain.PostingRequest) (*domain.JournalEntry, error) {
	if err := validatePostingHeader(req); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, tx, req.TenantID, req.Lines)
	if err != nil {
		return nil, err
	}

	header := domain.JournalEntry{
		TenantID:        req.TenantID,
		EntryDate:       domain.DateOnly(req.EntryDate),
		Description:     req.Description,
		SourceType:      req.SourceType,
		SourceID:        req.SourceID,
		SubjectEntityID: req.SubjectEntityID,
	}
	return s.insertEntry(ctx, tx, header, lines, req.Actor)
}

func validatePostingHeader(req domain.PostingRequest) error {
	switch {
	case strings.TrimSpace(req.TenantID) == "":
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrTenantMissing)
	case strings.TrimSpace(req.Actor) == "":
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrActorMissing)
	case strings.TrimSpace(req.Description) == "":
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrDescriptionMissing)
	case req.EntryDate.IsZero():
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryDateMissing)
	case !knownSourceTypes[req.SourceType]:
		return fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnknownSourceType, req.SourceType)
	case len(req.Lines) == 0:
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryNoLines)
	}
	return nil
}

// resolveLines rounds amounts and binds every line to an active account of the tenant.
func (s *journalService) resolveLines(ctx context.Context, tx portsrepo.LedgerTx, tenantID string, inputs []domain.LineInput) ([]domain.JournalLine, error) {
	numbers := make([]string, 0, len(inputs))
	for _, in := range inputs {
		numbers = append(numbers, in.AccountNumber)
	}

	accounts, err := tx.FindAccountsByNumbers(ctx, tenantID, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	lines := make([]domain.JournalLine, len(inputs))
	for i, in := range inputs {
		acc, ok := accounts[in.AccountNumber]
		if !ok {
			return nil, fmt.Errorf("%w: line %d references unknown account %s", apperrors.ErrValidation, i+1, in.AccountNumber)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: line %d references inactive account %s", apperrors.ErrValidation, i+1, in.AccountNumber)
		}
		lines[i] = domain.JournalLine{
			AccountID:     acc.AccountID,
			AccountNumber: acc.AccountNumber,
			LineNumber:    i + 1,
			Debit:         domain.RoundMoney(in.Debit),
			Credit:        domain.RoundMoney(in.Credit),
			Description:   in.Description,
		}
	}
	return lines, nil
}

// insertEntry validates the lines, reserves a number and writes the entry with its CREATE audit record.
func (s *journalService) insertEntry(ctx context.Context, tx portsrepo.LedgerTx, header domain.JournalEntry, lines []domain.JournalLine, actor string) (*domain.JournalEntry, error) {
	if err := accounting.ValidateJournalLines(lines); err != nil {
		return nil, err
	}

	if header.SourceID != "" {
		exists, err := tx.EntryExistsForSource(ctx, header.TenantID, header.SourceType, header.SourceID, header.SubjectEntityID)
		if err != nil {
			return nil, fmt.Errorf("failed to check source uniqueness: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %w: %s %s", apperrors.ErrDuplicate, ErrEntryAlreadyPosted, header.SourceType, header.SourceID)
		}
	}

	prefix := domain.EntryNumberPrefix(header.EntryDate)
	seq, err := tx.NextEntrySequence(ctx, header.TenantID, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve entry number: %w", err)
	}

	now := s.Now()
	entry := header
	entry.EntryID = uuid.NewString()
	entry.Sequence = seq
	entry.EntryNumber = domain.FormatEntryNumber(prefix, seq)
	entry.Status = domain.Posted
	entry.PostedBy = actor
	entry.PostedAt = now
	entry.AuditFields = domain.NewAuditFields(actor, now)
	entry.Lines = make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		line.LineID = uuid.NewString()
		line.EntryID = entry.EntryID
		entry.Lines[i] = line
	}

	if err := tx.InsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert journal entry: %w", err)
	}

	debits, _ := entry.Totals()
	status := string(domain.Posted)
	audit := newAuditLog(entry.TenantID, entry.EntryID, domain.EntityJournalEntry, domain.ActionCreate, actor, now,
		fmt.Sprintf("posted %s (%s %s) with %d lines totaling %s", entry.EntryNumber, entry.SourceType, entry.SourceID, len(entry.Lines), domain.FormatMoney(debits)))
	audit.NewValue = &status
	if err := tx.AppendAudit(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to append audit record: %w", err)
	}

	s.LogDebug(ctx, "Journal entry inserted",
		slog.String("tenant_id", entry.TenantID),
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	return &entry, nil
}

// Reverse posts the mirror of an entry, links both and marks the original REVERSED.
func (s *journalService) Reverse(ctx context.Context, tenantID, entryID, actor, reason string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrActorMissing)
	}

	var mirror *domain.JournalEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := tx.FindEntryByID(ctx, entryID)
		if err != nil {
			return err
		}
		if original.TenantID != tenantID {
			return fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrEntryOtherTenant)
		}
		if original.Status == domain.Reversed {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrConflict, ErrEntryReversed, original.EntryNumber)
		}
		if original.IsReversal() {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrConflict, ErrEntryIsReversal, original.EntryNumber)
		}

		originalID := original.EntryID
		header := domain.JournalEntry{
			TenantID:        original.TenantID,
			EntryDate:       original.EntryDate,
			Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description),
			SourceType:      domain.SourceReversal,
			SourceID:        originalID,
			SubjectEntityID: original.SubjectEntityID,
			ReversalOfID:    &originalID,
		}
		mirror, err = s.insertEntry(ctx, tx, header, domain.SwapSides(original.Lines), actor)
		if err != nil {
			return err
		}

		now := s.Now()
		if err := tx.MarkEntryReversed(ctx, originalID, mirror.EntryID, actor, reason, now); err != nil {
			return err
		}

		oldStatus, newStatus := string(domain.Posted), string(domain.Reversed)
		audit := newAuditLog(original.TenantID, originalID, domain.EntityJournalEntry, domain.ActionReverse, actor, now,
			fmt.Sprintf("reversed %s by %s", original.EntryNumber, mirror.EntryNumber))
		audit.OldValue = &oldStatus
		audit.NewValue = &newStatus
		if reason != "" {
			audit.Reason = &reason
		}
		return tx.AppendAudit(ctx, audit)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		s.metrics().PostRejected(errorKind(err))
		return nil, err
	}

	s.metrics().EntryReversed()
	s.publish(ctx, domain.NewLedgerEvent(domain.EventEntryReversed, *mirror, actor, s.Now()))
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", mirror.EntryID))
	return mirror, nil
}

// GetEntry retrieves an entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.TenantID != tenantID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrEntryOtherTenant)
	}
	return entry, nil
}

// ListEntriesBySource retrieves the entries posted for one business event.
func (s *journalService) ListEntriesBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) ([]domain.JournalEntry, error) {
	return s.journalRepo.ListEntriesBySource(ctx, tenantID, sourceType, sourceID)
}

// PublishPosted records metrics and publishes events for committed entries.
func (s *journalService) PublishPosted(ctx context.Context, actor string, entries ...*domain.JournalEntry) {
	now := s.Now()
	events := make([]domain.LedgerEvent, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		s.metrics().EntryPosted(entry.SourceType)
		events = append(events, domain.NewLedgerEvent(domain.EventEntryPosted, *entry, actor, now))
		s.LogInfo(ctx, "Journal entry posted",
			slog.String("tenant_id", entry.TenantID),
			slog.String("entry_id", entry.EntryID),
			slog.String("entry_number", entry.EntryNumber),
			slog.String("source_type", string(entry.SourceType)),
			slog.String("source_id", entry.SourceID))
	}
	s.publish(ctx, events...)
}

// publish delivers events best effort. The entries are already committed.
func (s *journalService) publish(ctx context.Context, events ...domain.LedgerEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.metrics().EventPublishFailed()
		s.LogError(ctx, err, "Failed to publish ledger events", slog.Int("event_count", len(events)))
	}
}

func (s *journalService) recordRejection(ctx context.Context, err error, req domain.PostingRequest) {
	s.metrics().PostRejected(errorKind(err))
	s.LogError(ctx, err, "Journal posting rejected",
		slog.String("tenant_id", req.TenantID),
		slog.String("source_type", string(req.SourceType)),
		slog.String("source_id", req.SourceID))
}

// errorKind buckets an error for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrIntegration):
		return "integration"
	default:
		return "internal"
	}
}
