package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// ErrRefundAmount is returned for a zero or negative refund amount.
var ErrRefundAmount = fmt.Errorf("%w: Refund amount must be positive", apperrors.ErrValidation)

// refundService posts the request and issuance phases of refunds.
type refundService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	refundRepo portsrepo.RefundReader
	journal    portssvc.JournalTxPoster
	accountMap domain.AccountMap
}

// NewRefundService creates the refund adapter.
func NewRefundService(txManager portsrepo.TransactionManager, refundRepo portsrepo.RefundReader, journal portssvc.JournalTxPoster, accountMap domain.AccountMap) portssvc.RefundService {
	return &refundService{
		txManager:  txManager,
		refundRepo: refundRepo,
		journal:    journal,
		accountMap: accountMap,
	}
}

var _ portssvc.RefundService = (*refundService)(nil)

// RequestRefund moves the amount from the filer's tax liability into refund receivable and
// books the municipality's refund expense, together with the refund record.
func (s *refundService) RequestRefund(ctx context.Context, req domain.RefundRequest, actor string) (*domain.Refund, error) {
	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, ErrRefundAmount
	}
	if err := validateParties(req.TenantID, req.RefundID, req.FilerID, req.MunicipalityID); err != nil {
		return nil, err
	}
	if req.RequestDate.IsZero() {
		return nil, fmt.Errorf("%w: refund request date is required", apperrors.ErrValidation)
	}

	now := s.Now()
	refund := domain.Refund{
		RefundID:        req.RefundID,
		TenantID:        req.TenantID,
		FilerID:         req.FilerID,
		MunicipalityID:  req.MunicipalityID,
		RequestedAmount: amount,
		Reason:          req.Reason,
		Status:          domain.RefundRequested,
		RequestDate:     domain.DateOnly(req.RequestDate),
		AuditFields:     domain.NewAuditFields(actor, now),
	}

	m := s.accountMap
	pair := s.pair(refund, domain.SourceRefundRequest, refund.RequestDate, actor,
		fmt.Sprintf("Refund request %s", refund.RefundID),
		[]domain.LineInput{
			domain.DebitLine(m.RefundReceivable, amount, "Refund requested"),
			domain.CreditLine(m.FilerLiability[domain.ComponentTax], amount, "Refund requested"),
		},
		[]domain.LineInput{
			domain.DebitLine(m.RefundExpense, amount, "Refund requested"),
			domain.CreditLine(m.RefundsPayable, amount, "Refund requested"),
		})

	var posted *domain.PostedPair
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		posted, err = s.journal.PostPairInTx(ctx, tx, pair)
		if err != nil {
			return err
		}
		refund.RequestEntryID = posted.Filer.EntryID
		refund.RequestMunicipalEntryID = posted.Municipality.EntryID
		if err := tx.SaveRefund(ctx, refund); err != nil {
			return err
		}

		status := string(domain.RefundRequested)
		audit := newAuditLog(refund.TenantID, refund.RefundID, domain.EntityRefund, domain.ActionCreate, actor, now,
			fmt.Sprintf("refund of %s requested", domain.FormatMoney(amount)))
		audit.NewValue = &status
		if refund.Reason != "" {
			audit.Reason = &refund.Reason
		}
		return tx.AppendAudit(ctx, audit)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to request refund",
			slog.String("tenant_id", req.TenantID),
			slog.String("refund_id", req.RefundID))
		return nil, err
	}

	s.journal.PublishPosted(ctx, actor, posted.Filer, posted.Municipality)
	return &refund, nil
}

// IssueRefund pays out a requested refund. A nil amount issues the full requested amount.
func (s *refundService) IssueRefund(ctx context.Context, tenantID, refundID string, issueDate time.Time, amount *decimal.Decimal, actor string) (*domain.Refund, error) {
	if amount != nil {
		rounded := domain.RoundMoney(*amount)
		if !rounded.IsPositive() {
			return nil, ErrRefundAmount
		}
		amount = &rounded
	}
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrActorMissing)
	}
	if issueDate.IsZero() {
		issueDate = s.Now()
	}
	issueDate = domain.DateOnly(issueDate)

	var refund *domain.Refund
	var posted *domain.PostedPair
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		refund, err = findRefund(ctx, tx, tenantID, refundID)
		if err != nil {
			return err
		}
		if refund.Status == domain.RefundIssued {
			return fmt.Errorf("%w: refund %s already issued", apperrors.ErrConflict, refundID)
		}

		issued := refund.RequestedAmount
		if amount != nil {
			issued = *amount
		}
		if issued.GreaterThan(refund.RequestedAmount) {
			return fmt.Errorf("%w: issued amount %s exceeds requested amount %s",
				apperrors.ErrValidation, domain.FormatMoney(issued), domain.FormatMoney(refund.RequestedAmount))
		}

		m := s.accountMap
		pair := s.pair(*refund, domain.SourceRefundIssuance, issueDate, actor,
			fmt.Sprintf("Refund issuance %s", refund.RefundID),
			[]domain.LineInput{
				domain.DebitLine(m.Cash, issued, "Refund received"),
				domain.CreditLine(m.RefundReceivable, issued, "Refund received"),
			},
			[]domain.LineInput{
				domain.DebitLine(m.RefundsPayable, issued, "Refund issued"),
				domain.CreditLine(m.Cash, issued, "Refund issued"),
			})
		posted, err = s.journal.PostPairInTx(ctx, tx, pair)
		if err != nil {
			return err
		}

		now := s.Now()
		refund.Status = domain.RefundIssued
		refund.IssuedAmount = &issued
		refund.IssueDate = &issueDate
		refund.IssueEntryID = &posted.Filer.EntryID
		refund.IssueMunicipalEntryID = &posted.Municipality.EntryID
		refund.LastUpdatedAt = now
		refund.LastUpdatedBy = actor
		if err := tx.MarkRefundIssued(ctx, *refund); err != nil {
			return err
		}

		oldStatus, newStatus := string(domain.RefundRequested), string(domain.RefundIssued)
		audit := newAuditLog(refund.TenantID, refund.RefundID, domain.EntityRefund, domain.ActionUpdate, actor, now,
			fmt.Sprintf("refund of %s issued", domain.FormatMoney(issued)))
		audit.OldValue = &oldStatus
		audit.NewValue = &newStatus
		return tx.AppendAudit(ctx, audit)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to issue refund",
			slog.String("tenant_id", tenantID),
			slog.String("refund_id", refundID))
		return nil, err
	}

	s.journal.PublishPosted(ctx, actor, posted.Filer, posted.Municipality)
	s.LogInfo(ctx, "Refund issued",
		slog.String("tenant_id", tenantID),
		slog.String("refund_id", refundID))
	return refund, nil
}

// GetRefund retrieves a refund.
func (s *refundService) GetRefund(ctx context.Context, tenantID, refundID string) (*domain.Refund, error) {
	return findRefund(ctx, s.refundRepo, tenantID, refundID)
}

// findRefund loads a tenant's refund, refusing ids that only another tenant has used.
func findRefund(ctx context.Context, reader portsrepo.RefundReader, tenantID, refundID string) (*domain.Refund, error) {
	refund, err := reader.FindRefundByID(ctx, tenantID, refundID)
	if !errors.Is(err, apperrors.ErrNotFound) {
		return refund, err
	}
	foreign, existsErr := reader.RefundExistsInAnyTenant(ctx, refundID)
	if existsErr != nil {
		return nil, existsErr
	}
	if foreign {
		return nil, fmt.Errorf("%w: refund %s belongs to another tenant", apperrors.ErrForbidden, refundID)
	}
	return nil, err
}

func (s *refundService) pair(r domain.Refund, sourceType domain.SourceType, date time.Time, actor, description string, filerLines, municipalityLines []domain.LineInput) domain.PostingPair {
	return domain.PostingPair{
		Filer: domain.PostingRequest{
			TenantID:        r.TenantID,
			SubjectEntityID: r.FilerID,
			EntryDate:       date,
			Description:     description,
			SourceType:      sourceType,
			SourceID:        r.RefundID,
			Actor:           actor,
			Lines:           domain.NonZeroLines(filerLines),
		},
		Municipality: domain.PostingRequest{
			TenantID:        r.TenantID,
			SubjectEntityID: r.MunicipalityID,
			EntryDate:       date,
			Description:     description,
			SourceType:      sourceType,
			SourceID:        r.RefundID,
			Actor:           actor,
			Lines:           domain.NonZeroLines(municipalityLines),
		},
	}
}
