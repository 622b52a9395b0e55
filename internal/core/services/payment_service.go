package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// paymentService authorizes payments and posts the approved ones.
type paymentService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	paymentRepo portsrepo.PaymentReader
	journal     portssvc.JournalTxPoster
	authorizer  portssvc.PaymentAuthorizer
	accountMap  domain.AccountMap
}

// PaymentServiceOption is a functional option for configuring the payment service
type PaymentServiceOption func(*paymentService)

// WithPaymentMetrics sets the metrics recorder for payment outcomes.
func WithPaymentMetrics(m portssvc.LedgerMetrics) PaymentServiceOption {
	return func(s *paymentService) {
		s.Metrics = m
	}
}

// NewPaymentService creates the payment adapter.
func NewPaymentService(
	txManager portsrepo.TransactionManager,
	paymentRepo portsrepo.PaymentReader,
	journal portssvc.JournalTxPoster,
	authorizer portssvc.PaymentAuthorizer,
	accountMap domain.AccountMap,
	options ...PaymentServiceOption,
) portssvc.PaymentService {
	svc := &paymentService{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		journal:     journal,
		authorizer:  authorizer,
		accountMap:  accountMap,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PaymentService = (*paymentService)(nil)

// ProcessPayment authorizes the payment and records the attempt. Only an APPROVED payment
// posts entries; a declined or failed authorization is recorded with no journal entry.
func (s *paymentService) ProcessPayment(ctx context.Context, req domain.PaymentRequest, actor string) (*domain.PaymentTransaction, error) {
	if err := validateParties(req.TenantID, req.PaymentID, req.FilerID, req.MunicipalityID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrActorMissing)
	}
	if req.PaymentDate.IsZero() {
		return nil, fmt.Errorf("%w: payment date is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Method) == "" {
		return nil, fmt.Errorf("%w: payment method is required", apperrors.ErrValidation)
	}
	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: Payment amount must be positive", apperrors.ErrValidation)
	}
	breakdown, err := domain.ResolveBreakdown(amount, req.Breakdown)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	payment := domain.PaymentTransaction{
		PaymentID:      req.PaymentID,
		TenantID:       req.TenantID,
		FilerID:        req.FilerID,
		MunicipalityID: req.MunicipalityID,
		PaymentDate:    domain.DateOnly(req.PaymentDate),
		Amount:         amount,
		Method:         req.Method,
		Breakdown:      breakdown,
		Status:         domain.PaymentPending,
		AuditFields:    domain.NewAuditFields(actor, now),
	}

	// The attempt is stored as PENDING before the collaborator is asked to charge. A repeated
	// payment id fails here, and a charge whose outcome cannot be recorded keeps its PENDING row.
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SavePayment(ctx, payment)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment attempt",
			slog.String("tenant_id", req.TenantID),
			slog.String("payment_id", req.PaymentID))
		return nil, err
	}

	s.applyAuthorization(ctx, &payment, req)

	var posted *domain.PostedPair
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if payment.Status == domain.PaymentApproved {
			var err error
			posted, err = s.journal.PostPairInTx(ctx, tx, s.buildPair(payment, actor))
			if err != nil {
				return err
			}
			payment.JournalEntryID = &posted.Filer.EntryID
			payment.MunicipalityEntryID = &posted.Municipality.EntryID
		}
		payment.LastUpdatedAt = s.Now()
		payment.LastUpdatedBy = actor
		if err := tx.UpdatePaymentOutcome(ctx, payment); err != nil {
			return err
		}
		status := string(payment.Status)
		audit := newAuditLog(payment.TenantID, payment.PaymentID, domain.EntityPayment, domain.ActionCreate, actor, now,
			fmt.Sprintf("payment of %s by %s recorded as %s", domain.FormatMoney(payment.Amount), payment.Method, payment.Status))
		audit.NewValue = &status
		audit.Reason = payment.FailureReason
		return tx.AppendAudit(ctx, audit)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment outcome, attempt left PENDING",
			slog.String("tenant_id", req.TenantID),
			slog.String("payment_id", req.PaymentID),
			slog.String("authorization_status", string(payment.Status)))
		return nil, err
	}

	if posted != nil {
		s.journal.PublishPosted(ctx, actor, posted.Filer, posted.Municipality)
	}
	s.metrics().PaymentProcessed(payment.Status)
	s.LogInfo(ctx, "Payment processed",
		slog.String("tenant_id", payment.TenantID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("status", string(payment.Status)))
	return &payment, nil
}

// applyAuthorization asks the collaborator and copies its answer onto payment.
// A transport failure is recorded as an ERROR attempt instead of failing the call.
func (s *paymentService) applyAuthorization(ctx context.Context, payment *domain.PaymentTransaction, req domain.PaymentRequest) {
	auth, err := s.authorizer.Authorize(ctx, domain.AuthorizationRequest{
		PaymentID:  req.PaymentID,
		Amount:     payment.Amount,
		Method:     req.Method,
		Instrument: req.Instrument,
	})
	if err == nil && auth == nil {
		err = errors.New("authorizer returned no result")
	}
	if err != nil {
		s.LogError(ctx, err, "Payment authorization failed",
			slog.String("tenant_id", req.TenantID),
			slog.String("payment_id", req.PaymentID))
		reason := fmt.Errorf("%w: %w", apperrors.ErrIntegration, err).Error()
		payment.Status = domain.PaymentError
		payment.FailureReason = &reason
		return
	}

	payment.ProviderTransactionID = auth.ProviderTransactionID
	payment.AuthorizationCode = auth.AuthorizationCode
	payment.FailureReason = auth.FailureReason
	switch auth.Status {
	case domain.PaymentApproved, domain.PaymentDeclined, domain.PaymentError:
		payment.Status = auth.Status
	default:
		reason := fmt.Sprintf("%s: unexpected authorization status %q", apperrors.ErrIntegration, auth.Status)
		payment.Status = domain.PaymentError
		payment.FailureReason = &reason
	}
}

// buildPair allocates an approved payment across the liability and receivable accounts.
func (s *paymentService) buildPair(p domain.PaymentTransaction, actor string) domain.PostingPair {
	filerCandidates := make([]domain.LineInput, 0, len(domain.TaxComponents)+1)
	municipalityCandidates := make([]domain.LineInput, 0, len(domain.TaxComponents)+1)
	municipalityCandidates = append(municipalityCandidates, domain.DebitLine(s.accountMap.Cash, p.Amount, "Payment received"))
	for _, c := range domain.TaxComponents {
		amount := p.Breakdown.Amount(c)
		label := fmt.Sprintf("Payment applied to %s", strings.ToLower(string(c)))
		filerCandidates = append(filerCandidates, domain.DebitLine(s.accountMap.FilerLiability[c], amount, label))
		municipalityCandidates = append(municipalityCandidates, domain.CreditLine(s.accountMap.MunicipalityReceivable[c], amount, label))
	}
	filerCandidates = append(filerCandidates, domain.CreditLine(s.accountMap.Cash, p.Amount, "Payment sent"))

	description := fmt.Sprintf("Payment %s via %s", p.PaymentID, p.Method)
	return domain.PostingPair{
		Filer: domain.PostingRequest{
			TenantID:        p.TenantID,
			SubjectEntityID: p.FilerID,
			EntryDate:       p.PaymentDate,
			Description:     description,
			SourceType:      domain.SourcePayment,
			SourceID:        p.PaymentID,
			Actor:           actor,
			Lines:           domain.NonZeroLines(filerCandidates),
		},
		Municipality: domain.PostingRequest{
			TenantID:        p.TenantID,
			SubjectEntityID: p.MunicipalityID,
			EntryDate:       p.PaymentDate,
			Description:     description,
			SourceType:      domain.SourcePayment,
			SourceID:        p.PaymentID,
			Actor:           actor,
			Lines:           domain.NonZeroLines(municipalityCandidates),
		},
	}
}

// GetPayment retrieves a recorded payment attempt. An id used only by another tenant is refused.
func (s *paymentService) GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.PaymentTransaction, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
	if !errors.Is(err, apperrors.ErrNotFound) {
		return payment, err
	}
	foreign, existsErr := s.paymentRepo.PaymentExistsInAnyTenant(ctx, paymentID)
	if existsErr != nil {
		return nil, existsErr
	}
	if foreign {
		return nil, fmt.Errorf("%w: payment %s belongs to another tenant", apperrors.ErrForbidden, paymentID)
	}
	return nil, err
}
