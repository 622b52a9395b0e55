package paymentgateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// Sandbox test instruments, matched against instrument["token"].
const (
	SandboxDeclineToken = "tok_decline"
	SandboxErrorToken   = "tok_error"
)

// Sandbox approves everything except the documented test tokens. It never leaves the process.
type Sandbox struct{}

var _ portssvc.PaymentAuthorizer = Sandbox{}

func (Sandbox) Authorize(_ context.Context, req domain.AuthorizationRequest) (*domain.Authorization, error) {
	txID := "sbx_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	switch req.Instrument["token"] {
	case SandboxErrorToken:
		return nil, fmt.Errorf("%w: sandbox gateway unreachable", apperrors.ErrIntegration)
	case SandboxDeclineToken:
		reason := "card declined"
		return &domain.Authorization{
			Status:                domain.PaymentDeclined,
			ProviderTransactionID: txID,
			FailureReason:         &reason,
		}, nil
	}
	code := strings.ToUpper(txID[len(txID)-6:])
	return &domain.Authorization{
		Status:                domain.PaymentApproved,
		ProviderTransactionID: txID,
		AuthorizationCode:     &code,
	}, nil
}
