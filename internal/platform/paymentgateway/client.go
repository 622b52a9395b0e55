// Package paymentgateway implements the payment authorization collaborator.
package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
)

// Client authorizes payments against a gateway speaking JSON over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ portssvc.PaymentAuthorizer = (*Client)(nil)

// NewClient creates a gateway client. A non-positive timeout falls back to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type authorizeRequest struct {
	PaymentID  string            `json:"payment_id"`
	Amount     decimal.Decimal   `json:"amount"`
	Method     string            `json:"method"`
	Instrument map[string]string `json:"instrument,omitempty"`
}

type authorizeResponse struct {
	Status                string  `json:"status"`
	ProviderTransactionID string  `json:"provider_transaction_id"`
	AuthorizationCode     *string `json:"authorization_code,omitempty"`
	FailureReason         *string `json:"failure_reason,omitempty"`
}

// Authorize posts the request to {baseURL}/authorizations. Transport failures, non-2xx answers
// and unknown statuses all come back as apperrors.ErrIntegration.
func (c *Client) Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.Authorization, error) {
	payload, err := json.Marshal(authorizeRequest{
		PaymentID:  req.PaymentID,
		Amount:     req.Amount,
		Method:     req.Method,
		Instrument: req.Instrument,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authorization request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/authorizations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.PaymentID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: gateway request failed: %w", apperrors.ErrIntegration, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read gateway response: %w", apperrors.ErrIntegration, err)
	}
	slog.Debug("Payment gateway answered",
		slog.String("payment_id", req.PaymentID),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gateway returned HTTP %d: %s", apperrors.ErrIntegration, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out authorizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode gateway response: %w", apperrors.ErrIntegration, err)
	}

	status := domain.PaymentStatus(strings.ToUpper(out.Status))
	switch status {
	case domain.PaymentApproved, domain.PaymentDeclined, domain.PaymentError:
	default:
		return nil, fmt.Errorf("%w: gateway returned unknown status %q", apperrors.ErrIntegration, out.Status)
	}

	return &domain.Authorization{
		Status:                status,
		ProviderTransactionID: out.ProviderTransactionID,
		AuthorizationCode:     out.AuthorizationCode,
		FailureReason:         out.FailureReason,
	}, nil
}
