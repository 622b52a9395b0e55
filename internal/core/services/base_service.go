package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics portssvc.LedgerMetrics
	Clock   func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current UTC time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// metrics returns the configured recorder or a no-op one.
func (s *BaseService) metrics() portssvc.LedgerMetrics {
	if s.Metrics == nil {
		return noopMetrics{}
	}
	return s.Metrics
}

type noopMetrics struct{}

func (noopMetrics) EntryPosted(domain.SourceType)         {}
func (noopMetrics) EntryReversed()                        {}
func (noopMetrics) PostRejected(string)                   {}
func (noopMetrics) PaymentProcessed(domain.PaymentStatus) {}
func (noopMetrics) EventPublishFailed()                   {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...domain.LedgerEvent) error { return nil }
