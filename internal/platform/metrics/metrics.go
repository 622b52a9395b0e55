// Package metrics exposes ledger and HTTP counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
)

const namespace = "taxledger"

// Ledger holds every collector the service reports.
type Ledger struct {
	gatherer prometheus.Gatherer

	entriesPosted      *prometheus.CounterVec
	entriesReversed    prometheus.Counter
	postsRejected      *prometheus.CounterVec
	paymentsProcessed  *prometheus.CounterVec
	eventPublishErrors prometheus.Counter
	requestDuration    *prometheus.HistogramVec
}

var (
	_ portssvc.LedgerMetrics     = (*Ledger)(nil)
	_ middleware.RequestObserver = (*Ledger)(nil)
)

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Ledger {
	factory := promauto.With(reg)
	return &Ledger{
		gatherer: reg,
		entriesPosted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_posted_total",
			Help:      "Total journal entries posted, by source type.",
		}, []string{"source_type"}),
		entriesReversed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "entries_reversed_total",
			Help:      "Total journal entries reversed.",
		}),
		postsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "posts_rejected_total",
			Help:      "Total postings and reversals rejected, by error kind.",
		}, []string{"reason"}),
		paymentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "processed_total",
			Help:      "Total payment attempts recorded, by authorization status.",
		}, []string{"status"}),
		eventPublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "publish_failures_total",
			Help:      "Total ledger event batches that could not be published.",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Ledger) EntryPosted(sourceType domain.SourceType) {
	m.entriesPosted.WithLabelValues(string(sourceType)).Inc()
}

func (m *Ledger) EntryReversed() {
	m.entriesReversed.Inc()
}

func (m *Ledger) PostRejected(reason string) {
	m.postsRejected.WithLabelValues(reason).Inc()
}

func (m *Ledger) PaymentProcessed(status domain.PaymentStatus) {
	m.paymentsProcessed.WithLabelValues(string(status)).Inc()
}

func (m *Ledger) EventPublishFailed() {
	m.eventPublishErrors.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Ledger) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Ledger) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
