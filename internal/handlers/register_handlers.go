package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
	"github.com/SscSPs/muni_tax_ledger/internal/middleware"
	"github.com/SscSPs/muni_tax_ledger/internal/platform/config"
)

// MetricsProvider observes requests and serves the scrape endpoint.
type MetricsProvider interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// RouteDependencies carries the optional HTTP-level collaborators.
type RouteDependencies struct {
	Limiter *limiter.Limiter // nil disables rate limiting
	Metrics MetricsProvider  // nil disables request metrics and /metrics
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDependencies,
) error {
	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	r.Use(cors.New(corsConfig(cfg)))
	if deps.Metrics != nil {
		r.Use(middleware.RequestMetrics(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, services, deps)
	return nil
}

// setupAPIV1Routes configures the tenant-scoped /api/v1 group and delegates to the per-area registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer, deps RouteDependencies) {
	v1 := r.Group("/api/v1")
	if deps.Limiter != nil {
		v1.Use(middleware.RateLimit(deps.Limiter))
	}

	tenant := v1.Group("/tenants/:tenant_id", middleware.RequireActor())

	RegisterAccountRoutes(tenant, services.Account)
	RegisterJournalRoutes(tenant, services.Journal)
	RegisterReportingRoutes(tenant, services.Reporting, services.Statement)
	RegisterAdapterRoutes(tenant, services.Assessment, services.Payment, services.Refund)
	RegisterAuditRoutes(tenant, services.Audit)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID", middleware.ActorHeader},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	return corsCfg
}
