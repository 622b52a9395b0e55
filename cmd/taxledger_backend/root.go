package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/muni_tax_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/muni_tax_ledger/internal/core/ports/services"
	"github.com/SscSPs/muni_tax_ledger/internal/core/services"
	"github.com/SscSPs/muni_tax_ledger/internal/platform/config"
	"github.com/SscSPs/muni_tax_ledger/internal/platform/events"
	"github.com/SscSPs/muni_tax_ledger/internal/platform/paymentgateway"
	"github.com/SscSPs/muni_tax_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/muni_tax_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/muni_tax_ledger/pkg/database"
)

// globalFlags override the environment configuration for one invocation.
type globalFlags struct {
	store      string
	sqlitePath string
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "taxledger",
		Short: "Municipal tax general ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.store, "store", "", "ledger store: postgres or sqlite (overrides STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&flags.sqlitePath, "sqlite-path", "", "SQLite database file (overrides SQLITE_PATH)")

	rootCmd.AddCommand(
		newServeCommand(logger, flags),
		newMigrateCommand(logger, flags),
		newSeedChartCommand(logger, flags),
		newTrialBalanceCommand(logger, flags),
	)
	return rootCmd
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flags.store != "" {
		switch flags.store {
		case config.StoreDriverPostgres, config.StoreDriverSQLite:
			cfg.StoreDriver = flags.store
		default:
			return nil, fmt.Errorf("unsupported --store %q: expected %s or %s", flags.store, config.StoreDriverPostgres, config.StoreDriverSQLite)
		}
	}
	if flags.sqlitePath != "" {
		cfg.SQLitePath = flags.sqlitePath
	}
	return cfg, nil
}

// openStore connects the configured ledger store. Postgres is migrated first when migrate is set;
// SQLite always applies its schema on open.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("SQLite ledger store opened.", slog.String("path", cfg.SQLitePath))
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close sqlite store", slog.String("error", err.Error()))
			}
		}
		return store.Repositories(), closeFn, nil
	default:
		if migrate {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	}
}

// buildServices wires the ledger services to the store and the external collaborators.
// The returned function releases the collaborators.
func buildServices(cfg *config.Config, repos portsrepo.RepositoryProvider, metrics portssvc.LedgerMetrics, logger *slog.Logger) (*portssvc.ServiceContainer, func()) {
	var publisher portssvc.EventPublisher = events.NoopPublisher{}
	closeFn := func() {}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = kafkaPublisher
		closeFn = func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("Failed to close kafka publisher", slog.String("error", err.Error()))
			}
		}
		logger.Info("Publishing ledger events to Kafka.", slog.String("topic", cfg.KafkaTopic))
	}

	var authorizer portssvc.PaymentAuthorizer = paymentgateway.Sandbox{}
	if cfg.PaymentGatewayURL != "" {
		authorizer = paymentgateway.NewClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayTimeout)
	}

	container := services.NewServiceContainer(repos, services.ServiceDependencies{
		Authorizer: authorizer,
		Publisher:  publisher,
		Metrics:    metrics,
		AccountMap: domain.DefaultAccountMap(),
	})
	return container, closeFn
}
