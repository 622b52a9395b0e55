package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/muni_tax_ledger/internal/platform/config"
	"github.com/SscSPs/muni_tax_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/muni_tax_ledger/pkg/database"
)

func newMigrateCommand(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the ledger store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.StoreDriver == config.StoreDriverSQLite {
				store, err := sqlite.Open(cmd.Context(), cfg.SQLitePath)
				if err != nil {
					return err
				}
				logger.Info("SQLite schema is up to date.", slog.String("path", cfg.SQLitePath))
				return store.Close()
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		},
	}
}
