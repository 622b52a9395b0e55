package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/SscSPs/muni_tax_ledger/internal/platform/chartfile"
)

func newSeedChartCommand(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	var tenantID, actor, file string

	cmd := &cobra.Command{
		Use:   "seed-chart",
		Short: "Create a tenant's chart of accounts",
		Long:  "Creates every account of the chart that the tenant does not have yet. Without --file the standard municipal chart is used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			chart := domain.DefaultMunicipalChart()
			if file != "" {
				chart, err = chartfile.Load(file)
				if err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			repos, closeStore, err := openStore(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer closeStore()

			container, closeServices := buildServices(cfg, repos, nil, logger)
			defer closeServices()

			created, err := container.Account.SeedChart(ctx, tenantID, chart, actor)
			if err != nil {
				return err
			}
			for _, a := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", a.AccountNumber, a.Name, a.AccountType)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d accounts created for tenant %s\n", len(created), len(chart), tenantID)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id (required)")
	_ = cmd.MarkFlagRequired("tenant")
	cmd.Flags().StringVar(&actor, "actor", "cli", "actor recorded on the created accounts")
	cmd.Flags().StringVar(&file, "file", "", "TOML chart file with [[accounts]] tables")

	return cmd
}
