package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/SscSPs/muni_tax_ledger/internal/dto"
)

func newTrialBalanceCommand(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	var tenantID, asOf, period, output string
	var year int

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print a tenant's trial balance",
		Long:  "Prints the trial balance as of a date, for a period of a year (--year with --period Q1-Q4, M01-M12 or YEAR), or over all history.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unsupported --output %q: expected table or json", output)
			}
			if period != "" && year == 0 {
				return fmt.Errorf("--period requires --year")
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx := cmd.Context()
			repos, closeStore, err := openStore(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer closeStore()

			container, closeServices := buildServices(cfg, repos, nil, logger)
			defer closeServices()

			var tb *domain.TrialBalance
			if period != "" {
				tb, err = container.Reporting.GenerateTrialBalanceForPeriod(ctx, tenantID, year, period)
			} else {
				asOfDate, perr := dto.ParseOptionalDate("--as-of", asOf)
				if perr != nil {
					return perr
				}
				tb, err = container.Reporting.GenerateTrialBalance(ctx, tenantID, asOfDate)
			}
			if err != nil {
				return err
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.ToTrialBalanceResponse(tb))
			}
			return printTrialBalance(cmd.OutOrStdout(), tb)
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id (required)")
	_ = cmd.MarkFlagRequired("tenant")
	cmd.Flags().StringVar(&asOf, "as-of", "", "include entries dated on or before YYYY-MM-DD")
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year for --period")
	cmd.Flags().StringVar(&period, "period", "", "period label: Q1-Q4, M01-M12 or YEAR")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")

	return cmd
}

func printTrialBalance(out io.Writer, tb *domain.TrialBalance) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ACCOUNT\tNAME\tTYPE\tDEBIT\tCREDIT\tBALANCE\t")
	for _, row := range tb.Accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.AccountNumber, row.AccountName, row.AccountType,
			domain.FormatMoney(row.Debit), domain.FormatMoney(row.Credit), domain.FormatMoney(row.Balance))
	}
	fmt.Fprintf(w, "\t\tTOTAL\t%s\t%s\t\t\n", domain.FormatMoney(tb.TotalDebits), domain.FormatMoney(tb.TotalCredits))
	if err := w.Flush(); err != nil {
		return err
	}
	asOf := "all history"
	if tb.AsOf != nil {
		asOf = tb.AsOf.Format(domain.DateLayout)
	}
	_, err := fmt.Fprintf(out, "%s as of %s (difference %s)\n", tb.Status, asOf, domain.FormatMoney(tb.Difference))
	return err
}
