package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"financetracker/internal/cli"
	"financetracker/internal/core"
	"financetracker/internal/sheets"
	"financetracker/internal/sheets/google"
	"financetracker/internal/sheets/memory"
)

func exportCmd(env *appEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions",
	}
	cmd.AddCommand(exportSheetsCmd(env))
	return cmd
}

func exportSheetsCmd(env *appEnv) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Replace the configured Google Sheets tab with the current transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var exporter sheets.Exporter
			if dryRun {
				exporter = memory.New()
			} else {
				if err := env.cfg.ValidateSheets(); err != nil {
					return err
				}
				g, err := google.New(ctx, google.Config{
					SpreadsheetID:   env.cfg.Sheets.SpreadsheetID,
					SheetName:       env.cfg.Sheets.SheetName,
					CredentialsFile: env.cfg.Sheets.CredentialsFile,
				}, env.logger)
				if err != nil {
					return err
				}
				exporter = g
			}

			app, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Tracker.Load(ctx)
			if err != nil {
				return err
			}
			res, err := exporter.Export(ctx, st.Catalog, st.Transactions)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			totals := sheets.Summarize(st.Transactions)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d rows to %s", res.Rows, res.Ref)))
			fmt.Fprintf(out, "  %s %s  %s %s  Saldo %s\n",
				core.Income.Label(), cli.FormatAmount(core.Income, totals.Income),
				core.Expense.Label(), cli.FormatAmount(core.Expense, totals.Expense),
				core.FormatAmount(totals.Balance()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the rows without contacting Google")
	return cmd
}
