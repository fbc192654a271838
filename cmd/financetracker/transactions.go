package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"financetracker/internal/cli"
	"financetracker/internal/core"
)

func transactionsCmd(env *appEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Manage transactions",
	}

	cmd.AddCommand(listTransactionsCmd(env))
	cmd.AddCommand(addTransactionCmd(env))
	cmd.AddCommand(editTransactionCmd(env))
	cmd.AddCommand(removeTransactionCmd(env))
	return cmd
}

func listTransactionsCmd(env *appEnv) *cobra.Command {
	var (
		typeFilter string
		month      string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var t core.TransactionType
			if typeFilter != "" {
				var err error
				if t, err = parseType(typeFilter); err != nil {
					return err
				}
			}
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			txs, err := app.Tracker.Transactions(cmd.Context())
			if err != nil {
				return err
			}
			txs = filterTransactions(txs, t, month)
			sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date > txs[j].Date })
			cli.PrintTransactions(cmd.OutOrStdout(), txs)
			return nil
		},
	}
	cmd.Flags().StringVar(&typeFilter, "type", "", "only income or expense")
	cmd.Flags().StringVar(&month, "month", "", "only transactions of a month (YYYY-MM)")
	return cmd
}

func filterTransactions(txs []core.Transaction, t core.TransactionType, month string) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if t != "" && tx.Type != t {
			continue
		}
		if month != "" && (len(tx.Date) < len(month) || tx.Date[:len(month)] != month) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// transactionFlags binds the input fields of a transaction to flags.
type transactionFlags struct {
	in core.TransactionInput
}

func (f *transactionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in.Type, "type", "", "income or expense")
	cmd.Flags().StringVar(&f.in.Amount, "amount", "", "amount, e.g. 12,50")
	cmd.Flags().StringVar(&f.in.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.in.Category, "category", "", "category name")
	cmd.Flags().StringVar(&f.in.Description, "description", "", "free text")
}

// overlay copies the flags the user set onto base.
func (f *transactionFlags) overlay(cmd *cobra.Command, base core.TransactionInput) core.TransactionInput {
	set := map[string]*string{
		"type":        &base.Type,
		"amount":      &base.Amount,
		"date":        &base.Date,
		"category":    &base.Category,
		"description": &base.Description,
	}
	values := map[string]string{
		"type":        f.in.Type,
		"amount":      f.in.Amount,
		"date":        f.in.Date,
		"category":    f.in.Category,
		"description": f.in.Description,
	}
	for name, dst := range set {
		if cmd.Flags().Changed(name) {
			*dst = values[name]
		}
	}
	return base
}

func addTransactionCmd(env *appEnv) *cobra.Command {
	f := &transactionFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Example: `  financetracker tx add --type expense --amount 42,90 --category Alimentação --description mercado
  financetracker tx add --type income --amount 3500 --date 2026-03-05 --category Salário`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := f.in
			if in.Date == "" {
				in.Date = time.Now().UTC().Format("2006-01-02")
			}
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			tx, err := app.Tracker.AddTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Added "+tx.ID))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func editTransactionCmd(env *appEnv) *cobra.Command {
	f := &transactionFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long:  `Change the fields given as flags. Fields not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			current, err := app.Tracker.FindTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := f.overlay(cmd, core.InputFrom(current))
			tx, err := app.Tracker.UpdateTransaction(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated "+tx.ID))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func removeTransactionCmd(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Tracker.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+args[0]))
			return nil
		},
	}
}
