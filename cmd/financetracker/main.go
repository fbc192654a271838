package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"financetracker/internal/backend"
	"financetracker/internal/cli"
	"financetracker/internal/config"
	"financetracker/internal/core"
	"financetracker/internal/log"
)

var version = "dev"

// appEnv is the state shared by every subcommand once the root has run.
type appEnv struct {
	cfgFile  string
	logLevel string
	noEvents bool

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	env := &appEnv{}
	root := &cobra.Command{
		Use:   "financetracker",
		Short: "Track income and expenses by category",
		Long: `financetracker keeps a category catalog and a list of transactions in a
persisted store, normalizing both on every read and write.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: env.init,
	}

	root.PersistentFlags().StringVar(&env.cfgFile, "config", "", "config file (default: ./financetracker.yaml or $HOME/.config/financetracker/financetracker.yaml)")
	root.PersistentFlags().StringVar(&env.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&env.noEvents, "no-events", false, "do not publish slot change events")

	root.AddCommand(categoriesCmd(env))
	root.AddCommand(transactionsCmd(env))
	root.AddCommand(revalidateCmd(env))
	root.AddCommand(normalizeCmd(env))
	root.AddCommand(exportCmd(env))
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func (e *appEnv) init(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	if e.cfgFile != "" {
		if err := os.Setenv(config.EnvPrefix+"_CONFIG", e.cfgFile); err != nil {
			return err
		}
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
	}
	logger, err := cli.SetupLogger(cfg, log.ComponentCLI)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	e.cfg = cfg
	e.logger = logger
	return nil
}

// open connects the configured backend. Callers must Close the app.
func (e *appEnv) open(ctx context.Context) (*cli.App, error) {
	var dial backend.DialFunc
	if !e.noEvents {
		dial = backend.DialAMQP
	}
	return cli.NewApp(ctx, e.cfg, e.logger, dial)
}

func parseType(s string) (core.TransactionType, error) {
	t, ok := core.ParseTransactionType(s)
	if !ok {
		return "", fmt.Errorf("invalid type %q: must be income or expense", s)
	}
	return t, nil
}

func revalidateCmd(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "revalidate",
		Short: "Clear transaction categories that are no longer in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			txs, changed, err := app.Tracker.Revalidate(cmd.Context())
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Revalidated %d transactions", len(txs))))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Transactions already valid"))
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "financetracker %s\n", version)
			return nil
		},
	}
}
