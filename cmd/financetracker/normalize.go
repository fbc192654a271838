package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"financetracker/internal/core"
)

func normalizeCmd(env *appEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a JSON document without touching the store",
		Long: `Read a catalog or transaction list from a file (or - for stdin), apply the
same rules used on load and print the canonical JSON.`,
	}
	cmd.AddCommand(normalizeCatalogCmd(env))
	cmd.AddCommand(normalizeTransactionsCmd(env))
	return cmd
}

func normalizeCatalogCmd(env *appEnv) *cobra.Command {
	var (
		mode  string
		check bool
	)
	cmd := &cobra.Command{
		Use:   "catalog <file|->",
		Short: "Normalize a category catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := catalogMode(env, mode)
			raw, err := readRaw(cmd, args[0])
			if err != nil {
				return err
			}
			if check {
				fmt.Fprintf(cmd.OutOrStdout(), "needs rewrite: %t\n", core.CatalogNeedsRewrite(raw, m))
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), core.NormalizeCatalogMode(raw, m))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "catalog schema, object or legacy (default: from config)")
	cmd.Flags().BoolVar(&check, "check", false, "only report whether the document would be rewritten")
	return cmd
}

func normalizeTransactionsCmd(env *appEnv) *cobra.Command {
	var (
		catalogFile string
		mode        string
	)
	cmd := &cobra.Command{
		Use:   "transactions <file|->",
		Short: "Normalize a transaction list against a catalog",
		Long: `Normalize a transaction list. Categories are checked against the catalog
given with --catalog, or the default catalog when none is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := core.DefaultCatalog()
			if catalogFile != "" {
				rawCatalog, err := readRaw(cmd, catalogFile)
				if err != nil {
					return err
				}
				catalog = core.NormalizeCatalogMode(rawCatalog, catalogMode(env, mode))
			}
			raw, err := readRaw(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), core.NormalizeTransactionsList(raw, catalog.Categories))
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "catalog JSON file")
	cmd.Flags().StringVar(&mode, "mode", "", "catalog schema, object or legacy (default: from config)")
	return cmd
}

func catalogMode(env *appEnv, flag string) core.CatalogMode {
	if flag != "" {
		return core.CatalogMode(flag)
	}
	if env.cfg != nil {
		return core.CatalogMode(env.cfg.Catalog.Schema)
	}
	return core.ObjectCatalog
}

// readRaw reads a JSON document from path, or stdin when path is "-".
// Malformed JSON decodes to nil, which the normalizers treat as nothing stored.
func readRaw(cmd *cobra.Command, path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return core.DecodeRaw(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
