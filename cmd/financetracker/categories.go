package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"financetracker/internal/cli"
	"financetracker/internal/core"
)

func categoriesCmd(env *appEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage the category catalog",
		Long: `List, add, remove, rename and recolor the income and expense categories.
Changes that remove or rename a category clear it from existing transactions.`,
	}

	cmd.AddCommand(listCategoriesCmd(env))
	cmd.AddCommand(addCategoryCmd(env))
	cmd.AddCommand(removeCategoryCmd(env))
	cmd.AddCommand(renameCategoryCmd(env))
	cmd.AddCommand(recolorCategoryCmd(env))
	return cmd
}

func listCategoriesCmd(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			catalog, err := app.Tracker.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			cli.PrintCatalog(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
}

func addCategoryCmd(env *appEnv) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <income|expense> <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseType(args[0])
			if err != nil {
				return err
			}
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Tracker.AddCategory(cmd.Context(), t, args[1], color); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s category %q", t.Label(), args[1])))
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", core.DefaultCategoryColor, "category color")
	return cmd
}

func removeCategoryCmd(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <income|expense> <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a category",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseType(args[0])
			if err != nil {
				return err
			}
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Tracker.RemoveCategory(cmd.Context(), t, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %s category %q", t.Label(), args[1])))
			return nil
		},
	}
}

func renameCategoryCmd(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <income|expense> <old> <new>",
		Short: "Rename a category",
		Long:  `Rename a category. Transactions still pointing at the old name lose their category.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseType(args[0])
			if err != nil {
				return err
			}
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Tracker.RenameCategory(cmd.Context(), t, args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed %q to %q", args[1], args[2])))
			return nil
		},
	}
}

func recolorCategoryCmd(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "recolor <income|expense> <name> <color>",
		Short: "Change the color of a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseType(args[0])
			if err != nil {
				return err
			}
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			catalog, err := app.Tracker.RecolorCategory(cmd.Context(), t, args[1], args[2])
			if err != nil {
				return err
			}
			for _, c := range catalog.Categories.Bucket(t) {
				if c.Key() == core.NewCategory(args[1], "").Key() {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Recolored "+cli.FormatSwatch(c)))
				}
			}
			return nil
		},
	}
}
