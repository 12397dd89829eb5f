package main

import (
	"fmt"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List and add the categories used by transactions and budgets.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No categories found. Use 'pulse categories add' to create one."))
				return nil
			}

			cli.RenderCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		parent string
		icon   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			parentID, err := resolveCategory(ctx, store, parent)
			if err != nil {
				return err
			}

			category, err := store.CreateCategory(ctx, args[0], parentID, icon)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent category ID or name")
	cmd.Flags().StringVar(&icon, "icon", "", "icon shown next to the category")

	return cmd
}
