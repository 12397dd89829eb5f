package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly budgets",
		Long:  `List, set and delete per-category budgets for a month.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(deleteCmd("budget", func(c *cobra.Command, id string) error {
		store, err := initStorage(c.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.DeleteBudget(c.Context(), id)
	}))

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd, time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx, period.Month, period.Year)
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}
			if len(budgets) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No budgets for "+period.String()+". Use 'pulse budgets set' to add one."))
				return nil
			}

			names, err := categoryNames(ctx, store)
			if err != nil {
				return err
			}
			cli.RenderBudgets(cmd.OutOrStdout(), budgets, names)
			return nil
		},
	}

	addPeriodFlags(cmd)

	return cmd
}

func setBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set the budget for a category",
		Long:  `Set the budget for a category in a month, replacing any existing amount.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			period, err := periodFromFlags(cmd, time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categoryID, err := resolveCategory(ctx, store, args[0])
			if err != nil {
				return err
			}
			if categoryID == "" {
				return common.NewUserError("A budget needs a category", nil)
			}

			budget := &model.Budget{CategoryID: categoryID, Amount: amount, Month: period.Month, Year: period.Year}
			if err := store.SetBudget(ctx, budget); err != nil {
				return fmt.Errorf("failed to set budget: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Budget for %s in %s set to %s", args[0], period, amount.StringFixed(2))))
			return nil
		},
	}

	addPeriodFlags(cmd)

	return cmd
}
