package main

import (
	"fmt"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/spf13/cobra"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(deleteCmd("goal", func(c *cobra.Command, id string) error {
		store, err := initStorage(c.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.DeleteSavingsGoal(c.Context(), id)
	}))

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := store.GetSavingsGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}
			if len(goals) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No savings goals. Use 'pulse goals add' to create one."))
				return nil
			}

			cli.RenderGoals(cmd.OutOrStdout(), goals)
			return nil
		},
	}
}

func addGoalCmd() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "add <name> <target>",
		Short: "Add a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			goal := &model.SavingsGoal{Name: args[0], TargetAmount: target}
			if by != "" {
				if goal.TargetDate, err = parseDate(by); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateSavingsGoal(ctx, goal); err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created goal %q of %s (%s)", goal.Name, target.StringFixed(2), goal.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "target date as YYYY-MM-DD")

	return cmd
}
