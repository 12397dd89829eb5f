package main

import (
	"fmt"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/spf13/cobra"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transactions and subscriptions",
		Long: `List, add and delete recurring transactions. Subscriptions and anything
billed monthly count toward the recurring expense load in the score.`,
	}

	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(deleteCmd("recurring transaction", func(c *cobra.Command, id string) error {
		store, err := initStorage(c.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.DeleteRecurringTransaction(c.Context(), id)
	}))

	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := store.GetRecurringTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to get recurring transactions: %w", err)
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No recurring transactions. Use 'pulse recurring add' to create one."))
				return nil
			}

			cli.RenderRecurring(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func addRecurringCmd() *cobra.Command {
	var (
		accountRef   string
		categoryRef  string
		frequency    string
		cycle        string
		next         string
		logoURL      string
		subscription bool
		noAuto       bool
	)

	cmd := &cobra.Command{
		Use:   "add <vendor> <amount>",
		Short: "Add a recurring transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			rt := &model.RecurringTransaction{
				VendorName:     args[0],
				Amount:         amount,
				Frequency:      model.Frequency(frequency),
				BillingCycle:   model.BillingCycle(cycle),
				LogoURL:        logoURL,
				IsSubscription: subscription,
				AutoGenerate:   !noAuto,
			}
			if next != "" {
				if rt.NextOccurrence, err = parseDate(next); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, accountRef)
			if err != nil {
				return err
			}
			rt.AccountID = account.ID
			if rt.CategoryID, err = resolveCategory(ctx, store, categoryRef); err != nil {
				return err
			}

			if err := store.CreateRecurringTransaction(ctx, rt); err != nil {
				return fmt.Errorf("failed to create recurring transaction: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s %s %s (%s)", rt.Frequency, rt.VendorName, amount.StringFixed(2), rt.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&accountRef, "account", "a", "", "account ID or name (required)")
	cmd.Flags().StringVarP(&categoryRef, "category", "c", "", "category ID or name")
	cmd.Flags().StringVar(&frequency, "frequency", string(model.FrequencyMonthly), "daily, weekly, monthly, yearly or custom")
	cmd.Flags().StringVar(&cycle, "billing-cycle", "", "monthly, yearly or custom")
	cmd.Flags().StringVar(&next, "next", "", "next occurrence as YYYY-MM-DD")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "vendor logo URL")
	cmd.Flags().BoolVar(&subscription, "subscription", false, "mark as a subscription")
	cmd.Flags().BoolVar(&noAuto, "no-auto", false, "do not mark for automatic generation")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
