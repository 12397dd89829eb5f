package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/service"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "Manage transactions",
		Long:    `List, record and delete income, expenses and transfers.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(deleteCmd("transaction", func(c *cobra.Command, id string) error {
		store, err := initStorage(c.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.DeleteTransaction(c.Context(), id)
	}))

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountRef, _ := cmd.Flags().GetString("account")
			limit, _ := cmd.Flags().GetInt("limit")
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

			filter := service.TransactionFilter{
				StartDate: &period.Start,
				EndDate:   &period.End,
				Limit:     limit,
			}
			if accountRef != "" {
				account, err := resolveAccount(ctx, store, accountRef)
				if err != nil {
					return err
				}
				filter.AccountID = account.ID
			}

			txns, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}
			if len(txns) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions in "+period.String()+"."))
				return nil
			}

			names, err := categoryNames(ctx, store)
			if err != nil {
				return err
			}
			cli.RenderTransactions(cmd.OutOrStdout(), txns, names)
			return nil
		},
	}

	addPeriodFlags(cmd)
	cmd.Flags().StringP("account", "a", "", "only this account (ID or name)")
	cmd.Flags().Int("limit", 0, "maximum rows (0 for all)")

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		accountRef  string
		categoryRef string
		date        string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "add <income|expense|transfer> <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := model.TransactionType(args[0])
			if !typ.IsValid() {
				return common.NewUserError(fmt.Sprintf("%q is not income, expense or transfer", args[0]), nil)
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			when := time.Now().UTC()
			if date != "" {
				if when, err = parseDate(date); err != nil {
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
			categoryID, err := resolveCategory(ctx, store, categoryRef)
			if err != nil {
				return err
			}

			txns := []model.Transaction{{
				Date:       time.Date(when.Year(), when.Month(), when.Day(), 0, 0, 0, 0, time.UTC),
				Amount:     amount,
				AccountID:  account.ID,
				CategoryID: categoryID,
				Type:       typ,
				Notes:      notes,
			}}
			saved, err := store.SaveTransactions(ctx, txns)
			if err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}
			if saved == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("An identical transaction already exists; nothing saved."))
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s (%s)", typ, amount.StringFixed(2), txns[0].ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&accountRef, "account", "a", "", "account ID or name (required)")
	cmd.Flags().StringVarP(&categoryRef, "category", "c", "", "category ID or name")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

// deleteCmd builds a "delete <id>" subcommand for one kind of record.
func deleteCmd(kind string, remove func(cmd *cobra.Command, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := remove(cmd, args[0]); err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind, err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s %s", kind, args[0])))
			return nil
		},
	}
}
