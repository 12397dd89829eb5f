package main

import (
	"fmt"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List and add accounts, and record their current balance.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(setBalanceCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			if len(accounts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No accounts found. Use 'pulse accounts add' to create one."))
				return nil
			}

			cli.RenderAccounts(cmd.OutOrStdout(), accounts)
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		currency string
		balance  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			account := &model.Account{Name: args[0], Currency: currency}
			if balance != "" {
				amount, err := parseAmount(balance)
				if err != nil {
					return err
				}
				account.Balance = &amount
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created account %q (%s, %s)", account.Name, account.Currency, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", model.DefaultCurrency, "ISO currency code")
	cmd.Flags().StringVar(&balance, "balance", "", "current balance")

	return cmd
}

func setBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <account> <amount>",
		Short: "Record an account's current balance",
		Long: `Record an account's current balance. The balance of the account configured
as score.emergency_account drives the emergency savings signal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.UpdateAccountBalance(ctx, account.ID, amount); err != nil {
				return fmt.Errorf("failed to update balance: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s balance set to %s", account.Name, amount.StringFixed(2))))
			return nil
		},
	}
}
