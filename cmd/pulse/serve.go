package main

import (
	"log/slog"

	"github.com/Veraticus/finpulse/internal/api"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the dashboard, monthly wrap, accounts and recurring transactions
over HTTP until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr from config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.ServerAddr
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server := api.NewServer(store, newReporter(store), api.WithLogger(slog.Default()))
	return server.ListenAndServe(ctx, addr)
}
