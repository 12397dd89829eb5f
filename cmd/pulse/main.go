package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/finpulse/internal/common"
	"github.com/Veraticus/finpulse/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	// cfg is resolved before any subcommand runs.
	cfg *config.Config
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "💓 Monthly financial performance score",
		Long: `pulse: track accounts, budgets, goals and subscriptions, and get a
0-100 performance score for every month with plain-language insights.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/pulse/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("db", "", "database path (default: ~/.local/share/pulse/pulse.db)")

	_ = viper.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyDatabasePath, cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(scoreCmd())
	cmd.AddCommand(wrapCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(importOFXCmd())
	cmd.AddCommand(accountsCmd())
	cmd.AddCommand(categoriesCmd())
	cmd.AddCommand(transactionsCmd())
	cmd.AddCommand(budgetsCmd())
	cmd.AddCommand(goalsCmd())
	cmd.AddCommand(recurringCmd())
	cmd.AddCommand(backupCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, common.UserMessage(err))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(fmt.Sprintf("%s/.config/pulse", home))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults apply without a config file.
	}

	loaded, err := config.Load(v)
	if err != nil {
		return common.NewUserError("Configuration problem: "+err.Error(), err)
	}
	cfg = loaded

	if err := common.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	common.LogDebug("configuration loaded", common.Fields{
		"config_file": v.ConfigFileUsed(),
		"database":    cfg.DatabasePath,
	})
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pulse %s\n", version)
		},
	}
}
