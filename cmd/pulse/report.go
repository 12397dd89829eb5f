package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/finpulse/internal/cli"
	"github.com/Veraticus/finpulse/internal/export"
	"github.com/spf13/cobra"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show the performance score for a month",
		Long: `Score a month from 0 to 100 using budget adherence, savings progress,
spending trend, recurring expense coverage and, when configured, emergency
fund progress.`,
		Args: cobra.NoArgs,
		RunE: runScore,
	}

	addPeriodFlags(cmd)
	cmd.Flags().StringP("format", "f", cli.FormatTable, "output format (table, json)")

	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := cli.ValidateFormat(format, cli.FormatTable, cli.FormatJSON); err != nil {
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

	dashboard, err := newReporter(store).Dashboard(ctx, period)
	if err != nil {
		return err
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(cmd.OutOrStdout(), dashboard)
	}
	cli.RenderDashboard(cmd.OutOrStdout(), dashboard)
	return nil
}

func wrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Show the monthly wrap",
		Long: `Summarize a month: income, expenses, net savings, subscriptions, the
top and lowest spending categories and a budget score.

Use --xlsx to also write the wrap and full score breakdown to a workbook.`,
		Args: cobra.NoArgs,
		RunE: runWrap,
	}

	addPeriodFlags(cmd)
	cmd.Flags().StringP("format", "f", cli.FormatTable, "output format (table, json, yaml)")
	cmd.Flags().String("xlsx", "", "also write an Excel workbook to this path")

	return cmd
}

func runWrap(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	if err := cli.ValidateFormat(format, cli.FormatTable, cli.FormatJSON, cli.FormatYAML); err != nil {
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

	reporter := newReporter(store)
	wrap, err := reporter.MonthlyWrap(ctx, period)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case cli.FormatJSON:
		err = cli.WriteJSON(out, wrap)
	case cli.FormatYAML:
		err = cli.WriteYAML(out, wrap)
	default:
		cli.RenderWrap(out, wrap)
	}
	if err != nil {
		return err
	}

	if xlsxPath == "" {
		return nil
	}

	dashboard, err := reporter.Dashboard(ctx, period)
	if err != nil {
		return err
	}
	if err := export.NewWriter(nil).Save(xlsxPath, wrap, dashboard); err != nil {
		return err
	}
	if format == cli.FormatTable {
		_, _ = fmt.Fprintln(out, cli.FormatSuccess("Workbook written to "+xlsxPath))
	}
	return nil
}
