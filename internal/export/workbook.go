// Package export writes reports to Excel workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/finpulse/internal/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SummarySheet = "Summary"
	ScoreSheet   = "Score"
)

// ErrNothingToExport is returned when no wrap is given.
var ErrNothingToExport = errors.New("nothing to export")

// Writer renders a monthly wrap and its score breakdown as an .xlsx workbook.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a workbook writer. A nil logger uses the default.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Save writes the workbook to path.
func (w *Writer) Save(path string, wrap *report.Wrap, dashboard *report.DashboardReport) error {
	f, err := w.build(wrap, dashboard)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	w.logger.Info("workbook written", "path", path, "period", fmt.Sprintf("%04d-%02d", wrap.Year, wrap.Month))
	return nil
}

// Write streams the workbook to dst.
func (w *Writer) Write(dst io.Writer, wrap *report.Wrap, dashboard *report.DashboardReport) error {
	f, err := w.build(wrap, dashboard)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(dst); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// build lays out both sheets. dashboard may be nil, in which case the Score
// sheet only carries the wrap's budget score.
func (w *Writer) build(wrap *report.Wrap, dashboard *report.DashboardReport) (*excelize.File, error) {
	if wrap == nil {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(ScoreSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to add score sheet: %w", err)
	}

	for _, sheet := range []struct {
		name   string
		values [][]any
	}{
		{SummarySheet, prepareSummaryData(wrap)},
		{ScoreSheet, prepareScoreData(wrap, dashboard)},
	} {
		if err := writeRows(f, sheet.name, sheet.values); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := applyFormatting(f, sheet.name); err != nil {
			w.logger.Warn("failed to apply formatting", "sheet", sheet.name, "error", err)
		}
	}

	return f, nil
}

func prepareSummaryData(wrap *report.Wrap) [][]any {
	values := [][]any{
		{"Monthly Wrap", fmt.Sprintf("%04d-%02d", wrap.Year, wrap.Month)},
		{},
		{"Total Income", wrap.TotalIncome},
		{"Total Expenses", wrap.TotalExpenses},
		{"Net Savings", wrap.NetSavings},
		{"Subscriptions", wrap.SubscriptionTotal},
		{"Transactions", wrap.TransactionCount},
		{"Performance Score", wrap.PerformanceScore},
		{},
		{"Category", "Name", "Amount"},
		categoryRow("Top", wrap.TopCategory),
		categoryRow("Lowest", wrap.LowestCategory),
	}
	if wrap.Greeting != "" {
		values = append(values, []any{}, []any{wrap.Greeting})
	}
	return values
}

func categoryRow(label string, c *report.CategorySpend) []any {
	if c == nil {
		return []any{label, "-", 0}
	}
	return []any{label, c.Name, c.Amount}
}

func prepareScoreData(wrap *report.Wrap, dashboard *report.DashboardReport) [][]any {
	if dashboard == nil {
		return [][]any{
			{"Performance Score", fmt.Sprintf("%04d-%02d", wrap.Year, wrap.Month)},
			{},
			{"Budget score", wrap.PerformanceScore},
		}
	}

	b := dashboard.Score.Breakdown
	values := [][]any{
		{"Performance Score", dashboard.Period},
		{},
		{"Score", dashboard.Score.Score},
		{"Tier", string(dashboard.Score.Tier)},
		{},
		{"Signal", "Value"},
		{"Budget adherence", b.BudgetAdherence},
		{"Savings progress", b.SavingsProgress},
		{"Spending trend", b.SpendingTrend},
		{"Recurring coverage", b.RecurringExpenseCoverage},
	}
	if b.EmergencySavingsProgress != nil {
		values = append(values, []any{"Emergency savings", *b.EmergencySavingsProgress})
	}

	if len(dashboard.Score.Insights) > 0 {
		values = append(values, []any{}, []any{"Insight", "Message"})
		for i, code := range dashboard.Score.Insights {
			message := ""
			if i < len(dashboard.InsightTexts) {
				message = dashboard.InsightTexts[i]
			}
			values = append(values, []any{string(code), message})
		}
	}
	return values
}

func writeRows(f *excelize.File, sheet string, values [][]any) error {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func applyFormatting(f *excelize.File, sheet string) error {
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", title); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return f.SetColWidth(sheet, "B", "C", 16)
}
