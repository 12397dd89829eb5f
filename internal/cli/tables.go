package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/report"
	"github.com/Veraticus/finpulse/internal/storage"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func dec(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

func date(d time.Time) string {
	if d.IsZero() {
		return text.FgHiBlack.Sprint("-")
	}
	return d.Format("2006-01-02")
}

// RenderDashboard prints the score, its breakdown and the month's stats.
func RenderDashboard(w io.Writer, d *report.DashboardReport) {
	if d.Welcome != "" {
		_, _ = fmt.Fprintln(w, SubtleStyle.Render(d.Welcome))
	}
	_, _ = fmt.Fprintln(w, FormatTitle("Performance score for "+d.Period))
	_, _ = fmt.Fprintln(w, FormatScore(d.Score.Score, d.Score.Tier))
	if d.Message != "" {
		_, _ = fmt.Fprintln(w, SubtleStyle.Render(d.Message))
	}
	_, _ = fmt.Fprintln(w)

	t := newTable(w)
	t.AppendHeader(table.Row{"Signal", "Value"})
	b := d.Score.Breakdown
	t.AppendRow(table.Row{"Budget adherence", percent(b.BudgetAdherence)})
	t.AppendRow(table.Row{"Savings progress", percent(b.SavingsProgress)})
	t.AppendRow(table.Row{"Spending trend", fmt.Sprintf("%+.0f%%", b.SpendingTrend*100)})
	t.AppendRow(table.Row{"Recurring coverage", percent(b.RecurringExpenseCoverage)})
	if b.EmergencySavingsProgress != nil {
		t.AppendRow(table.Row{"Emergency savings", percent(*b.EmergencySavingsProgress)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Income", amount(d.Stats.TotalIncome)})
	t.AppendRow(table.Row{"Expenses", amount(d.Stats.TotalExpenses)})
	t.AppendRow(table.Row{"Net savings", amount(d.Stats.NetSavings)})
	t.AppendRow(table.Row{"Subscriptions", fmt.Sprintf("%d (%s / month)", d.Stats.SubscriptionCount, amount(d.Stats.SubscriptionMonthly))})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()

	for _, insight := range d.InsightTexts {
		_, _ = fmt.Fprintln(w, FormatWarning(insight))
	}
	for _, n := range d.Notifications {
		_, _ = fmt.Fprintln(w, FormatNotification(n))
	}
}

// RenderWrap prints a monthly wrap.
func RenderWrap(w io.Writer, wrap *report.Wrap) {
	_, _ = fmt.Fprintln(w, FormatTitle(fmt.Sprintf("Monthly wrap %04d-%02d", wrap.Year, wrap.Month)))
	if wrap.Greeting != "" {
		_, _ = fmt.Fprintln(w, SubtleStyle.Render(wrap.Greeting))
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"", "Amount"})
	t.AppendRow(table.Row{"Income", amount(wrap.TotalIncome)})
	t.AppendRow(table.Row{"Expenses", amount(wrap.TotalExpenses)})
	t.AppendRow(table.Row{"Net savings", amount(wrap.NetSavings)})
	t.AppendRow(table.Row{"Subscriptions", amount(wrap.SubscriptionTotal)})
	t.AppendRow(table.Row{"Top category", categoryCell(wrap.TopCategory)})
	t.AppendRow(table.Row{"Lowest category", categoryCell(wrap.LowestCategory)})
	t.AppendRow(table.Row{"Transactions", wrap.TransactionCount})
	t.AppendFooter(table.Row{text.Bold.Sprint("Score"), text.Bold.Sprint(wrap.PerformanceScore)})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

func categoryCell(c *report.CategorySpend) string {
	if c == nil {
		return text.FgHiBlack.Sprint("-")
	}
	return fmt.Sprintf("%s (%s)", c.Name, amount(c.Amount))
}

// RenderAccounts lists accounts.
func RenderAccounts(w io.Writer, accounts []model.Account) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Currency", "Balance"})
	for _, a := range accounts {
		balance := text.FgHiBlack.Sprint("-")
		if a.Balance != nil {
			balance = dec(*a.Balance)
		}
		t.AppendRow(table.Row{a.ID, a.Name, a.Currency, balance})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

// RenderCategories lists categories.
func RenderCategories(w io.Writer, categories []model.Category) {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Parent", "Icon"})
	for _, c := range categories {
		t.AppendRow(table.Row{c.ID, c.Name, names[c.ParentID], c.Icon})
	}
	t.Render()
}

// RenderTransactions lists transactions with a totals footer. categories maps
// IDs to names.
func RenderTransactions(w io.Writer, txns []model.Transaction, categories map[string]string) {
	income, expenses := decimal.Zero, decimal.Zero

	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Type", "Category", "Amount", "Notes"})
	for _, txn := range txns {
		amt := dec(txn.Amount)
		switch txn.Type {
		case model.TransactionTypeIncome:
			income = income.Add(txn.Amount)
			amt = text.FgGreen.Sprint(amt)
		case model.TransactionTypeExpense:
			expenses = expenses.Add(txn.Amount)
			amt = text.FgRed.Sprint(amt)
		}
		t.AppendRow(table.Row{date(txn.Date), string(txn.Type), categories[txn.CategoryID], amt, txn.Notes})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Net"), text.Bold.Sprint(dec(income.Sub(expenses))), ""})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

// RenderBudgets lists budgets. categories maps IDs to names.
func RenderBudgets(w io.Writer, budgets []model.Budget, categories map[string]string) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Month", "Category", "Amount"})
	for _, b := range budgets {
		name := categories[b.CategoryID]
		if name == "" {
			name = b.CategoryID
		}
		t.AppendRow(table.Row{fmt.Sprintf("%04d-%02d", b.Year, b.Month), name, dec(b.Amount)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	t.Render()
}

// RenderGoals lists savings goals.
func RenderGoals(w io.Writer, goals []model.SavingsGoal) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Target", "By"})
	for _, g := range goals {
		t.AppendRow(table.Row{g.Name, dec(g.TargetAmount), date(g.TargetDate)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

// RenderRecurring lists recurring transactions with the monthly subscription total.
func RenderRecurring(w io.Writer, items []model.RecurringTransaction) {
	monthly := decimal.Zero

	t := newTable(w)
	t.AppendHeader(table.Row{"Vendor", "Frequency", "Cycle", "Amount", "Next", "Flags"})
	for _, rt := range items {
		if rt.IsMonthlySubscription() {
			monthly = monthly.Add(rt.Amount)
		}
		var flags []string
		if rt.IsSubscription {
			flags = append(flags, "subscription")
		}
		if rt.AutoGenerate {
			flags = append(flags, "auto")
		}
		t.AppendRow(table.Row{
			rt.VendorName,
			string(rt.Frequency),
			string(rt.BillingCycle),
			dec(rt.Amount),
			date(rt.NextOccurrence),
			strings.Join(flags, ", "),
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Monthly subscriptions"), text.Bold.Sprint(dec(monthly)), "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.Render()
}

// ImportResult summarizes one imported file.
type ImportResult struct {
	File       string
	Account    string
	Parsed     int
	Saved      int
	Duplicates int
}

// RenderImportSummary lists per-file import counts with totals.
func RenderImportSummary(w io.Writer, results []ImportResult, dryRun bool) {
	savedHeader := "Saved"
	if dryRun {
		savedHeader = "Would save"
	}

	var parsed, saved, dups int
	t := newTable(w)
	t.AppendHeader(table.Row{"File", "Account", "Parsed", savedHeader, "Duplicates"})
	for _, r := range results {
		parsed += r.Parsed
		saved += r.Saved
		dups += r.Duplicates
		t.AppendRow(table.Row{r.File, r.Account, r.Parsed, r.Saved, r.Duplicates})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), "", parsed, saved, dups})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// RenderBackups lists database backups, newest first.
func RenderBackups(w io.Writer, backups []storage.BackupInfo) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Created", "Size", "Transactions", "Type", "Description"})
	for _, b := range backups {
		kind := "manual"
		if b.IsAuto {
			kind = text.FgHiBlack.Sprint("auto")
		}
		t.AppendRow(table.Row{b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04"), FormatFileSize(b.FileSize), b.Transactions(), kind, b.Description})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// FormatFileSize renders a byte count as "512 B", "1.5 KB" and so on.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
