package report

import (
	"log/slog"

	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/service"
	"github.com/shopspring/decimal"
)

// BudgetWarningRatio is the share of a budget spent that triggers a warning.
// Reaching the whole budget is overspending instead.
var BudgetWarningRatio = decimal.RequireFromString("0.8")

// notifications builds the month's alerts in a fixed order: budget alerts in
// budget order, subscription reminders by vendor, then goals reached.
func (r *Reporter) notifications(snap *service.Snapshot) []copywriting.Notification {
	names := categoryNames(snap.Categories)
	spent := make(map[string]decimal.Decimal)
	for i := range snap.Current {
		t := &snap.Current[i]
		if t.IsExpense() {
			spent[t.CategoryID] = spent[t.CategoryID].Add(t.Amount)
		}
	}

	out := []copywriting.Notification{}
	add := func(kind copywriting.Kind, data map[string]any) {
		n, err := r.writer.Notification(kind, data)
		if err != nil {
			slog.Warn("skipping notification", "kind", kind, "error", err)
			return
		}
		out = append(out, n)
	}

	for i := range snap.Budgets {
		b := &snap.Budgets[i]
		if !b.AppliesTo(snap.Period.Month, snap.Period.Year) || !b.Amount.IsPositive() {
			continue
		}
		ratio := spent[b.CategoryID].Div(b.Amount)
		data := map[string]any{
			"percent":  ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			"category": categoryLabel(names, b.CategoryID),
		}
		switch {
		case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
			add(copywriting.KindOverspending, data)
		case ratio.GreaterThanOrEqual(BudgetWarningRatio):
			add(copywriting.KindBudgetWarning, data)
		}
	}

	for i := range snap.Recurring {
		rt := &snap.Recurring[i]
		if rt.IsSubscription && !rt.NextOccurrence.IsZero() && snap.Period.Contains(rt.NextOccurrence) {
			add(copywriting.KindSubscriptionReminder, map[string]any{"vendor": vendorLabel(rt)})
		}
	}

	income := sumType(snap.Current, model.TransactionTypeIncome)
	for i := range snap.Goals {
		g := &snap.Goals[i]
		if g.TargetAmount.IsPositive() && income.GreaterThanOrEqual(g.TargetAmount) {
			add(copywriting.KindSavingsSuccess, map[string]any{"goal": g.Name})
		}
	}

	return out
}

func categoryNames(categories []model.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func categoryLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func vendorLabel(rt *model.RecurringTransaction) string {
	if rt.VendorName != "" {
		return rt.VendorName
	}
	return "A subscription"
}
