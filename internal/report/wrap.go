package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/score"
	"github.com/shopspring/decimal"
)

// UncategorizedName labels expenses that have no category.
const UncategorizedName = "Uncategorized"

// CategorySpend is one category's expense total for the month.
type CategorySpend struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// Wrap is the end-of-month summary.
type Wrap struct {
	TopCategory       *CategorySpend `json:"topCategory" yaml:"topCategory"`
	LowestCategory    *CategorySpend `json:"lowestCategory" yaml:"lowestCategory"`
	Subject           string         `json:"subject,omitempty" yaml:"subject,omitempty"`
	Greeting          string         `json:"greeting,omitempty" yaml:"greeting,omitempty"`
	Month             int            `json:"month" yaml:"month"`
	Year              int            `json:"year" yaml:"year"`
	TotalIncome       float64        `json:"totalIncome" yaml:"totalIncome"`
	TotalExpenses     float64        `json:"totalExpenses" yaml:"totalExpenses"`
	NetSavings        float64        `json:"netSavings" yaml:"netSavings"`
	SubscriptionTotal float64        `json:"subscriptionTotal" yaml:"subscriptionTotal"`
	PerformanceScore  int            `json:"performanceScore" yaml:"performanceScore"`
	TransactionCount  int            `json:"transactionCount" yaml:"transactionCount"`
}

// MonthlyWrap summarizes one month. Its PerformanceScore is the budget-only
// score, not the full weighted score.
func (r *Reporter) MonthlyWrap(ctx context.Context, period model.Period) (*Wrap, error) {
	snap, err := r.store.LoadSnapshot(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", period, err)
	}

	income := sumType(snap.Current, model.TransactionTypeIncome)
	expenses := sumType(snap.Current, model.TransactionTypeExpense)

	subscriptions := decimal.Zero
	for i := range snap.Recurring {
		if snap.Recurring[i].IsMonthlySubscription() {
			subscriptions = subscriptions.Add(snap.Recurring[i].Amount)
		}
	}

	ranked, lowestAt := rankCategories(snap.Current, categoryNames(snap.Categories))

	wrap := &Wrap{
		Month:             period.Month,
		Year:              period.Year,
		TotalIncome:       money(income),
		TotalExpenses:     money(expenses),
		NetSavings:        money(income.Sub(expenses)),
		SubscriptionTotal: money(subscriptions),
		PerformanceScore:  score.BudgetOnlyScore(snap.Current, snap.Budgets, period.Month, period.Year),
		TransactionCount:  len(snap.Current),
		Subject:           r.writer.Pick(copywriting.GroupMonthlyWrap, "subjects"),
		Greeting:          r.writer.Pick(copywriting.GroupMonthlyWrap, "greetings"),
	}
	if len(ranked) > 0 {
		top := ranked[0]
		lowest := ranked[lowestAt]
		wrap.TopCategory = &top
		wrap.LowestCategory = &lowest
	}
	return wrap, nil
}

// rankCategories totals expenses per category, highest first, and returns the
// index of the lowest one. Equal totals are ordered by category ID, and the
// lowest is the smallest ID among the lowest totals.
func rankCategories(transactions []model.Transaction, names map[string]string) ([]CategorySpend, int) {
	totals := make(map[string]decimal.Decimal)
	for i := range transactions {
		t := &transactions[i]
		if !t.IsExpense() {
			continue
		}
		totals[t.CategoryID] = totals[t.CategoryID].Add(t.Amount)
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if c := totals[ids[i]].Cmp(totals[ids[j]]); c != 0 {
			return c > 0
		}
		return ids[i] < ids[j]
	})

	ranked := make([]CategorySpend, len(ids))
	for i, id := range ids {
		name, ok := names[id]
		if !ok && id == "" {
			name = UncategorizedName
		}
		ranked[i] = CategorySpend{ID: id, Name: name, Amount: money(totals[id])}
	}

	lowestAt := len(ids) - 1
	for lowestAt > 0 && totals[ids[lowestAt-1]].Equal(totals[ids[len(ids)-1]]) {
		lowestAt--
	}
	return ranked, lowestAt
}
