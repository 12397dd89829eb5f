// Package score computes the financial performance score: a 0-100 number
// with a tier and insight codes, derived from a point-in-time snapshot of a
// user's transactions, budgets, savings goals and recurring transactions.
//
// Everything here is a pure function. Inputs are never modified, nothing is
// cached, and the same inputs always produce the same result, so callers may
// score concurrently from any number of goroutines.
package score

import "github.com/Veraticus/finpulse/internal/model"

// DefaultSummaryScore is the budget-only score reported for a month that has
// no budgets.
const DefaultSummaryScore = 50

// Inputs is a snapshot to score. All collections must describe the same user
// and the same month; mismatched snapshots silently produce a misleading score.
type Inputs struct {
	// EmergencySavingsProgress is an optional ratio in [0,1].
	EmergencySavingsProgress   *float64
	TransactionsCurrentPeriod  []model.Transaction
	TransactionsPreviousPeriod []model.Transaction
	Budgets                    []model.Budget
	SavingsGoals               []model.SavingsGoal
	RecurringTransactions      []model.RecurringTransaction
	Month                      int
	Year                       int
}

// Result is a scored snapshot.
type Result struct {
	Tier      Tier          `json:"tier"`
	Insights  []InsightCode `json:"insights"`
	Breakdown Signals       `json:"breakdown"`
	Score     int           `json:"score"`
	// RawScore is the clamped score before rounding. Tier is derived from it.
	RawScore float64 `json:"-"`
}

// Calculate runs the full pipeline over a snapshot.
func Calculate(in Inputs) Result {
	return Evaluate(Extract(in))
}

// Extract reduces a snapshot to its signals.
func Extract(in Inputs) Signals {
	s := Signals{
		BudgetAdherence:          BudgetAdherence(in.TransactionsCurrentPeriod, in.Budgets, in.Month, in.Year),
		SavingsProgress:          SavingsProgress(in.TransactionsCurrentPeriod, in.SavingsGoals),
		SpendingTrend:            SpendingTrend(in.TransactionsCurrentPeriod, in.TransactionsPreviousPeriod),
		RecurringExpenseCoverage: RecurringCoverage(in.TransactionsCurrentPeriod, in.RecurringTransactions),
	}
	if in.EmergencySavingsProgress != nil {
		s.EmergencySavingsProgress = Progress(*in.EmergencySavingsProgress)
	}
	return s
}

// Evaluate aggregates, classifies and explains already extracted signals.
func Evaluate(s Signals) Result {
	raw := Aggregate(s)
	return Result{
		Score:     Round(raw),
		RawScore:  raw,
		Tier:      Classify(raw),
		Breakdown: s,
		Insights:  GenerateInsights(s),
	}
}

// BudgetOnlyScore is the simplified score used by monthly summaries: budget
// adherence for the month scaled to 0-100, or DefaultSummaryScore when the
// month has no budgets. It shares BudgetAdherence with the full score so the
// two never disagree on methodology.
func BudgetOnlyScore(transactions []model.Transaction, budgets []model.Budget, month, year int) int {
	if len(budgetsFor(budgets, month, year)) == 0 {
		return DefaultSummaryScore
	}
	return Round(BudgetAdherence(transactions, budgets, month, year) * MaxScore)
}

// Progress returns a pointer to a copy of v, for optional signals.
func Progress(v float64) *float64 {
	return &v
}
