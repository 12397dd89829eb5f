package score

// InsightCode identifies a weak dimension of the score. Callers map codes to
// display text.
type InsightCode string

// Insight codes, in the order they are evaluated.
const (
	InsightBudgetAdherenceLow   InsightCode = "BUDGET_ADHERENCE_LOW"
	InsightSavingsBehind        InsightCode = "SAVINGS_BEHIND"
	InsightSpendingTrendingUp   InsightCode = "SPENDING_TRENDING_UP"
	InsightRecurringExpenseHigh InsightCode = "RECURRING_EXPENSE_HIGH"
)

// Insight thresholds. Ratios below (or the trend above) these raise the code.
const (
	BudgetAdherenceFloor   = 0.5
	SavingsProgressFloor   = 0.3
	SpendingTrendCeiling   = 0.2
	RecurringCoverageFloor = 0.8
)

// GenerateInsights lists the weak signals in a fixed order. Emergency savings
// never produces an insight.
func GenerateInsights(s Signals) []InsightCode {
	insights := make([]InsightCode, 0, 4)
	if s.BudgetAdherence < BudgetAdherenceFloor {
		insights = append(insights, InsightBudgetAdherenceLow)
	}
	if s.SavingsProgress < SavingsProgressFloor {
		insights = append(insights, InsightSavingsBehind)
	}
	if s.SpendingTrend > SpendingTrendCeiling {
		insights = append(insights, InsightSpendingTrendingUp)
	}
	if s.RecurringExpenseCoverage < RecurringCoverageFloor {
		insights = append(insights, InsightRecurringExpenseHigh)
	}
	return insights
}
