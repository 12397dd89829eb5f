package score

import "math"

// Signal weights, in score points. The first four sum to 90; the emergency
// savings weight fills the remaining 10 when that signal is supplied.
const (
	WeightBudgetAdherence   = 40.0
	WeightSavingsProgress   = 30.0
	WeightSpendingTrend     = 10.0
	WeightRecurringCoverage = 10.0
	WeightEmergencySavings  = 10.0

	// baseWeightTotal is the weight available without emergency savings.
	baseWeightTotal = WeightBudgetAdherence + WeightSavingsProgress + WeightSpendingTrend + WeightRecurringCoverage

	// MaxScore is the upper bound of every score.
	MaxScore = 100.0
)

// Signals are the normalized inputs of the aggregator. They double as the
// breakdown reported alongside a score.
type Signals struct {
	// EmergencySavingsProgress is optional; nil means not supplied.
	EmergencySavingsProgress *float64 `json:"emergencySavingsProgress,omitempty"`
	BudgetAdherence          float64  `json:"budgetAdherence"`
	SavingsProgress          float64  `json:"savingsProgress"`
	SpendingTrend            float64  `json:"spendingTrend"`
	RecurringExpenseCoverage float64  `json:"recurringExpenseCoverage"`
}

// NormalizeTrend maps a spending trend onto a goodness scale where lower
// spending is better: -1 maps to 1, 0 to 0.5 and +1 to 0. Trends above +1
// are floored at 0.
func NormalizeTrend(trend float64) float64 {
	return math.Max(0, 1-(trend+1)/2)
}

// Aggregate combines signals into an unrounded score in [0,100].
//
// When emergency savings progress is absent, the 90-point subtotal of the
// other four signals is rescaled by 100/90 so that their relative weights
// are kept and the score can still reach 100.
func Aggregate(s Signals) float64 {
	total := s.BudgetAdherence*WeightBudgetAdherence +
		s.SavingsProgress*WeightSavingsProgress +
		NormalizeTrend(s.SpendingTrend)*WeightSpendingTrend +
		s.RecurringExpenseCoverage*WeightRecurringCoverage

	if s.EmergencySavingsProgress != nil {
		total += *s.EmergencySavingsProgress * WeightEmergencySavings
	} else {
		total *= MaxScore / baseWeightTotal
	}

	if math.IsNaN(total) {
		return 0
	}
	return math.Max(0, math.Min(MaxScore, total))
}

// Round converts an aggregated score to its presented integer form.
func Round(score float64) int {
	return int(math.Round(score))
}
