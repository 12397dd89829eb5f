package score

import (
	"math"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/shopspring/decimal"
)

// BudgetAdherence measures how much headroom is left across the budgets of
// the given month, as a ratio in [0,1].
//
// Budgets for other months are ignored. With no budgets for the month the
// result is 1: an absent constraint is not penalized. For each remaining
// budget, expense transactions in the budget's category are summed (no date
// filtering beyond what the caller applied) and the budget scores
// max(0, 1 - spent/amount). The result is the unweighted mean.
//
// A budget amount that is zero or negative scores 0 when anything was spent
// against it and 1 otherwise.
func BudgetAdherence(transactions []model.Transaction, budgets []model.Budget, month, year int) float64 {
	relevant := budgetsFor(budgets, month, year)
	if len(relevant) == 0 {
		return 1
	}

	var total float64
	for _, b := range relevant {
		spent := decimal.Zero
		for i := range transactions {
			if transactions[i].IsExpense() && transactions[i].CategoryID == b.CategoryID {
				spent = spent.Add(transactions[i].Amount)
			}
		}
		total += remainingRatio(spent, b.Amount)
	}

	return total / float64(len(relevant))
}

// SavingsProgress measures progress toward savings goals, as a ratio in [0,1].
//
// With no goals the result is 1. Every goal is credited with the total income
// in the snapshot: there is no per-goal earmarking of funds, so each goal
// scores min(1, income/target) and the result is the mean across goals.
// A goal whose target is zero or negative counts as met.
func SavingsProgress(transactions []model.Transaction, goals []model.SavingsGoal) float64 {
	if len(goals) == 0 {
		return 1
	}

	income := sumByType(transactions, model.TransactionTypeIncome)

	var total float64
	for i := range goals {
		target := goals[i].TargetAmount.InexactFloat64()
		if target <= 0 {
			total++
			continue
		}
		total += math.Min(1, income/target)
	}

	return total / float64(len(goals))
}

// SpendingTrend compares expense totals between two periods.
//
// The result is (current-previous)/previous: positive when spending grew,
// negative when it shrank, never below -1. When the previous period has no
// expenses there is no baseline and the trend is 0.
func SpendingTrend(current, previous []model.Transaction) float64 {
	currentSpend := sumByType(current, model.TransactionTypeExpense)
	previousSpend := sumByType(previous, model.TransactionTypeExpense)

	if previousSpend == 0 {
		return 0
	}

	return (currentSpend - previousSpend) / previousSpend
}

// RecurringCoverage measures how well income covers recurring expenses, as a
// ratio in [0,1].
//
// Recurring expenses are the recurring entries that are subscriptions or
// repeat monthly. No income yields 0. Otherwise the result is
// min(1, income / max(recurring, 1)); a recurring total of 0 therefore
// divides by 1, which caps coverage at min(1, income).
func RecurringCoverage(transactions []model.Transaction, recurring []model.RecurringTransaction) float64 {
	income := sumByType(transactions, model.TransactionTypeIncome)

	recurringTotal := decimal.Zero
	for i := range recurring {
		if recurring[i].CountsAsRecurringExpense() {
			recurringTotal = recurringTotal.Add(recurring[i].Amount)
		}
	}

	if income == 0 {
		return 0
	}

	return math.Min(1, income/math.Max(recurringTotal.InexactFloat64(), 1))
}

func budgetsFor(budgets []model.Budget, month, year int) []model.Budget {
	var relevant []model.Budget
	for i := range budgets {
		if budgets[i].AppliesTo(month, year) {
			relevant = append(relevant, budgets[i])
		}
	}
	return relevant
}

// remainingRatio is the unspent share of a limit, floored at 0.
func remainingRatio(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return 0
		}
		return 1
	}
	return math.Max(0, 1-spent.InexactFloat64()/limit.InexactFloat64())
}

func sumByType(transactions []model.Transaction, typ model.TransactionType) float64 {
	total := decimal.Zero
	for i := range transactions {
		if transactions[i].Type == typ {
			total = total.Add(transactions[i].Amount)
		}
	}
	return total.InexactFloat64()
}
