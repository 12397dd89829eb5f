package score

import (
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/shopspring/decimal"
)

var testDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func expense(categoryID, amount string) model.Transaction {
	return model.Transaction{
		ID:         "exp-" + categoryID + "-" + amount,
		Type:       model.TransactionTypeExpense,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       testDate,
	}
}

func income(amount string) model.Transaction {
	return model.Transaction{
		ID:         "inc-" + amount,
		Type:       model.TransactionTypeIncome,
		CategoryID: "salary",
		Amount:     decimal.RequireFromString(amount),
		Date:       testDate,
	}
}

func transfer(amount string) model.Transaction {
	return model.Transaction{
		ID:     "xfer-" + amount,
		Type:   model.TransactionTypeTransfer,
		Amount: decimal.RequireFromString(amount),
		Date:   testDate,
	}
}

func budget(categoryID, amount string, month, year int) model.Budget {
	return model.Budget{
		ID:         "bud-" + categoryID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Month:      month,
		Year:       year,
	}
}

func goal(name, target string) model.SavingsGoal {
	return model.SavingsGoal{
		ID:           "goal-" + name,
		Name:         name,
		TargetAmount: decimal.RequireFromString(target),
		TargetDate:   testDate.AddDate(1, 0, 0),
	}
}

func recurring(amount string, freq model.Frequency, subscription bool) model.RecurringTransaction {
	return model.RecurringTransaction{
		ID:             "rec-" + amount,
		Amount:         decimal.RequireFromString(amount),
		Frequency:      freq,
		BillingCycle:   model.BillingCycleMonthly,
		IsSubscription: subscription,
	}
}
