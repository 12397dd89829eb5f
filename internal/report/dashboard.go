package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/score"
	"github.com/Veraticus/finpulse/internal/service"
	"github.com/shopspring/decimal"
)

// Stats are the headline numbers shown above the score.
type Stats struct {
	TotalIncome         float64 `json:"totalIncome"`
	TotalExpenses       float64 `json:"totalExpenses"`
	NetSavings          float64 `json:"netSavings"`
	SubscriptionCount   int     `json:"subscriptionCount"`
	SubscriptionMonthly float64 `json:"subscriptionMonthly"`
}

// DashboardReport is the dashboard view for one month.
type DashboardReport struct {
	Period        string                     `json:"period"`
	Welcome       string                     `json:"welcome"`
	Message       string                     `json:"message"`
	InsightTexts  []string                   `json:"insightTexts"`
	Notifications []copywriting.Notification `json:"notifications"`
	Score         score.Result               `json:"score"`
	Stats         Stats                      `json:"stats"`
	Month         int                        `json:"month"`
	Year          int                        `json:"year"`
}

// Dashboard scores the given month and gathers its headline stats.
func (r *Reporter) Dashboard(ctx context.Context, period model.Period) (*DashboardReport, error) {
	snap, err := r.store.LoadSnapshot(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", period, err)
	}

	result := score.Calculate(score.Inputs{
		EmergencySavingsProgress:   r.emergencyProgress(snap),
		TransactionsCurrentPeriod:  snap.Current,
		TransactionsPreviousPeriod: snap.Previous,
		Budgets:                    snap.Budgets,
		SavingsGoals:               snap.Goals,
		RecurringTransactions:      snap.Recurring,
		Month:                      period.Month,
		Year:                       period.Year,
	})

	slog.Debug("scored period",
		"period", period.String(),
		"score", result.Score,
		"tier", result.Tier,
		"insights", len(result.Insights))

	return &DashboardReport{
		Period:        period.String(),
		Month:         period.Month,
		Year:          period.Year,
		Stats:         dashboardStats(snap),
		Score:         result,
		Welcome:       r.writer.Welcome(),
		Message:       r.writer.TierMessage(result.Tier),
		InsightTexts:  copywriting.InsightMessages(result.Insights),
		Notifications: r.notifications(snap),
	}, nil
}

func dashboardStats(snap *service.Snapshot) Stats {
	income := sumType(snap.Current, model.TransactionTypeIncome)
	expenses := sumType(snap.Current, model.TransactionTypeExpense)

	count := 0
	monthly := decimal.Zero
	for i := range snap.Recurring {
		rt := &snap.Recurring[i]
		if !rt.IsSubscription {
			continue
		}
		count++
		if rt.BillingCycle == model.BillingCycleMonthly {
			monthly = monthly.Add(rt.Amount)
		}
	}

	return Stats{
		TotalIncome:         money(income),
		TotalExpenses:       money(expenses),
		NetSavings:          money(income.Sub(expenses)),
		SubscriptionCount:   count,
		SubscriptionMonthly: money(monthly),
	}
}

// emergencyProgress returns the configured emergency account's balance as a
// fraction of the target, or nil when the signal is not configured.
func (r *Reporter) emergencyProgress(snap *service.Snapshot) *float64 {
	if r.opts.EmergencyAccount == "" || !r.opts.EmergencyTarget.IsPositive() {
		return nil
	}

	for i := range snap.Accounts {
		account := &snap.Accounts[i]
		if account.ID != r.opts.EmergencyAccount && account.Name != r.opts.EmergencyAccount {
			continue
		}
		if account.Balance == nil || !account.Balance.IsPositive() {
			return score.Progress(0)
		}
		ratio := account.Balance.Div(r.opts.EmergencyTarget)
		if ratio.GreaterThan(decimal.NewFromInt(1)) {
			return score.Progress(1)
		}
		return score.Progress(ratio.InexactFloat64())
	}

	slog.Warn("emergency account not found, scoring without it",
		"account", r.opts.EmergencyAccount)
	return nil
}
