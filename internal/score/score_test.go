package score

import (
	"sync"
	"testing"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		inputs        Inputs
		wantSignals   Signals
		wantScore     int
		wantTier      Tier
		wantInsights  []InsightCode
		wantRawScore  float64
		checkRawScore bool
	}{
		{
			// One half-used budget; everything else takes its default.
			name: "half used budget without income",
			inputs: Inputs{
				TransactionsCurrentPeriod: []model.Transaction{expense("food", "50")},
				Budgets:                   []model.Budget{budget("food", "100", 6, 2024)},
				Month:                     6,
				Year:                      2024,
			},
			wantSignals: Signals{BudgetAdherence: 0.5, SavingsProgress: 1, SpendingTrend: 0, RecurringExpenseCoverage: 0},
			// (0.5*40 + 1*30 + 0.5*10 + 0*10) * 100/90
			wantRawScore:  55.0 * 100 / 90,
			checkRawScore: true,
			wantScore:     61,
			wantTier:      TierStable,
			wantInsights:  []InsightCode{InsightRecurringExpenseHigh},
		},
		{
			name: "income only with no budgets goals or recurring",
			inputs: Inputs{
				TransactionsCurrentPeriod: []model.Transaction{income("1000")},
				Month:                     6,
				Year:                      2024,
			},
			wantSignals:   Signals{BudgetAdherence: 1, SavingsProgress: 1, SpendingTrend: 0, RecurringExpenseCoverage: 1},
			wantRawScore:  85.0 * 100 / 90,
			checkRawScore: true,
			wantScore:     94,
			wantTier:      TierExcellent,
			wantInsights:  []InsightCode{},
		},
		{
			name: "over budget contributes nothing and flags adherence",
			inputs: Inputs{
				TransactionsCurrentPeriod: []model.Transaction{expense("food", "200"), income("1000")},
				Budgets:                   []model.Budget{budget("food", "100", 6, 2024)},
				Month:                     6,
				Year:                      2024,
			},
			wantSignals:  Signals{BudgetAdherence: 0, SavingsProgress: 1, SpendingTrend: 0, RecurringExpenseCoverage: 1},
			wantScore:    50,
			wantTier:     TierRiskZone,
			wantInsights: []InsightCode{InsightBudgetAdherenceLow},
		},
		{
			name: "emergency savings supplied skips the rescale",
			inputs: Inputs{
				TransactionsCurrentPeriod: []model.Transaction{income("1000")},
				Month:                     6,
				Year:                      2024,
				EmergencySavingsProgress:  Progress(1),
			},
			wantSignals: Signals{
				BudgetAdherence:          1,
				SavingsProgress:          1,
				SpendingTrend:            0,
				RecurringExpenseCoverage: 1,
				EmergencySavingsProgress: Progress(1),
			},
			wantRawScore:  95,
			checkRawScore: true,
			wantScore:     95,
			wantTier:      TierExcellent,
			wantInsights:  []InsightCode{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.inputs)

			assert.InDelta(t, tt.wantSignals.BudgetAdherence, got.Breakdown.BudgetAdherence, 1e-9)
			assert.InDelta(t, tt.wantSignals.SavingsProgress, got.Breakdown.SavingsProgress, 1e-9)
			assert.InDelta(t, tt.wantSignals.SpendingTrend, got.Breakdown.SpendingTrend, 1e-9)
			assert.InDelta(t, tt.wantSignals.RecurringExpenseCoverage, got.Breakdown.RecurringExpenseCoverage, 1e-9)
			assert.Equal(t, tt.wantSignals.EmergencySavingsProgress, got.Breakdown.EmergencySavingsProgress)

			if tt.checkRawScore {
				assert.InDelta(t, tt.wantRawScore, got.RawScore, 1e-9)
			}
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantInsights, got.Insights)
		})
	}
}

func TestCalculate_TierUsesUnroundedScore(t *testing.T) {
	// 40 + 30 + 0 + 0 + 9.6 = 79.6, shown as 80 but still stable.
	res := Evaluate(Signals{
		BudgetAdherence:          1,
		SavingsProgress:          1,
		SpendingTrend:            1,
		RecurringExpenseCoverage: 0,
		EmergencySavingsProgress: Progress(0.96),
	})

	assert.Equal(t, 80, res.Score)
	assert.Equal(t, TierStable, res.Tier)
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Inputs{
		TransactionsCurrentPeriod: []model.Transaction{
			expense("food", "120.35"), expense("rent", "900"), income("2500"),
		},
		TransactionsPreviousPeriod: []model.Transaction{expense("food", "80"), expense("rent", "900")},
		Budgets:                    []model.Budget{budget("food", "150", 6, 2024), budget("rent", "900", 6, 2024)},
		SavingsGoals:               []model.SavingsGoal{goal("trip", "3000")},
		RecurringTransactions:      []model.RecurringTransaction{recurring("15.99", model.FrequencyMonthly, true)},
		Month:                      6,
		Year:                       2024,
		EmergencySavingsProgress:   Progress(0.4),
	}

	snapshot := Inputs{
		TransactionsCurrentPeriod:  append([]model.Transaction(nil), in.TransactionsCurrentPeriod...),
		TransactionsPreviousPeriod: append([]model.Transaction(nil), in.TransactionsPreviousPeriod...),
		Budgets:                    append([]model.Budget(nil), in.Budgets...),
		SavingsGoals:               append([]model.SavingsGoal(nil), in.SavingsGoals...),
		RecurringTransactions:      append([]model.RecurringTransaction(nil), in.RecurringTransactions...),
		Month:                      in.Month,
		Year:                       in.Year,
		EmergencySavingsProgress:   Progress(*in.EmergencySavingsProgress),
	}

	first := Calculate(in)
	second := Calculate(in)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, in, "inputs must not be modified")
}

func TestCalculate_BreakdownDoesNotAliasInput(t *testing.T) {
	progress := 0.5
	res := Calculate(Inputs{Month: 6, Year: 2024, EmergencySavingsProgress: &progress})

	progress = 0.9
	require.NotNil(t, res.Breakdown.EmergencySavingsProgress)
	assert.InDelta(t, 0.5, *res.Breakdown.EmergencySavingsProgress, 1e-9)
}

func TestCalculate_Concurrent(t *testing.T) {
	in := Inputs{
		TransactionsCurrentPeriod: []model.Transaction{expense("food", "50"), income("300")},
		Budgets:                   []model.Budget{budget("food", "100", 6, 2024)},
		Month:                     6,
		Year:                      2024,
	}
	want := Calculate(in)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Calculate(in)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestBudgetOnlyScore(t *testing.T) {
	tests := []struct {
		name         string
		transactions []model.Transaction
		budgets      []model.Budget
		want         int
	}{
		{
			name:         "no budgets falls back to default",
			transactions: []model.Transaction{expense("food", "10")},
			want:         DefaultSummaryScore,
		},
		{
			name:    "budgets for another month fall back to default",
			budgets: []model.Budget{budget("food", "100", 7, 2024)},
			want:    DefaultSummaryScore,
		},
		{
			name:         "half used budget",
			transactions: []model.Transaction{expense("food", "50")},
			budgets:      []model.Budget{budget("food", "100", 6, 2024)},
			want:         50,
		},
		{
			name:         "overspent budget",
			transactions: []model.Transaction{expense("food", "500")},
			budgets:      []model.Budget{budget("food", "100", 6, 2024)},
			want:         0,
		},
		{
			name:    "untouched budget",
			budgets: []model.Budget{budget("food", "100", 6, 2024)},
			want:    100,
		},
		{
			name:         "rounds mean adherence",
			transactions: []model.Transaction{expense("food", "33.33")},
			budgets:      []model.Budget{budget("food", "100", 6, 2024), budget("rent", "100", 6, 2024)},
			want:         83,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BudgetOnlyScore(tt.transactions, tt.budgets, 6, 2024)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBudgetOnlyScore_AgreesWithFullScoreAdherence(t *testing.T) {
	txns := []model.Transaction{expense("food", "75"), expense("fun", "10"), income("900")}
	budgets := []model.Budget{budget("food", "100", 6, 2024), budget("fun", "40", 6, 2024)}

	full := Calculate(Inputs{TransactionsCurrentPeriod: txns, Budgets: budgets, Month: 6, Year: 2024})
	summary := BudgetOnlyScore(txns, budgets, 6, 2024)

	assert.Equal(t, Round(full.Breakdown.BudgetAdherence*100), summary)
}
