package copywriting

import (
	"strings"
	"testing"

	"github.com/Veraticus/finpulse/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_PickIsReproducibleForSeed(t *testing.T) {
	a := NewSeededWriter(DefaultCatalog(), 42)
	b := NewSeededWriter(DefaultCatalog(), 42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Pick(GroupMonthlyWrap, "subjects"), b.Pick(GroupMonthlyWrap, "subjects"))
	}
}

func TestWriter_PickUnknownKey(t *testing.T) {
	w := NewSeededWriter(DefaultCatalog(), 1)

	assert.Empty(t, w.Pick("nope", "nothing"))
	assert.Empty(t, w.Pick(GroupDashboard, "nothing"))
}

func TestWriter_NilCatalogUsesDefault(t *testing.T) {
	w := NewSeededWriter(nil, 1)
	assert.NotEmpty(t, w.Welcome())
}

func TestWriter_TierMessage(t *testing.T) {
	w := NewSeededWriter(DefaultCatalog(), 7)
	catalog := DefaultCatalog()

	for _, tier := range []score.Tier{score.TierExcellent, score.TierStable, score.TierRiskZone, score.TierCritical} {
		msg := w.TierMessage(tier)
		assert.Contains(t, catalog[GroupPerformanceScore][string(tier)], msg, "tier %s", tier)
	}
}

func TestInsightMessages(t *testing.T) {
	got := InsightMessages([]score.InsightCode{
		score.InsightSpendingTrendingUp,
		score.InsightBudgetAdherenceLow,
		score.InsightCode("SOMETHING_NEW"),
	})

	assert.Equal(t, []string{
		"Spending is trending upward",
		"Budget adherence needs improvement",
		"SOMETHING_NEW",
	}, got)
}

func TestWriter_Notification(t *testing.T) {
	catalog := Catalog{
		GroupNotifications: {
			string(KindBudgetWarning): {"You're {percent}% through your {category} budget."},
			string(KindSavingsSuccess): {"Saved!"},
		},
	}
	w := NewSeededWriter(catalog, 3)

	n, err := w.Notification(KindBudgetWarning, map[string]any{"percent": 90, "category": "eating-out"})
	require.NoError(t, err)
	assert.Equal(t, KindBudgetWarning, n.Kind)
	assert.Equal(t, SeverityWarning, n.Severity)
	assert.Equal(t, "You're 90% through your eating-out budget.", n.Message)

	n, err = w.Notification(KindSavingsSuccess, nil)
	require.NoError(t, err)
	assert.Equal(t, SeveritySuccess, n.Severity)
	assert.Equal(t, "Saved!", n.Message)

	_, err = w.Notification(Kind("bogus"), nil)
	assert.Error(t, err)
}

func TestWriter_OverspendingIsError(t *testing.T) {
	w := NewSeededWriter(DefaultCatalog(), 11)

	n, err := w.Notification(KindOverspending, map[string]any{"percent": 120, "category": "fun"})
	require.NoError(t, err)
	assert.Equal(t, SeverityError, n.Severity)
	assert.False(t, strings.Contains(n.Message, "{percent}"))
}
