// Package copywriting turns structured results into display text. Lines are
// picked at random from a catalog so the UI does not repeat itself; the
// score engine never calls into this package.
package copywriting

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/Veraticus/finpulse/internal/score"
)

// Writer picks copy from a catalog. It is safe for concurrent use.
type Writer struct {
	catalog Catalog
	rng     *rand.Rand
	mu      sync.Mutex
}

// NewWriter creates a writer over catalog using a time-seeded source.
func NewWriter(catalog Catalog) *Writer {
	return NewSeededWriter(catalog, rand.Uint64())
}

// NewSeededWriter creates a writer whose picks are reproducible for a seed.
func NewSeededWriter(catalog Catalog, seed uint64) *Writer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Writer{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Pick returns a random line for group/key, or "" when none exist.
func (w *Writer) Pick(group, key string) string {
	items := w.catalog[group][key]
	if len(items) == 0 {
		return ""
	}

	w.mu.Lock()
	i := w.rng.IntN(len(items))
	w.mu.Unlock()

	return items[i]
}

// TierMessage returns a line of flavor text for a score tier.
func (w *Writer) TierMessage(tier score.Tier) string {
	return w.Pick(GroupPerformanceScore, string(tier))
}

// Welcome returns a dashboard greeting.
func (w *Writer) Welcome() string {
	return w.Pick(GroupDashboard, "welcome")
}

var insightText = map[score.InsightCode]string{
	score.InsightBudgetAdherenceLow:   "Budget adherence needs improvement",
	score.InsightSavingsBehind:        "Savings goals are behind schedule",
	score.InsightSpendingTrendingUp:   "Spending is trending upward",
	score.InsightRecurringExpenseHigh: "Recurring expenses may be too high relative to income",
}

// InsightMessage returns the advisory text for an insight code. Unknown codes
// are returned as is.
func InsightMessage(code score.InsightCode) string {
	if text, ok := insightText[code]; ok {
		return text
	}
	return string(code)
}

// InsightMessages maps codes to text, keeping their order.
func InsightMessages(codes []score.InsightCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = InsightMessage(c)
	}
	return out
}

// fill replaces {key} placeholders with values from data.
func fill(message string, data map[string]any) string {
	for k, v := range data {
		message = strings.ReplaceAll(message, "{"+k+"}", fmt.Sprint(v))
	}
	return message
}
