// Package report builds the dashboard and monthly wrap views. It loads a
// consistent snapshot from storage, hands it to the score engine, and
// decorates the result with totals and display copy.
package report

import (
	"context"

	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/model"
	"github.com/Veraticus/finpulse/internal/service"
	"github.com/shopspring/decimal"
)

// SnapshotLoader is the part of storage the reports need.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, period model.Period) (*service.Snapshot, error)
}

// Options tune how reports are built.
type Options struct {
	// EmergencyAccount is the ID or name of the account holding the emergency
	// fund. When empty, or when EmergencyTarget is not positive, the
	// emergency savings signal is left out of the score.
	EmergencyAccount string
	EmergencyTarget  decimal.Decimal
}

// Reporter builds reports from stored data.
type Reporter struct {
	store  SnapshotLoader
	writer *copywriting.Writer
	opts   Options
}

// New creates a Reporter. A nil writer gets the default catalog.
func New(store SnapshotLoader, writer *copywriting.Writer, opts Options) *Reporter {
	if writer == nil {
		writer = copywriting.NewWriter(nil)
	}
	return &Reporter{
		store:  store,
		writer: writer,
		opts:   opts,
	}
}

// money rounds an amount to cents for display.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func sumType(transactions []model.Transaction, typ model.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for i := range transactions {
		if transactions[i].Type == typ {
			total = total.Add(transactions[i].Amount)
		}
	}
	return total
}
