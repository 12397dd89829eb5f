package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending in one category for one calendar month.
type Budget struct {
	Amount     decimal.Decimal `json:"amount"`
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
}

// AppliesTo reports whether the budget covers the given month and year.
func (b *Budget) AppliesTo(month, year int) bool {
	return b.Month == month && b.Year == year
}

// SavingsGoal is an amount the user wants to have saved by a date.
type SavingsGoal struct {
	TargetDate   time.Time       `json:"target_date"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	ID           string          `json:"id"`
	Name         string          `json:"name"`
}
