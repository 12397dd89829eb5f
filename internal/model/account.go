package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "USD"

// Account holds money. Balance is whatever the user last recorded; it is not
// derived from transactions.
type Account struct {
	CreatedAt time.Time        `json:"created_at"`
	Balance   *decimal.Decimal `json:"balance"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Currency  string           `json:"currency"`
}
