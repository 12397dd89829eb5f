package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType describes which way money moved.
type TransactionType string

const (
	// TransactionTypeIncome is money coming in.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense is money going out.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeTransfer moves money between the user's own accounts.
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction represents a single recorded movement of money.
type Transaction struct {
	Date                time.Time       `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	ID                  string          `json:"id"`
	AccountID           string          `json:"account_id"`
	CategoryID          string          `json:"category_id"`
	Type                TransactionType `json:"type"`
	Notes               string          `json:"notes,omitempty"`
	Hash                string          `json:"-"`
	IsRecurringInstance bool            `json:"is_recurring_instance"`
}

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Type,
		t.AccountID,
		t.Notes)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
