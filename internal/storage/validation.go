// Package storage provides the data persistence layer for pulse.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/finpulse/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrInvalidYear        = errors.New("year must have four digits")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidCycle       = errors.New("invalid billing cycle")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	if year < 1000 || year > 9999 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
// Amounts are magnitudes; the type carries the direction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTransaction)
	}
	if !txn.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: transaction amount %s is negative", ErrInvalidAmount, txn.Amount)
	}
	return nil
}

func validateBudget(b *model.Budget) error {
	if b == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if err := validateString(b.CategoryID, "categoryID"); err != nil {
		return err
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be positive, got %s", ErrInvalidAmount, b.Amount)
	}
	return validatePeriod(b.Month, b.Year)
}

func validateSavingsGoal(g *model.SavingsGoal) error {
	if g == nil {
		return fmt.Errorf("%w: savings goal", ErrNilParameter)
	}
	if err := validateString(g.Name, "name"); err != nil {
		return err
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive, got %s", ErrInvalidAmount, g.TargetAmount)
	}
	return nil
}

func validateRecurring(rt *model.RecurringTransaction) error {
	if rt == nil {
		return fmt.Errorf("%w: recurring transaction", ErrNilParameter)
	}
	if err := validateString(rt.AccountID, "accountID"); err != nil {
		return err
	}
	if rt.Amount.IsNegative() {
		return fmt.Errorf("%w: recurring amount %s is negative", ErrInvalidAmount, rt.Amount)
	}
	if !rt.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, rt.Frequency)
	}
	if rt.BillingCycle != "" && !rt.BillingCycle.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCycle, rt.BillingCycle)
	}
	return nil
}
