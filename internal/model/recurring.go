package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring transaction repeats.
type Frequency string

// Recurrence frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// BillingCycle is how a subscription is billed.
type BillingCycle string

// Billing cycles.
const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
	BillingCycleCustom  BillingCycle = "custom"
)

// IsValid reports whether c is a known billing cycle.
func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleYearly, BillingCycleCustom:
		return true
	}
	return false
}

// RecurringTransaction is a template for a charge or payment that repeats.
// It is never materialized into transactions here.
type RecurringTransaction struct {
	NextOccurrence time.Time       `json:"next_occurrence"`
	Amount         decimal.Decimal `json:"amount"`
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	CategoryID     string          `json:"category_id"`
	Frequency      Frequency       `json:"frequency"`
	BillingCycle   BillingCycle    `json:"billing_cycle"`
	VendorName     string          `json:"vendor_name,omitempty"`
	LogoURL        string          `json:"logo_url,omitempty"`
	AutoGenerate   bool            `json:"auto_generate"`
	IsSubscription bool            `json:"is_subscription"`
}

// CountsAsRecurringExpense reports whether the entry contributes to the
// monthly recurring expense load: subscriptions and anything billed monthly.
func (r *RecurringTransaction) CountsAsRecurringExpense() bool {
	return r.IsSubscription || r.Frequency == FrequencyMonthly
}

// IsMonthlySubscription reports whether the entry is a subscription billed monthly.
func (r *RecurringTransaction) IsMonthlySubscription() bool {
	return r.IsSubscription && r.BillingCycle == BillingCycleMonthly
}
