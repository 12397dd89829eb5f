package copywriting

import "fmt"

// Kind is a notification category.
type Kind string

// Notification kinds.
const (
	KindOverspending         Kind = "overspending"
	KindSubscriptionReminder Kind = "subscriptionReminder"
	KindSavingsSuccess       Kind = "savingsSuccess"
	KindBudgetWarning        Kind = "budgetWarning"
)

// Severity tells the UI how loudly to show a notification.
type Severity string

// Severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

var kindSeverity = map[Kind]Severity{
	KindOverspending:         SeverityError,
	KindSubscriptionReminder: SeverityWarning,
	KindSavingsSuccess:       SeveritySuccess,
	KindBudgetWarning:        SeverityWarning,
}

// Notification is a message ready to show the user.
type Notification struct {
	Kind     Kind     `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notification builds a notification of the given kind, substituting
// {placeholders} in the picked line with data.
func (w *Writer) Notification(kind Kind, data map[string]any) (Notification, error) {
	severity, ok := kindSeverity[kind]
	if !ok {
		return Notification{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	message := w.Pick(GroupNotifications, string(kind))
	if data != nil {
		message = fill(message, data)
	}

	return Notification{
		Kind:     kind,
		Message:  message,
		Severity: severity,
	}, nil
}
