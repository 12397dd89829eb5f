// Package cli provides styled terminal output for pulse: lipgloss styles
// for messages and score tiers, and go-pretty tables for listings.
package cli

import (
	"fmt"

	"github.com/Veraticus/finpulse/internal/copywriting"
	"github.com/Veraticus/finpulse/internal/score"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7C5CFF")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// ScoreStyle renders the big score number.
	ScoreStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	PulseIcon   = "💓"
	ChartIcon   = "📊"
)

var tierColors = map[score.Tier]lipgloss.Color{
	score.TierExcellent: SuccessColor,
	score.TierStable:    InfoColor,
	score.TierRiskZone:  WarningColor,
	score.TierCritical:  ErrorColor,
}

var tierLabels = map[score.Tier]string{
	score.TierExcellent: "Excellent",
	score.TierStable:    "Stable",
	score.TierRiskZone:  "Risk zone",
	score.TierCritical:  "Critical",
}

func tierColor(tier score.Tier) lipgloss.Color {
	if color, ok := tierColors[tier]; ok {
		return color
	}
	return SubtleColor
}

// TierStyle returns the style used for a tier.
func TierStyle(tier score.Tier) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(tierColor(tier))
}

// TierLabel returns a human label for a tier.
func TierLabel(tier score.Tier) string {
	if label, ok := tierLabels[tier]; ok {
		return label
	}
	return string(tier)
}

// FormatScore renders "83 / 100  Excellent" in the tier's color.
func FormatScore(value int, tier score.Tier) string {
	return ScoreStyle.Foreground(tierColor(tier)).Render(fmt.Sprintf("%d / 100", value)) +
		" " + TierStyle(tier).Render(TierLabel(tier))
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatNotification formats a notification with the icon of its severity.
func FormatNotification(n copywriting.Notification) string {
	switch n.Severity {
	case copywriting.SeverityError:
		return FormatError(n.Message)
	case copywriting.SeverityWarning:
		return FormatWarning(n.Message)
	case copywriting.SeveritySuccess:
		return FormatSuccess(n.Message)
	default:
		return FormatInfo(n.Message)
	}
}

// FormatTitle formats a title with the pulse icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(PulseIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}
