package copywriting

// Catalog groups lines of copy by group and key, e.g. "performanceScore" /
// "excellent". A Writer picks one line at random from a key.
type Catalog map[string]map[string][]string

// Copy groups.
const (
	GroupNotifications    = "notifications"
	GroupMonthlyWrap      = "monthlyWrap"
	GroupAnnualWrap       = "annualWrap"
	GroupPerformanceScore = "performanceScore"
	GroupDashboard        = "dashboard"
)

// DefaultCatalog returns the built-in copy.
func DefaultCatalog() Catalog {
	return Catalog{
		GroupNotifications: {
			string(KindOverspending): {
				"You're spending like you're trying to win an award. Stop.",
				"Your wallet called. It's not having a good time.",
				"Remember when you said you'd stick to the budget? Yeah, neither do we.",
				"You're {percent}% through your {category} budget. Maybe try your kitchen?",
			},
			string(KindSubscriptionReminder): {
				"{vendor} wants your money again. You knew this day would come.",
				"Another subscription is knocking. Your bank account is not amused.",
				"Subscription alert: Your money is about to leave the building.",
				"Time to pay the subscription piper. Again.",
			},
			string(KindSavingsSuccess): {
				"You saved money. We're impressed. Truly.",
				"Look at you, being financially responsible. Who are you?",
				"Savings goal achieved! Now don't go spending it all at once.",
				"You actually saved money this month. Is this real life?",
			},
			string(KindBudgetWarning): {
				"You're {percent}% through your {category} budget. Maybe try your kitchen?",
				"Budget limit approaching. Time to channel your inner frugal self.",
				"Your budget is crying. Just a heads up.",
				"You're about to break your budget. We're not mad, just disappointed.",
			},
		},
		GroupMonthlyWrap: {
			"subjects": {
				"Your money misadventures: summarized.",
				"You survived another month. Congrats?",
				"Let's review where your paycheck ran off to.",
				"Monthly financial autopsy: complete.",
				"Another month, another financial report card.",
			},
			"greetings": {
				"Well, well, well. Look who made it through another month.",
				"Time for your monthly financial reality check.",
				"Here's what your money did while you weren't looking.",
				"Another month in the books. Let's see how you did.",
			},
		},
		GroupAnnualWrap: {
			"subjects": {
				"Your year in review: financially speaking.",
				"12 months of financial decisions. Let's talk.",
				"Annual wrap: where did all your money go?",
				"Year-end financial report: no judgment (okay, maybe a little).",
			},
		},
		GroupPerformanceScore: {
			"excellent": {
				"Outstanding! You're basically a financial wizard.",
				"Excellent work. Your future self thanks you.",
				"You're crushing it. Keep it up!",
			},
			"stable": {
				"You're doing okay. Not great, not terrible.",
				"Stable performance. Room for improvement, but you're on track.",
				"You're managing. Could be better, could be worse.",
			},
			"riskZone": {
				"You're in the risk zone. Time to tighten those purse strings.",
				"Warning: Your financial health needs attention.",
				"Things are getting dicey. Maybe reconsider that subscription?",
			},
			"critical": {
				"Critical situation. Your finances need immediate attention.",
				"This is not a drill. Your spending is out of control.",
				"Emergency intervention required. Please review your budget.",
			},
		},
		GroupDashboard: {
			"welcome": {
				"Welcome back! Let's see how your money is doing.",
				"Time to check in on your financial life.",
				"Ready to face your financial reality?",
			},
			"emptyState": {
				"Start tracking your spending to see your financial performance.",
			},
		},
	}
}
