// Package notify renders and delivers reminder notifications.
package notify

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/davr-ledger/davr-ledger/internal/reminders"
)

const dateLayout = "2006-01-02"

var printer = message.NewPrinter(language.English)

// FormatAmount renders a money amount with thousands separators, the way
// shop owners read prices.
func FormatAmount(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// Render turns a notification into the user-facing message text.
func Render(n reminders.Notification) string {
	switch n.Kind {
	case reminders.KindPromptToStartPeriod:
		return "Reminder: you have no open 15-day period.\nStart one by entering your opening stock cost (enter 0 for an empty stockroom)."
	case reminders.KindPeriodEndedCloseIt:
		return fmt.Sprintf(
			"The 15-day period %s → %s has ended.\nSales so far: %s.\nEnter the closing stock cost to close the period; profit is then computed automatically.",
			n.PeriodStart.Format(dateLayout), n.PeriodEnd.Format(dateLayout), FormatAmount(n.SalesToDate))
	case reminders.KindDailyEntryReminder:
		return fmt.Sprintf(
			"Reminder: have you entered today's sales, purchases and expenses?\nPeriod sales so far: %s.",
			FormatAmount(n.SalesToDate))
	default:
		return ""
	}
}
