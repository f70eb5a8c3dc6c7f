package reminders

import (
	"time"

	"github.com/davr-ledger/davr-ledger/internal/periods"
)

// Decide picks the notification for one owner on one day. Pure: the only
// timing logic is the today >= end date comparison; the scheduler decides
// when to call. The no-open-period check runs before the date comparison.
func Decide(setting Setting, open *periods.Period, today time.Time) Notification {
	if !setting.Enabled {
		return Notification{Kind: KindNone}
	}
	if open == nil {
		return Notification{Kind: KindPromptToStartPeriod}
	}
	n := Notification{
		PeriodStart: open.StartDate,
		PeriodEnd:   open.EndDate,
	}
	if open.EndedBy(today) {
		n.Kind = KindPeriodEndedCloseIt
	} else {
		n.Kind = KindDailyEntryReminder
	}
	return n
}
