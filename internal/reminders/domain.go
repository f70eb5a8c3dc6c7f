package reminders

import "time"

// Default reminder time, matching the shop's end-of-day routine.
const (
	DefaultHour   = 21
	DefaultMinute = 0
)

// Setting governs whether and when the daily notification fires for an owner.
type Setting struct {
	OwnerID string `json:"-"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Enabled bool   `json:"enabled"`
}

// DefaultSetting is created lazily on first read.
func DefaultSetting(ownerID string) Setting {
	return Setting{OwnerID: ownerID, Hour: DefaultHour, Minute: DefaultMinute, Enabled: true}
}

// NotificationKind enumerates the daily notification outcomes. The empty
// kind means no notification.
type NotificationKind string

const (
	KindNone                NotificationKind = ""
	KindPromptToStartPeriod NotificationKind = "PROMPT_START_PERIOD"
	KindPeriodEndedCloseIt  NotificationKind = "PERIOD_ENDED_PROMPT_CLOSE"
	KindDailyEntryReminder  NotificationKind = "DAILY_ENTRY_REMINDER"
)

// Notification is the decision output delivered by a notifier. PeriodStart
// and PeriodEnd carry the date range for display when a period exists;
// SalesToDate carries the running sales figure for the reminder text.
type Notification struct {
	Kind        NotificationKind
	PeriodStart time.Time
	PeriodEnd   time.Time
	SalesToDate int64
}
