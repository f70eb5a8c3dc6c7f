// Package jobs runs background work over asynq: the per-minute reminder
// scan that delivers daily entry and close-period notifications.
package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReminderScan is the task type for the reminder scan tick.
	TaskTypeReminderScan = "reminders:scan"
)

// NewReminderScanTask constructs the reminder scan task. The scan carries no
// payload; it derives the due owners from the wall clock.
func NewReminderScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeReminderScan, nil)
}
