// Package reminder decides when tasks deserve a notification and runs the
// periodic sweep that delivers them.
package reminder

import (
	"fmt"
	"time"

	"task-tracker/internal/domain"
)

// Kind identifies which rule fired.
type Kind string

const (
	KindUpcoming Kind = "upcoming"
	KindOverdue  Kind = "overdue"
)

// Rules are the thresholds of the two reminder rules.
type Rules struct {
	// PreDeadlineWindow is how long before the deadline the one-time
	// upcoming reminder may fire.
	PreDeadlineWindow time.Duration
	// OverdueFirstDelay is how long past due the first overdue reminder waits.
	OverdueFirstDelay time.Duration
	// OverdueRepeat is the gap between overdue reminders.
	OverdueRepeat time.Duration
}

// DefaultRules returns a 3 minute window and daily overdue reminders.
func DefaultRules() Rules {
	return Rules{
		PreDeadlineWindow: 3 * time.Minute,
		OverdueFirstDelay: 24 * time.Hour,
		OverdueRepeat:     24 * time.Hour,
	}
}

// Notification is a reminder requested for one task.
type Notification struct {
	Task domain.Task
	Kind Kind
	Due  time.Time
}

// Title is the notification headline.
func (n Notification) Title() string {
	switch n.Kind {
	case KindOverdue:
		return "Overdue: " + n.Task.Content
	default:
		return "Deadline approaching: " + n.Task.Content
	}
}

// Body renders the due time with layout in the local zone.
func (n Notification) Body(layout string) string {
	return fmt.Sprintf("Due: %s", n.Due.Local().Format(layout))
}

// Evaluate applies the rules to every incomplete task at now. It returns
// the next list, with flags set on tasks that fired, and the notifications
// to deliver. Tasks that did not fire are returned unchanged, and the
// input slice is not modified.
func Evaluate(tasks []domain.Task, now time.Time, rules Rules) ([]domain.Task, []Notification) {
	next := make([]domain.Task, len(tasks))
	var notifications []Notification

	for i, task := range tasks {
		next[i] = task
		if task.IsComplete {
			continue
		}
		due, err := task.Due()
		if err != nil {
			continue
		}

		updated := task
		fired := false

		windowStart := due.Add(-rules.PreDeadlineWindow)
		if !now.Before(windowStart) && now.Before(due) && !task.PreDeadlineNotified() {
			updated = updated.WithPreDeadlineNotified()
			notifications = append(notifications, Notification{Task: task, Kind: KindUpcoming, Due: due})
			fired = true
		}

		if now.After(due) && overdueReminderDue(task, due, now, rules) {
			updated = updated.WithOverdueNotified(now)
			notifications = append(notifications, Notification{Task: task, Kind: KindOverdue, Due: due})
			fired = true
		}

		if fired {
			next[i] = updated
		}
	}

	return next, notifications
}

// overdueReminderDue reports whether an overdue task should be reminded.
// The first reminder waits OverdueFirstDelay past the deadline, later ones
// OverdueRepeat past the previous reminder.
func overdueReminderDue(task domain.Task, due, now time.Time, rules Rules) bool {
	if last, ok := task.LastOverdue(); ok {
		return now.Sub(last) >= rules.OverdueRepeat
	}
	return now.Sub(due) >= rules.OverdueFirstDelay
}
