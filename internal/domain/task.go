package domain

import (
	"time"
)

// Task is a user-defined unit of work with content and a deadline.
// The JSON shape is shared by the persisted record, export and import,
// so timestamps are kept as the strings that were stored.
type Task struct {
	ID                      string  `json:"id" yaml:"id"`
	Content                 string  `json:"content" yaml:"content"`
	DueDate                 string  `json:"dueDate" yaml:"dueDate"`
	CreatedAt               string  `json:"createdAt" yaml:"createdAt"`
	IsComplete              bool    `json:"isComplete" yaml:"isComplete"`
	NotifiedPreDeadline     *bool   `json:"notifiedPreDeadline,omitempty" yaml:"notifiedPreDeadline,omitempty"`
	LastOverdueNotification *string `json:"lastOverdueNotification,omitempty" yaml:"lastOverdueNotification,omitempty"`
}

// NewTask creates an incomplete task with no reminder flags.
func NewTask(id, content, dueDate string, createdAt time.Time) Task {
	return Task{
		ID:         id,
		Content:    content,
		DueDate:    dueDate,
		CreatedAt:  FormatTimestamp(createdAt),
		IsComplete: false,
	}
}

// String returns the task content for display purposes.
func (t Task) String() string {
	return t.Content
}

// Due parses the due date.
func (t Task) Due() (time.Time, error) {
	return ParseTimestamp(t.DueDate)
}

// PreDeadlineNotified reports whether the pre-deadline reminder fired.
func (t Task) PreDeadlineNotified() bool {
	return t.NotifiedPreDeadline != nil && *t.NotifiedPreDeadline
}

// LastOverdue returns the time of the most recent overdue reminder.
// ok is false when no reminder was recorded or the value is unreadable.
func (t Task) LastOverdue() (last time.Time, ok bool) {
	if t.LastOverdueNotification == nil {
		return time.Time{}, false
	}
	last, err := ParseTimestamp(*t.LastOverdueNotification)
	if err != nil {
		return time.Time{}, false
	}
	return last, true
}

// IsOverdue reports whether the task is incomplete and past its due date.
// A task with an unreadable due date is never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.IsComplete {
		return false
	}
	due, err := t.Due()
	if err != nil {
		return false
	}
	return now.After(due)
}

// Toggled returns a copy with the completion flag flipped.
func (t Task) Toggled() Task {
	t.IsComplete = !t.IsComplete
	return t
}

// WithPreDeadlineNotified returns a copy with the pre-deadline flag set.
func (t Task) WithPreDeadlineNotified() Task {
	notified := true
	t.NotifiedPreDeadline = &notified
	return t
}

// WithOverdueNotified returns a copy recording an overdue reminder at at.
func (t Task) WithOverdueNotified(at time.Time) Task {
	stamp := FormatTimestamp(at)
	t.LastOverdueNotification = &stamp
	return t
}

// Clone returns a deep copy so callers cannot alias the optional fields.
func (t Task) Clone() Task {
	if t.NotifiedPreDeadline != nil {
		v := *t.NotifiedPreDeadline
		t.NotifiedPreDeadline = &v
	}
	if t.LastOverdueNotification != nil {
		v := *t.LastOverdueNotification
		t.LastOverdueNotification = &v
	}
	return t
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// SplitByCompletion partitions tasks preserving order.
func SplitByCompletion(tasks []Task) (incomplete, complete []Task) {
	for _, t := range tasks {
		if t.IsComplete {
			complete = append(complete, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, complete
}
