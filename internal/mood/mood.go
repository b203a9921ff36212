// Package mood derives the companion character's status from the task list.
package mood

import (
	"fmt"
	"sync"
	"time"

	"task-tracker/internal/domain"
)

// Kind is the character's status.
type Kind string

const (
	KindIdle    Kind = "idle"
	KindOnTrack Kind = "on-track"
	KindOverdue Kind = "overdue"
	KindAllDone Kind = "all-done"
	// KindSuccess is the short-lived reaction to a user action.
	KindSuccess Kind = "success"
)

// Messages shown by the character.
const (
	MessageWelcome  = "Welcome, adventurer! What are today's tasks?"
	MessageIdle     = "No tasks in progress. Time for a break?"
	MessageOverdue  = "There are overdue tasks! Hurry!"
	MessageAllDone  = "Splendid! Every task is complete!"
	MessageAdded    = "New task added!"
	MessageToggled  = "Status updated! Well done!"
	MessageDeleted  = "Task deleted. A wise decision."
	MessageImported = "Task list updated!"
)

// Mood is what the character shows.
type Mood struct {
	Kind    Kind
	Message string
}

// Tone groups kinds for coloring: warning, success, info or idle.
func (m Mood) Tone() string {
	switch m.Kind {
	case KindOverdue:
		return "warning"
	case KindSuccess, KindAllDone:
		return "success"
	case KindOnTrack:
		return "info"
	default:
		return "idle"
	}
}

// Assess picks the mood for tasks at now. Overdue work wins, then an empty
// list, then a fully completed list; otherwise it counts what remains.
func Assess(tasks []domain.Task, now time.Time) Mood {
	remaining := 0
	for _, t := range tasks {
		if t.IsOverdue(now) {
			return Mood{Kind: KindOverdue, Message: MessageOverdue}
		}
		if !t.IsComplete {
			remaining++
		}
	}

	switch {
	case len(tasks) == 0:
		return Mood{Kind: KindIdle, Message: MessageIdle}
	case remaining == 0:
		return Mood{Kind: KindAllDone, Message: MessageAllDone}
	default:
		return Mood{Kind: KindOnTrack, Message: remainingMessage(remaining)}
	}
}

func remainingMessage(n int) string {
	if n == 1 {
		return "1 task remaining."
	}
	return fmt.Sprintf("%d tasks remaining.", n)
}

// Celebrate returns the transient success mood.
func Celebrate(message string) Mood {
	return Mood{Kind: KindSuccess, Message: message}
}

// Tracker holds a success mood for a fixed time before falling back to
// Assess.
type Tracker struct {
	mu       sync.Mutex
	duration time.Duration
	success  *Mood
	until    time.Time
}

// NewTracker returns a tracker whose celebrations last d.
func NewTracker(d time.Duration) *Tracker {
	return &Tracker{duration: d}
}

// Celebrate shows message as a success mood until now+duration.
func (t *Tracker) Celebrate(message string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := Celebrate(message)
	t.success = &m
	t.until = now.Add(t.duration)
}

// Current returns the active celebration or the assessed mood.
func (t *Tracker) Current(tasks []domain.Task, now time.Time) Mood {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.success != nil {
		if now.Before(t.until) {
			return *t.success
		}
		t.success = nil
	}
	return Assess(tasks, now)
}
