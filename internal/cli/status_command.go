package cli

import (
	"context"
	"fmt"

	"task-tracker/internal/api"
)

// StatusCommand handles the status command
type StatusCommand struct {
	app *App
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app}
}

// Execute prints the character's mood and the task counts.
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	board, err := c.app.api.GetBoard(ctx)
	if err != nil {
		return err
	}

	overdue := 0
	for _, t := range board.Pending {
		if t.Overdue {
			overdue++
		}
	}

	fmt.Fprintf(c.app.out, "[%s] %s\n", board.Mood.Tone(), board.Mood.Message)
	fmt.Fprintf(c.app.out, "%d pending, %d done, %d overdue\n", len(board.Pending), len(board.Completed), overdue)
	if next, ok := nextDue(board.Pending); ok {
		fmt.Fprintf(c.app.out, "Next due: %s (%s)\n", next.Content, c.app.formatDue(next.DueDate))
	}
	return nil
}

// nextDue returns the pending, not yet overdue task with the earliest deadline.
func nextDue(pending []api.TaskView) (api.TaskView, bool) {
	var next api.TaskView
	found := false
	for _, t := range pending {
		if t.Overdue {
			continue
		}
		due, err := t.Due()
		if err != nil {
			continue
		}
		if !found {
			next, found = t, true
			continue
		}
		if current, _ := next.Due(); due.Before(current) {
			next = t
		}
	}
	return next, found
}
