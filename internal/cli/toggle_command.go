package cli

import (
	"context"
	"fmt"

	"task-tracker/internal/errors"
)

// ToggleCommand handles the toggle command
type ToggleCommand struct {
	app *App
}

// NewToggleCommand creates a new toggle command handler
func NewToggleCommand(app *App) *ToggleCommand {
	return &ToggleCommand{app: app}
}

// Execute flips completion of every referenced task.
func (c *ToggleCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("id", "", "usage: tk toggle <id>")
	}

	for _, ref := range args {
		task, err := c.app.api.ToggleTask(ctx, ref)
		if err != nil {
			return err
		}
		verb := "Reopened"
		if task.IsComplete {
			verb = "Completed"
		}
		fmt.Fprintf(c.app.out, "%s %s: %s\n", verb, c.app.shortID(task.ID), task.Content)
	}
	fmt.Fprintln(c.app.out, c.app.api.Mood(ctx).Message)
	c.app.warnOnSaveError()
	return nil
}
