package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/errors"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
	Due string
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute adds a task whose content is the joined args.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("content", "", "usage: tk add \"task\" --due 2h")
	}
	content := strings.Join(args, " ")

	task, err := c.app.api.AddTask(ctx, content, c.Due)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Added %s: %s (due %s)\n", c.app.shortID(task.ID), task.Content, c.app.formatDue(task.DueDate))
	fmt.Fprintln(c.app.out, c.app.api.Mood(ctx).Message)
	c.app.warnOnSaveError()
	return nil
}
