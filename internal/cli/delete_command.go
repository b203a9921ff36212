package cli

import (
	"context"
	"fmt"

	"task-tracker/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
	Yes bool
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes one task after confirmation. Declining is not an error.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "usage: tk delete <id>")
	}

	task, err := c.app.api.GetTask(ctx, args[0])
	if err != nil {
		return err
	}
	if !c.Yes && !c.app.confirm(fmt.Sprintf("Delete task %q?", task.Content)) {
		fmt.Fprintln(c.app.out, "Delete cancelled.")
		return nil
	}

	if _, err := c.app.api.DeleteTask(ctx, task.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Deleted %s: %s\n", c.app.shortID(task.ID), task.Content)
	fmt.Fprintln(c.app.out, c.app.api.Mood(ctx).Message)
	c.app.warnOnSaveError()
	return nil
}
