package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"task-tracker/internal/api"
	"task-tracker/internal/errors"
)

// ImportCommand handles the import command
type ImportCommand struct {
	app *App
	Yes bool
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app}
}

// Execute replaces the task list with the JSON array in args[0], or stdin
// when no file or "-" is given. The payload is validated first; a
// non-empty list is then only replaced after confirmation.
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("file", args, "usage: tk import [file|-]")
	}

	payload, err := c.read(args)
	if err != nil {
		return err
	}

	tasks, err := c.app.api.ParseImport(ctx, payload)
	if err != nil {
		return err
	}

	current, err := c.app.api.ListTasks(ctx, api.ListFilter{})
	if err != nil {
		return err
	}
	if len(current) > 0 && !c.Yes {
		if fromStdin(args) {
			return errors.NewInvalidInputError("yes", false, "pass --yes to replace existing tasks from stdin")
		}
		if !c.app.confirm(fmt.Sprintf("Replace all %d current tasks?", len(current))) {
			fmt.Fprintln(c.app.out, "Import cancelled.")
			return nil
		}
	}

	count, err := c.app.api.ReplaceTasks(ctx, tasks)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Imported %d tasks.\n", count)
	fmt.Fprintln(c.app.out, c.app.api.Mood(ctx).Message)
	c.app.warnOnSaveError()
	return nil
}

func fromStdin(args []string) bool {
	return len(args) == 0 || args[0] == "-"
}

func (c *ImportCommand) read(args []string) ([]byte, error) {
	if fromStdin(args) {
		data, err := io.ReadAll(c.app.in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.NewInvalidInputError("file", args[0], err.Error())
	}
	return data, nil
}
