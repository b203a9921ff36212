package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"task-tracker/internal/api"
	"task-tracker/internal/errors"
)

// ListCommand handles the list command
type ListCommand struct {
	app    *App
	Filter api.ListFilter
	Format string
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app, Format: "table"}
}

// Execute runs the list command. Remaining args are a text filter.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	filter := c.Filter
	if len(args) > 0 {
		filter.Text = strings.Join(args, " ")
	}

	tasks, err := c.app.api.ListTasks(ctx, filter)
	if err != nil {
		return err
	}

	switch c.Format {
	case "", "table":
		c.printTable(tasks)
		return nil
	case "json":
		return c.printJSON(tasks)
	default:
		return errors.NewInvalidInputError("format", c.Format, "must be table or json")
	}
}

// printTable prints one line per task:
// [x] id  due  content  OVERDUE
func (c *ListCommand) printTable(tasks []api.TaskView) {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return
	}
	for _, t := range tasks {
		check := "[ ]"
		if t.IsComplete {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s  %s", check, c.app.shortID(t.ID), c.app.formatDue(t.DueDate), t.Content)
		if t.Overdue {
			line += "  OVERDUE"
		}
		fmt.Fprintln(c.app.out, line)
	}
}

func (c *ListCommand) printJSON(tasks []api.TaskView) error {
	enc := json.NewEncoder(c.app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
