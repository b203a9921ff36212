package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app    *App
	Format string
	Output string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, Format: FormatJSON}
}

// Execute writes the task list to Output, or stdout when Output is empty.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	data, err := c.app.api.ExportTasks(ctx)
	if err != nil {
		return err
	}

	data, err = c.encode(data)
	if err != nil {
		return err
	}

	if c.Output == "" || c.Output == "-" {
		_, err = c.app.out.Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0644); err != nil {
		return errors.NewStorageError("write export file", err).WithContext("path", c.Output)
	}
	fmt.Fprintf(c.app.errOut, "Exported tasks to %s\n", c.Output)
	return nil
}

// encode converts the indented JSON export into the requested format.
func (c *ExportCommand) encode(data []byte) ([]byte, error) {
	switch c.Format {
	case "", FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML, FormatCSV:
	default:
		return nil, errors.NewInvalidInputError("format", c.Format, "must be json, yaml or csv")
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	if c.Format == FormatYAML {
		return yaml.Marshal(tasks)
	}
	return encodeCSV(tasks)
}

func encodeCSV(tasks []domain.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "content", "dueDate", "createdAt", "isComplete", "notifiedPreDeadline", "lastOverdueNotification"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range tasks {
		lastOverdue := ""
		if t.LastOverdueNotification != nil {
			lastOverdue = *t.LastOverdueNotification
		}
		row := []string{
			t.ID,
			t.Content,
			t.DueDate,
			t.CreatedAt,
			strconv.FormatBool(t.IsComplete),
			strconv.FormatBool(t.PreDeadlineNotified()),
			lastOverdue,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}
