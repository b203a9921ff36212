package cli

import (
	"context"

	"task-tracker/internal/ui"
)

// BoardCommand handles the board command
type BoardCommand struct {
	app *App
}

// NewBoardCommand creates a new board command handler
func NewBoardCommand(app *App) *BoardCommand {
	return &BoardCommand{app: app}
}

// Execute opens the interactive board.
func (c *BoardCommand) Execute(ctx context.Context, args []string) error {
	return ui.Run(ctx, c.app.api, ui.Options{
		DateFormat: c.app.config.Display.DateFormat,
		IDLength:   c.app.config.Display.IDLength,
		Output:     c.app.out,
	})
}
