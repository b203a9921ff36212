package cli

import (
	"context"
	"fmt"
)

// SweepCommand handles the sweep command
type SweepCommand struct {
	app *App
}

// NewSweepCommand creates a new sweep command handler
func NewSweepCommand(app *App) *SweepCommand {
	return &SweepCommand{app: app}
}

// Execute runs a single reminder pass. Suited to cron.
func (c *SweepCommand) Execute(ctx context.Context, args []string) error {
	sent := c.app.api.Sweep(ctx)
	fmt.Fprintf(c.app.out, "%d reminders sent\n", sent)
	c.app.warnOnSaveError()
	return nil
}
