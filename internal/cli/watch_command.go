package cli

import (
	"context"
	"fmt"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	app *App
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App) *WatchCommand {
	return &WatchCommand{app: app}
}

// Execute sweeps once, then keeps sweeping on the configured interval
// until ctx is cancelled.
func (c *WatchCommand) Execute(ctx context.Context, args []string) error {
	permission := c.app.api.NotificationPermission(ctx)
	fmt.Fprintf(c.app.out, "Watching deadlines every %s (notifications: %s). Press Ctrl+C to stop.\n",
		c.app.config.Reminder.Interval, permission)

	c.app.api.Sweep(ctx)
	stop := c.app.api.StartReminders(ctx)
	defer stop()

	<-ctx.Done()
	fmt.Fprintln(c.app.out, "Stopped watching.")
	return nil
}
