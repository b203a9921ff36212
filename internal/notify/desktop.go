package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
)

// Desktop shows native desktop notifications through beeep.
type Desktop struct {
	logger *log.Logger

	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	send     func(title, body string) error
}

// NewDesktop returns a desktop notifier. appName labels the notifications
// where the platform supports it.
func NewDesktop(appName string, logger *log.Logger) *Desktop {
	if logger == nil {
		logger = logging.Discard()
	}
	if appName != "" {
		beeep.AppName = appName
	}
	return &Desktop{
		logger:   logger,
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// available returns a capability error when the host has no way to show
// notifications. On Linux and the BSDs that needs a session bus or a
// notify-send binary; other platforms always have a native channel.
func (d *Desktop) available() error {
	switch d.goos {
	case "linux", "freebsd", "netbsd", "openbsd":
	default:
		return nil
	}
	if d.getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return nil
	}
	if _, err := d.lookPath("notify-send"); err == nil {
		return nil
	}
	return errors.NewCapabilityUnavailableError("desktop notifications",
		fmt.Errorf("no D-Bus session and notify-send is not on PATH"))
}

// Permission is granted exactly when the host can show notifications.
func (d *Desktop) Permission() Permission {
	if d.available() != nil {
		return PermissionDenied
	}
	return PermissionGranted
}

// RequestPermission has nothing to prompt; it reports availability.
func (d *Desktop) RequestPermission(context.Context) Permission {
	return d.Permission()
}

// Notify shows the notification. A host without notification support is a
// no-op.
func (d *Desktop) Notify(_ context.Context, title, body string) error {
	if err := d.available(); err != nil {
		d.logger.Debug("notification skipped", "title", title, "err", err)
		return nil
	}
	if err := d.send(title, body); err != nil {
		d.logger.Warn("desktop notification failed", "err", err)
		return err
	}
	return nil
}
