package config

import (
	"github.com/charmbracelet/log"

	"task-tracker/internal/notify"
)

// CreateNotifier builds the configured notifier wrapped in a permission gate.
func CreateNotifier(config *Config, logger *log.Logger) *notify.Gate {
	var inner notify.Notifier
	switch config.Notify.Backend {
	case NotifyLog:
		inner = notify.NewLog(logger)
	case NotifyNone:
		inner = notify.Unavailable{}
	default:
		if config.IsTesting() {
			inner = notify.Unavailable{}
		} else {
			inner = notify.NewDesktop(config.Notify.AppName, logger)
		}
	}
	return notify.NewGate(inner).WithLogger(logger)
}
