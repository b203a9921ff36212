package main

import (
	"context"

	"task-tracker/internal/api"
	"task-tracker/internal/cli"
	"task-tracker/internal/clock"
	"task-tracker/internal/config"
	"task-tracker/internal/logging"
	"task-tracker/internal/reminder"
	"task-tracker/internal/store"
	"task-tracker/internal/validation"
)

// buildApp wires storage, the task store, notifications and the reminder
// sweeper for one CLI invocation.
func buildApp(ctx context.Context, cfg *config.Config) (*cli.App, func(), error) {
	logger := logging.Setup(cfg.LoggingOptions())

	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logging.Debugf("storage backend %s at %s", cfg.Storage.Backend, cfg.GetStoragePath())

	c := clock.NewReal()
	st := store.Open(ctx, repo,
		store.WithKey(cfg.Storage.Key),
		store.WithClock(c),
		store.WithValidator(validation.NewTaskValidatorWithConfig(cfg)),
		store.WithLogger(logger),
	)

	notifier := config.CreateNotifier(cfg, logger)
	sweeper := reminder.NewSweeper(st, notifier, c, reminder.Options{
		Interval: cfg.Reminder.Interval,
		Rules: reminder.Rules{
			PreDeadlineWindow: cfg.Reminder.PreDeadlineWindow,
			OverdueFirstDelay: cfg.Reminder.OverdueFirstDelay,
			OverdueRepeat:     cfg.Reminder.OverdueRepeat,
		},
		DateFormat: cfg.Display.DateFormat,
		Logger:     logger,
	})

	taskAPI := api.New(st, sweeper, c, api.Options{
		SuccessDuration: cfg.Display.SuccessDuration,
		Notifier:        notifier,
	})

	cleanup := func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
	}
	return cli.NewApp(taskAPI, cfg).WithLogger(logger), cleanup, nil
}
