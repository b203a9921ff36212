package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/clock"
	"task-tracker/internal/domain"
	"task-tracker/internal/logging"
	"task-tracker/internal/notify"
)

// DefaultInterval is the sweep period.
const DefaultInterval = 60 * time.Second

// Updater is the functional-update surface of the task store.
type Updater interface {
	Update(ctx context.Context, fn func([]domain.Task) ([]domain.Task, bool)) bool
}

// Options configures a Sweeper.
type Options struct {
	Interval   time.Duration
	Rules      Rules
	DateFormat string
	Logger     *log.Logger
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Interval:   DefaultInterval,
		Rules:      DefaultRules(),
		DateFormat: "2006-01-02 15:04",
	}
}

// Sweeper periodically evaluates the reminder rules against the store.
type Sweeper struct {
	store    Updater
	notifier notify.Notifier
	clock    clock.Clock
	opts     Options
	logger   *log.Logger
}

// NewSweeper builds a sweeper. Zero-valued options fall back to defaults.
func NewSweeper(store Updater, notifier notify.Notifier, c clock.Clock, opts Options) *Sweeper {
	defaults := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = defaults.Interval
	}
	if opts.Rules == (Rules{}) {
		opts.Rules = defaults.Rules
	}
	if opts.DateFormat == "" {
		opts.DateFormat = defaults.DateFormat
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if notifier == nil {
		notifier = notify.Unavailable{}
	}
	return &Sweeper{store: store, notifier: notifier, clock: c, opts: opts, logger: logger}
}

// Tick runs one sweep. Flag updates for the whole batch are written in a
// single store update, and only if some rule fired. Notifications are
// delivered afterwards; delivery errors are logged and ignored. Tick
// returns the number of notifications requested.
func (s *Sweeper) Tick(ctx context.Context) int {
	now := s.clock.Now()

	var fired []Notification
	s.store.Update(ctx, func(tasks []domain.Task) ([]domain.Task, bool) {
		next, notifications := Evaluate(tasks, now, s.opts.Rules)
		fired = notifications
		return next, len(notifications) > 0
	})

	for _, n := range fired {
		logging.Debugf("reminder %s for task %s", n.Kind, n.Task.ID)
		if err := s.notifier.Notify(ctx, n.Title(), n.Body(s.opts.DateFormat)); err != nil {
			s.logger.Warn("notification delivery failed", "task", n.Task.ID, "kind", n.Kind, "err", err)
		}
	}
	return len(fired)
}

// Run sweeps every Interval until ctx is cancelled, then stops its ticker.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.Tick(ctx)
		}
	}
}

// Start runs the sweeper in a goroutine. The returned stop function
// cancels it and waits until it has exited; calling it more than once is
// safe.
func (s *Sweeper) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

// Interval returns the configured sweep period.
func (s *Sweeper) Interval() time.Duration {
	return s.opts.Interval
}
