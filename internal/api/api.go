package api

import (
	"context"
	"sort"
	"strings"
	"time"

	"task-tracker/internal/clock"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/mood"
	"task-tracker/internal/notify"
	"task-tracker/internal/reminder"
	"task-tracker/internal/store"
	"task-tracker/internal/validation"
)

// StatusFilter selects tasks by completion.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusPending StatusFilter = "pending"
	StatusDone    StatusFilter = "done"
)

// SortOrder defines how listed tasks are ordered
type SortOrder string

const (
	SortByCreated SortOrder = "created" // Insertion order (default)
	SortByDue     SortOrder = "due"     // Earliest deadline first, unparseable last
)

// ListFilter narrows ListTasks results.
type ListFilter struct {
	Status StatusFilter
	Sort   SortOrder
	Text   string
}

// TaskView is a task plus the derived state a view needs.
type TaskView struct {
	domain.Task
	Overdue bool `json:"overdue"`
}

// Board is the split list with the character's mood.
type Board struct {
	Pending   []TaskView
	Completed []TaskView
	Mood      mood.Mood
}

// TaskAPI defines every user-facing task operation.
type TaskAPI interface {
	// ========== Task Management ==========

	// AddTask creates a task. due is an ISO 8601 timestamp or a relative
	// shorthand like "30m", "2h" or "1d".
	AddTask(ctx context.Context, content, due string) (*domain.Task, error)

	// ToggleTask flips completion of the task identified by an id or unique id prefix.
	ToggleTask(ctx context.Context, ref string) (*domain.Task, error)

	// DeleteTask removes the task identified by an id or unique id prefix.
	DeleteTask(ctx context.Context, ref string) (*domain.Task, error)

	// ========== Queries ==========

	GetTask(ctx context.Context, ref string) (*domain.Task, error)
	ResolveID(ctx context.Context, ref string) (string, error)
	ListTasks(ctx context.Context, filter ListFilter) ([]TaskView, error)
	GetBoard(ctx context.Context) (*Board, error)
	Mood(ctx context.Context) mood.Mood

	// ========== Share ==========

	// ExportTasks renders the list as indented JSON. An empty list is an error.
	ExportTasks(ctx context.Context) ([]byte, error)

	// ImportTasks replaces the list with a JSON array. Nothing changes on error.
	ImportTasks(ctx context.Context, payload []byte) (int, error)

	// ParseImport validates a JSON array without touching the list.
	ParseImport(ctx context.Context, payload []byte) ([]domain.Task, error)

	// ReplaceTasks replaces the list with tasks already returned by ParseImport.
	ReplaceTasks(ctx context.Context, tasks []domain.Task) (int, error)

	// ========== Reminders ==========

	// NotificationPermission asks for notification permission once and
	// returns the resulting state.
	NotificationPermission(ctx context.Context) notify.Permission

	// Sweep runs one reminder pass and returns the notifications it requested.
	Sweep(ctx context.Context) int

	// StartReminders runs the sweeper until stop is called.
	StartReminders(ctx context.Context) (stop func())

	// SaveError is the error of the last failed save, if any.
	SaveError() error
}

// Options configures the API.
type Options struct {
	SuccessDuration time.Duration
	// Notifier is asked for permission before reminders run. Nil skips the request.
	Notifier notify.Notifier
}

// taskAPIImpl implements the TaskAPI interface
type taskAPIImpl struct {
	store    *store.Store
	sweeper  *reminder.Sweeper
	clock    clock.Clock
	notifier notify.Notifier
	importer *validation.ImportValidator
	tracker  *mood.Tracker
}

// New creates a TaskAPI over st. Success moods are raised from store hooks,
// so mutations made directly on st are celebrated too.
func New(st *store.Store, sweeper *reminder.Sweeper, c clock.Clock, opts Options) TaskAPI {
	if opts.SuccessDuration <= 0 {
		opts.SuccessDuration = 3 * time.Second
	}
	a := &taskAPIImpl{
		store:    st,
		sweeper:  sweeper,
		clock:    c,
		notifier: opts.Notifier,
		importer: validation.NewImportValidator(),
		tracker:  mood.NewTracker(opts.SuccessDuration),
	}
	st.SetHooks(store.Hooks{
		OnAdd:    func(domain.Task) { a.celebrate(mood.MessageAdded) },
		OnToggle: func(domain.Task) { a.celebrate(mood.MessageToggled) },
		OnDelete: func(domain.Task) { a.celebrate(mood.MessageDeleted) },
		OnImport: func([]domain.Task) { a.celebrate(mood.MessageImported) },
	})
	return a
}

func (a *taskAPIImpl) celebrate(message string) {
	a.tracker.Celebrate(message, a.clock.Now())
}

// ========== Task Management ==========

func (a *taskAPIImpl) AddTask(ctx context.Context, content, due string) (*domain.Task, error) {
	task, err := a.store.Add(ctx, content, a.resolveDue(due))
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// resolveDue turns a shorthand offset into an absolute timestamp and
// normalizes zone-less input. Anything unparseable is passed through so the
// validator reports it.
func (a *taskAPIImpl) resolveDue(due string) string {
	due = strings.TrimSpace(due)
	if offset, err := validation.ParseTimeShorthand(due); err == nil {
		return domain.FormatTimestamp(a.clock.Now().Add(offset))
	}
	if normalized, err := domain.NormalizeTimestamp(due); err == nil {
		return normalized
	}
	return due
}

func (a *taskAPIImpl) ToggleTask(ctx context.Context, ref string) (*domain.Task, error) {
	id, err := a.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	task, ok := a.store.Toggle(ctx, id)
	if !ok {
		return nil, errors.NewNotFoundError("task", ref)
	}
	return &task, nil
}

func (a *taskAPIImpl) DeleteTask(ctx context.Context, ref string) (*domain.Task, error) {
	id, err := a.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	task, ok := a.store.Get(id)
	if !ok || !a.store.Delete(ctx, id) {
		return nil, errors.NewNotFoundError("task", ref)
	}
	return &task, nil
}

// ========== Queries ==========

func (a *taskAPIImpl) GetTask(ctx context.Context, ref string) (*domain.Task, error) {
	id, err := a.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	task, ok := a.store.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("task", ref)
	}
	return &task, nil
}

// ResolveID accepts a full id or a prefix that matches exactly one task.
func (a *taskAPIImpl) ResolveID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.NewInvalidInputError("id", ref, "task id is required")
	}

	var matches []string
	for _, t := range a.store.Tasks() {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.NewNotFoundError("task", ref)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewInvalidInputError("id", ref, "matches more than one task").
			WithContext("matches", matches)
	}
}

func (a *taskAPIImpl) ListTasks(ctx context.Context, filter ListFilter) ([]TaskView, error) {
	switch filter.Status {
	case "", StatusAll, StatusPending, StatusDone:
	default:
		return nil, errors.NewInvalidInputError("status", filter.Status, "must be all, pending or done")
	}
	switch filter.Sort {
	case "", SortByCreated, SortByDue:
	default:
		return nil, errors.NewInvalidInputError("sort", filter.Sort, "must be created or due")
	}

	now := a.clock.Now()
	text := strings.ToLower(strings.TrimSpace(filter.Text))
	views := []TaskView{}
	for _, t := range a.store.Tasks() {
		if filter.Status == StatusPending && t.IsComplete {
			continue
		}
		if filter.Status == StatusDone && !t.IsComplete {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(t.Content), text) {
			continue
		}
		views = append(views, TaskView{Task: t, Overdue: t.IsOverdue(now)})
	}

	if filter.Sort == SortByDue {
		sortByDue(views)
	}
	return views, nil
}

func sortByDue(views []TaskView) {
	sort.SliceStable(views, func(i, j int) bool {
		di, erri := views[i].Due()
		dj, errj := views[j].Due()
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		default:
			return di.Before(dj)
		}
	})
}

func (a *taskAPIImpl) GetBoard(ctx context.Context) (*Board, error) {
	a.store.Refresh(ctx)
	now := a.clock.Now()
	tasks := a.store.Tasks()
	pending, completed := domain.SplitByCompletion(tasks)

	board := &Board{
		Pending:   make([]TaskView, 0, len(pending)),
		Completed: make([]TaskView, 0, len(completed)),
		Mood:      a.tracker.Current(tasks, now),
	}
	for _, t := range pending {
		board.Pending = append(board.Pending, TaskView{Task: t, Overdue: t.IsOverdue(now)})
	}
	for _, t := range completed {
		board.Completed = append(board.Completed, TaskView{Task: t})
	}
	return board, nil
}

func (a *taskAPIImpl) Mood(ctx context.Context) mood.Mood {
	return a.tracker.Current(a.store.Tasks(), a.clock.Now())
}

// ========== Share ==========

func (a *taskAPIImpl) ExportTasks(ctx context.Context) ([]byte, error) {
	if a.store.Len() == 0 {
		return nil, errors.NewValidationError("no tasks to export", nil)
	}
	return a.store.Export()
}

func (a *taskAPIImpl) ImportTasks(ctx context.Context, payload []byte) (int, error) {
	tasks, err := a.ParseImport(ctx, payload)
	if err != nil {
		return 0, err
	}
	return a.ReplaceTasks(ctx, tasks)
}

func (a *taskAPIImpl) ParseImport(ctx context.Context, payload []byte) ([]domain.Task, error) {
	return a.importer.ParseImport(payload)
}

func (a *taskAPIImpl) ReplaceTasks(ctx context.Context, tasks []domain.Task) (int, error) {
	if err := a.store.ImportAll(ctx, tasks); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// ========== Reminders ==========

func (a *taskAPIImpl) NotificationPermission(ctx context.Context) notify.Permission {
	if a.notifier == nil {
		return notify.PermissionDenied
	}
	return a.notifier.RequestPermission(ctx)
}

func (a *taskAPIImpl) Sweep(ctx context.Context) int {
	a.NotificationPermission(ctx)
	return a.sweeper.Tick(ctx)
}

func (a *taskAPIImpl) StartReminders(ctx context.Context) (stop func()) {
	a.NotificationPermission(ctx)
	return a.sweeper.Start(ctx)
}

func (a *taskAPIImpl) SaveError() error {
	return a.store.SaveErr()
}
