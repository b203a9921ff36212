// Package store owns the task list. Every mutation goes through one
// mutex-guarded state cell and is saved before the call returns.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"task-tracker/internal/clock"
	"task-tracker/internal/domain"
	"task-tracker/internal/logging"
	"task-tracker/internal/repository"
	"task-tracker/internal/validation"
)

// DefaultKey is the record key the task list is stored under.
const DefaultKey = "simpleTaskManagerTasks"

// Hooks are called after a successful mutation, outside the store lock.
type Hooks struct {
	OnAdd    func(domain.Task)
	OnToggle func(domain.Task)
	OnDelete func(domain.Task)
	OnImport func([]domain.Task)
}

// Store is the single source of truth for the task list.
type Store struct {
	mu      sync.Mutex
	tasks   []domain.Task
	saveErr error

	repo      repository.Repository
	key       string
	clock     clock.Clock
	newID     func() string
	validator *validation.TaskValidator
	logger    *log.Logger
	hooks     Hooks
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the clock used for createdAt.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithValidator sets the validator for add input.
func WithValidator(v *validation.TaskValidator) Option {
	return func(s *Store) { s.validator = v }
}

// WithLogger sets the logger for load and save failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithHooks registers success callbacks.
func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

// New returns an empty store backed by repo. Call Load to read the
// persisted list.
func New(repo repository.Repository, opts ...Option) *Store {
	s := &Store{
		tasks:     []domain.Task{},
		repo:      repo,
		key:       DefaultKey,
		clock:     clock.NewReal(),
		newID:     uuid.NewString,
		validator: validation.NewTaskValidator(),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open is New followed by Load.
func Open(ctx context.Context, repo repository.Repository, opts ...Option) *Store {
	s := New(repo, opts...)
	s.Load(ctx)
	return s
}

// SetHooks replaces the success callbacks.
func (s *Store) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

// Load replaces the in-memory list with the persisted one. An absent,
// unreadable or malformed record yields an empty list; the problem is
// logged and never returned.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, ok := s.readRecord(ctx)
	if !ok {
		tasks = []domain.Task{}
	}
	s.tasks = tasks
}

// Refresh picks up changes other processes saved since the last read.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
}

// refresh re-reads the record. Callers hold mu. The in-memory list is kept
// when the last save failed, since it is then ahead of storage, and when
// the record cannot be read.
func (s *Store) refresh(ctx context.Context) {
	if s.saveErr != nil {
		return
	}
	if tasks, ok := s.readRecord(ctx); ok {
		s.tasks = tasks
	}
}

// readRecord returns the persisted list. ok is false when the record
// exists but cannot be read or parsed.
func (s *Store) readRecord(ctx context.Context) (tasks []domain.Task, ok bool) {
	raw, found, err := s.repo.GetItem(ctx, s.key)
	if err != nil {
		s.logger.Warn("could not read saved tasks", "key", s.key, "err", err)
		return nil, false
	}
	if !found {
		return []domain.Task{}, true
	}

	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.logger.Warn("saved tasks are not valid JSON", "key", s.key, "err", err)
		return nil, false
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	logging.Debugf("loaded %d tasks from %q", len(tasks), s.key)
	return tasks, true
}

// save writes the full list. Callers hold mu. Failures are logged and
// remembered; the in-memory list keeps the mutation.
func (s *Store) save(ctx context.Context) {
	data, err := json.Marshal(s.tasks)
	if err == nil {
		err = s.repo.SetItem(ctx, s.key, string(data))
	}
	if err != nil {
		s.logger.Error("failed to save tasks", "key", s.key, "count", len(s.tasks), "err", err)
		s.saveErr = err
		return
	}
	s.saveErr = nil
}

// SaveErr returns the error from the most recent save, or nil if it
// succeeded.
func (s *Store) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Update re-reads the saved list, then applies fn to a copy of it. When fn
// reports a change its result becomes the list and is saved once. Update
// returns whether anything changed.
func (s *Store) Update(ctx context.Context, fn func([]domain.Task) ([]domain.Task, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh(ctx)
	next, changed := fn(domain.CloneTasks(s.tasks))
	if !changed {
		return false
	}
	if next == nil {
		next = []domain.Task{}
	}
	s.tasks = next
	s.save(ctx)
	return true
}

// Add appends a new incomplete task. Blank content or a missing due date
// is rejected with a *validation.ValidationError and nothing changes.
func (s *Store) Add(ctx context.Context, content, dueDate string) (domain.Task, error) {
	if err := s.validator.ValidateNewTask(content, dueDate); err != nil {
		return domain.Task{}, err
	}

	task := domain.NewTask(s.newID(), content, dueDate, s.clock.Now())
	s.Update(ctx, func(tasks []domain.Task) ([]domain.Task, bool) {
		return append(tasks, task), true
	})

	if hook := s.hookSet().OnAdd; hook != nil {
		hook(task.Clone())
	}
	return task, nil
}

// Toggle flips the completion flag of the task with id. It reports false
// and does nothing when id is unknown.
func (s *Store) Toggle(ctx context.Context, id string) (domain.Task, bool) {
	var toggled domain.Task
	found := s.Update(ctx, func(tasks []domain.Task) ([]domain.Task, bool) {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i] = tasks[i].Toggled()
				toggled = tasks[i].Clone()
				return tasks, true
			}
		}
		return tasks, false
	})
	if !found {
		return domain.Task{}, false
	}

	if hook := s.hookSet().OnToggle; hook != nil {
		hook(toggled)
	}
	return toggled, true
}

// Delete removes the task with id. It reports false when id is unknown.
// Confirmation is the caller's job.
func (s *Store) Delete(ctx context.Context, id string) bool {
	var removed domain.Task
	found := s.Update(ctx, func(tasks []domain.Task) ([]domain.Task, bool) {
		for i := range tasks {
			if tasks[i].ID == id {
				removed = tasks[i]
				return append(tasks[:i], tasks[i+1:]...), true
			}
		}
		return tasks, false
	})
	if !found {
		return false
	}

	if hook := s.hookSet().OnDelete; hook != nil {
		hook(removed)
	}
	return true
}

// ImportAll replaces the whole list with tasks. Any invalid element or
// duplicate id rejects the import and the current list is unchanged.
func (s *Store) ImportAll(ctx context.Context, tasks []domain.Task) error {
	if err := s.validator.ValidateTasks(tasks); err != nil {
		return err
	}

	imported := domain.CloneTasks(tasks)
	s.Update(ctx, func([]domain.Task) ([]domain.Task, bool) {
		return imported, true
	})

	if hook := s.hookSet().OnImport; hook != nil {
		hook(domain.CloneTasks(imported))
	}
	return nil
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneTasks(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return domain.Task{}, false
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Export renders the list as a two-space indented JSON array, the same
// shape as the saved record.
func (s *Store) Export() ([]byte, error) {
	return json.MarshalIndent(s.Tasks(), "", "  ")
}

func (s *Store) hookSet() Hooks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hooks
}
