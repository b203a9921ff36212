package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/clock"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/mood"
	"task-tracker/internal/notify"
	"task-tracker/internal/reminder"
	"task-tracker/internal/repository/memory"
	"task-tracker/internal/store"
	"task-tracker/internal/validation"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type apiFixture struct {
	api      TaskAPI
	store    *store.Store
	repo     *memory.Repository
	clock    *clock.Fake
	notifier *notify.Recorder
}

func setupTestTaskAPI(t *testing.T, ids ...string) *apiFixture {
	t.Helper()
	f := &apiFixture{
		repo:     memory.New(0),
		clock:    clock.NewFake(now),
		notifier: notify.NewRecorder(notify.PermissionGranted),
	}

	next := 0
	newID := func() string {
		if next < len(ids) {
			next++
			return ids[next-1]
		}
		next++
		return fmt.Sprintf("generated-%d", next)
	}

	f.store = store.New(f.repo, store.WithClock(f.clock), store.WithIDGenerator(newID))
	sweeper := reminder.NewSweeper(f.store, f.notifier, f.clock, reminder.DefaultOptions())
	f.api = New(f.store, sweeper, f.clock, Options{SuccessDuration: 3 * time.Second, Notifier: f.notifier})
	return f
}

func TestAddTask(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		due            string
		expectedDue    string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:        "should resolve relative shorthand against the clock",
			content:     "Write report",
			due:         "2h",
			expectedDue: "2024-05-10T14:00:00.000Z",
		},
		{
			name:        "should keep a zoned timestamp",
			content:     "Call bank",
			due:         "2024-05-11T09:00:00Z",
			expectedDue: "2024-05-11T09:00:00Z",
		},
		{
			name:    "should reject blank content",
			content: "   ",
			due:     "1d",
			errorAssertion: func(t *testing.T, err error) {
				ve, ok := validation.AsValidationError(err)
				require.True(t, ok)
				assert.NotEmpty(t, ve.GetFieldErrors("content"))
			},
		},
		{
			name:    "should reject an unrecognized due date",
			content: "Something",
			due:     "tomorrowish",
			errorAssertion: func(t *testing.T, err error) {
				ve, ok := validation.AsValidationError(err)
				require.True(t, ok)
				assert.NotEmpty(t, ve.GetFieldErrors("dueDate"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestTaskAPI(t, "task-1")

			task, err := f.api.AddTask(context.Background(), tt.content, tt.due)

			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, task)
				assert.Equal(t, 0, f.store.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "task-1", task.ID)
			assert.Equal(t, tt.content, task.Content)
			assert.Equal(t, tt.expectedDue, task.DueDate)
			assert.False(t, task.IsComplete)
			assert.Equal(t, "2024-05-10T12:00:00.000Z", task.CreatedAt)
		})
	}
}

func TestResolveID(t *testing.T) {
	f := setupTestTaskAPI(t, "aa11", "aa22", "bb33")
	ctx := context.Background()
	for _, c := range []string{"one", "two", "three"} {
		_, err := f.api.AddTask(ctx, c, "1d")
		require.NoError(t, err)
	}

	id, err := f.api.ResolveID(ctx, "aa22")
	require.NoError(t, err)
	assert.Equal(t, "aa22", id)

	id, err = f.api.ResolveID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "bb33", id)

	_, err = f.api.ResolveID(ctx, "aa")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Contains(t, err.Error(), "more than one task")

	_, err = f.api.ResolveID(ctx, "zz")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = f.api.ResolveID(ctx, " ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestToggleTask(t *testing.T) {
	f := setupTestTaskAPI(t, "abc")
	ctx := context.Background()
	_, err := f.api.AddTask(ctx, "Toggle me", "1d")
	require.NoError(t, err)

	task, err := f.api.ToggleTask(ctx, "ab")
	require.NoError(t, err)
	assert.True(t, task.IsComplete)

	task, err = f.api.ToggleTask(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, task.IsComplete)

	_, err = f.api.ToggleTask(ctx, "missing")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestDeleteTask(t *testing.T) {
	f := setupTestTaskAPI(t, "keep", "drop")
	ctx := context.Background()
	_, _ = f.api.AddTask(ctx, "Keep", "1d")
	_, _ = f.api.AddTask(ctx, "Drop", "1d")

	removed, err := f.api.DeleteTask(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, "Drop", removed.Content)

	tasks, err := f.api.ListTasks(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].ID)

	_, err = f.api.DeleteTask(ctx, "drop")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestListTasks(t *testing.T) {
	f := setupTestTaskAPI(t)
	ctx := context.Background()
	require.NoError(t, f.store.ImportAll(ctx, []domain.Task{
		{ID: "1", Content: "Late report", DueDate: "2024-05-12T00:00:00Z", CreatedAt: "x"},
		{ID: "2", Content: "Overdue call", DueDate: "2024-05-09T00:00:00Z", CreatedAt: "x"},
		{ID: "3", Content: "Done already", DueDate: "2024-05-08T00:00:00Z", CreatedAt: "x", IsComplete: true},
		{ID: "4", Content: "Weird date", DueDate: "someday", CreatedAt: "x"},
	}))

	tests := []struct {
		name        string
		filter      ListFilter
		expectedIDs []string
	}{
		{"all in insertion order", ListFilter{}, []string{"1", "2", "3", "4"}},
		{"pending only", ListFilter{Status: StatusPending}, []string{"1", "2", "4"}},
		{"done only", ListFilter{Status: StatusDone}, []string{"3"}},
		{"by due date with unparseable last", ListFilter{Sort: SortByDue}, []string{"3", "2", "1", "4"}},
		{"text filter is case insensitive", ListFilter{Text: "REPORT"}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := f.api.ListTasks(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(views))
			for _, v := range views {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}

	views, err := f.api.ListTasks(ctx, ListFilter{Status: StatusPending})
	require.NoError(t, err)
	assert.False(t, views[0].Overdue)
	assert.True(t, views[1].Overdue)
	assert.False(t, views[2].Overdue)

	_, err = f.api.ListTasks(ctx, ListFilter{Status: "archived"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	_, err = f.api.ListTasks(ctx, ListFilter{Sort: "name"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestGetBoard(t *testing.T) {
	f := setupTestTaskAPI(t)
	ctx := context.Background()
	require.NoError(t, f.store.ImportAll(ctx, []domain.Task{
		{ID: "1", Content: "a", DueDate: "2024-05-09T00:00:00Z", CreatedAt: "x"},
		{ID: "2", Content: "b", DueDate: "2024-05-09T00:00:00Z", CreatedAt: "x", IsComplete: true},
	}))
	f.clock.Advance(5 * time.Second)

	board, err := f.api.GetBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board.Pending, 1)
	require.Len(t, board.Completed, 1)
	assert.True(t, board.Pending[0].Overdue)
	assert.False(t, board.Completed[0].Overdue)
	assert.Equal(t, mood.KindOverdue, board.Mood.Kind)
}

func TestMood_CelebratesThenDecays(t *testing.T) {
	f := setupTestTaskAPI(t)
	ctx := context.Background()

	assert.Equal(t, mood.KindIdle, f.api.Mood(ctx).Kind)

	_, err := f.api.AddTask(ctx, "Celebrate", "1d")
	require.NoError(t, err)
	assert.Equal(t, mood.Celebrate(mood.MessageAdded), f.api.Mood(ctx))

	f.clock.Advance(3 * time.Second)
	assert.Equal(t, mood.Mood{Kind: mood.KindOnTrack, Message: "1 task remaining."}, f.api.Mood(ctx))
}

func TestExportTasks(t *testing.T) {
	f := setupTestTaskAPI(t, "only")
	ctx := context.Background()

	_, err := f.api.ExportTasks(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, "no tasks to export", errors.GetUserMessage(err))

	_, err = f.api.AddTask(ctx, "Export me", "2024-05-11T09:00:00Z")
	require.NoError(t, err)

	data, err := f.api.ExportTasks(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"only\"")
}

func TestImportTasks(t *testing.T) {
	f := setupTestTaskAPI(t, "original")
	ctx := context.Background()
	_, err := f.api.AddTask(ctx, "Original", "1d")
	require.NoError(t, err)

	_, err = f.api.ImportTasks(ctx, []byte("  "))
	assert.True(t, validation.IsValidationError(err))

	_, err = f.api.ImportTasks(ctx, []byte(`[{"id":"x","content":"","dueDate":"2024-05-11"}]`))
	assert.True(t, validation.IsValidationError(err))
	assert.Equal(t, 1, f.store.Len(), "a rejected import leaves the list unchanged")

	count, err := f.api.ImportTasks(ctx, []byte(`[
		{"id":"a","content":"First","dueDate":"2024-05-11T09:00","createdAt":"2024-05-01T00:00:00.000Z","isComplete":false},
		{"id":"b","content":"Second","dueDate":"2024-05-12T09:00","createdAt":"2024-05-01T00:00:00.000Z","isComplete":true}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	tasks, err := f.api.ListTasks(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, mood.Celebrate(mood.MessageImported), f.api.Mood(ctx))
}

func TestParseImportThenReplace(t *testing.T) {
	f := setupTestTaskAPI(t, "original")
	ctx := context.Background()
	_, err := f.api.AddTask(ctx, "Original", "1d")
	require.NoError(t, err)

	_, err = f.api.ParseImport(ctx, []byte(`[{"id":"x","content":"No due date"}]`))
	assert.True(t, validation.IsValidationError(err))

	tasks, err := f.api.ParseImport(ctx, []byte(`[{"id":"a","content":"First","dueDate":"2024-05-11T09:00"}]`))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, f.store.Len(), "parsing alone leaves the list unchanged")

	count, err := f.api.ReplaceTasks(ctx, tasks)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	got, ok := f.store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "First", got.Content)
}

func TestGetBoard_ShowsTasksSavedElsewhere(t *testing.T) {
	f := setupTestTaskAPI(t, "mine")
	ctx := context.Background()
	_, err := f.api.AddTask(ctx, "Mine", "1d")
	require.NoError(t, err)

	other := store.Open(ctx, f.repo, store.WithClock(f.clock))
	_, err = other.Add(ctx, "From another process", "2024-05-12T09:00")
	require.NoError(t, err)

	board, err := f.api.GetBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board.Pending, 2)
	assert.Equal(t, "From another process", board.Pending[1].Content)
}

func TestSweep(t *testing.T) {
	f := setupTestTaskAPI(t, "soon")
	ctx := context.Background()
	_, err := f.api.AddTask(ctx, "Due soon", "2m")
	require.NoError(t, err)

	assert.Equal(t, 1, f.api.Sweep(ctx))
	assert.Equal(t, 0, f.api.Sweep(ctx), "the pre-deadline reminder fires once")

	messages := f.notifier.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "Deadline approaching: Due soon", messages[0].Title)
}

func TestNotificationPermission(t *testing.T) {
	f := setupTestTaskAPI(t)
	ctx := context.Background()

	assert.Equal(t, notify.PermissionGranted, f.api.NotificationPermission(ctx))
	f.api.Sweep(ctx)
	assert.Equal(t, 2, f.notifier.Requests())

	withoutNotifier := New(f.store, reminder.NewSweeper(f.store, nil, f.clock, reminder.DefaultOptions()), f.clock, Options{})
	assert.Equal(t, notify.PermissionDenied, withoutNotifier.NotificationPermission(ctx))
}

func TestStartReminders(t *testing.T) {
	f := setupTestTaskAPI(t)

	stop := f.api.StartReminders(context.Background())
	assert.Eventually(t, func() bool { return f.clock.Tickers() == 1 }, time.Second, 5*time.Millisecond)

	stop()
	assert.Equal(t, 0, f.clock.Tickers())
}

func TestSaveError(t *testing.T) {
	f := setupTestTaskAPI(t)
	ctx := context.Background()
	assert.NoError(t, f.api.SaveError())

	f.repo.FailWrites(fmt.Errorf("disk full"))
	task, err := f.api.AddTask(ctx, "Kept in memory", "1d")
	require.NoError(t, err)
	assert.NotNil(t, task)
	assert.True(t, errors.IsErrorType(f.api.SaveError(), errors.ErrorTypeStorage))
}
