package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-tracker/internal/api"
	"task-tracker/internal/clock"
	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/notify"
	"task-tracker/internal/reminder"
	"task-tracker/internal/repository/memory"
	"task-tracker/internal/store"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app      *App
	api      api.TaskAPI
	cfg      *config.Config
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	store    *store.Store
	repo     *memory.Repository
	clock    *clock.Fake
	notifier *notify.Recorder
}

// setupTestApp builds an App over an in-memory store. input is what the
// user types at prompts. ids are handed out to new tasks in order.
func setupTestApp(t *testing.T, input string, ids ...string) *testApp {
	t.Helper()
	ta := &testApp{
		cfg:      config.NewConfig(),
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		repo:     memory.New(0),
		clock:    clock.NewFake(now),
		notifier: notify.NewRecorder(notify.PermissionGranted),
	}

	next := 0
	newID := func() string {
		next++
		if next <= len(ids) {
			return ids[next-1]
		}
		return fmt.Sprintf("generated-%d", next)
	}

	ta.store = store.New(ta.repo, store.WithClock(ta.clock), store.WithIDGenerator(newID))
	sweeper := reminder.NewSweeper(ta.store, ta.notifier, ta.clock, reminder.DefaultOptions())
	ta.api = api.New(ta.store, sweeper, ta.clock, api.Options{Notifier: ta.notifier})
	ta.app = NewAppWithIO(ta.api, ta.cfg, strings.NewReader(input), ta.out, ta.errOut)
	return ta
}

// seed replaces the list and lets the import celebration expire.
func (ta *testApp) seed(t *testing.T, tasks ...domain.Task) {
	t.Helper()
	require.NoError(t, ta.store.ImportAll(context.Background(), tasks))
	ta.clock.Advance(time.Minute)
}

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "11111111-aaaa", Content: "Write report", DueDate: "2024-05-11T09:00:00Z", CreatedAt: "2024-05-01T00:00:00.000Z"},
		{ID: "22222222-bbbb", Content: "Call bank", DueDate: "2024-05-09T09:00:00Z", CreatedAt: "2024-05-01T00:00:00.000Z"},
		{ID: "33333333-cccc", Content: "Buy milk", DueDate: "2024-05-08T09:00:00Z", CreatedAt: "2024-05-01T00:00:00.000Z", IsComplete: true},
	}
}
