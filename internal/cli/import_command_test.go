package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-tracker/internal/errors"
	"task-tracker/internal/mood"
	"task-tracker/internal/validation"
)

const importPayload = `[
  {"id": "new-1", "content": "Imported one", "dueDate": "2024-06-01T09:00", "createdAt": "2024-05-01T00:00:00.000Z", "isComplete": false},
  {"id": "new-2", "content": "Imported two", "dueDate": "2024-06-02T09:00", "createdAt": "2024-05-01T00:00:00.000Z", "isComplete": true}
]`

func writePayload(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))
	return path
}

func TestImportCommand_FromFileIntoEmptyList(t *testing.T) {
	ta := setupTestApp(t, "")

	require.NoError(t, NewImportCommand(ta.app).Execute(context.Background(), []string{writePayload(t, importPayload)}))

	tasks := ta.store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "new-1", tasks[0].ID)
	assert.Equal(t, "Imported 2 tasks.\n"+mood.MessageImported+"\n", ta.out.String())
}

func TestImportCommand_FromStdin(t *testing.T) {
	ta := setupTestApp(t, importPayload)

	require.NoError(t, NewImportCommand(ta.app).Execute(context.Background(), []string{"-"}))

	assert.Equal(t, 2, ta.store.Len())
}

func TestImportCommand_ReplacingNeedsConfirmation(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		yes         bool
		expectCount int
		expectOut   string
	}{
		{"confirmed", "y\n", false, 2, "Replace all 3 current tasks? [y/N]: Imported 2 tasks."},
		{"declined", "n\n", false, 3, "Import cancelled."},
		{"--yes", "", true, 2, "Imported 2 tasks."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupTestApp(t, tt.input)
			ta.seed(t, sampleTasks()...)

			cmd := NewImportCommand(ta.app)
			cmd.Yes = tt.yes
			require.NoError(t, cmd.Execute(context.Background(), []string{writePayload(t, importPayload)}))

			assert.Equal(t, tt.expectCount, ta.store.Len())
			assert.Contains(t, ta.out.String(), tt.expectOut)
		})
	}
}

func TestImportCommand_StdinReplaceRequiresYes(t *testing.T) {
	ta := setupTestApp(t, importPayload)
	ta.seed(t, sampleTasks()...)

	err := NewImportCommand(ta.app).Execute(context.Background(), nil)

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	assert.Equal(t, 3, ta.store.Len())
}

func TestImportCommand_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"blank", "   \n"},
		{"not JSON", "{oops"},
		{"not an array", `{"id": "x"}`},
		{"missing content", `[{"id": "x", "dueDate": "2024-06-01"}]`},
		{"duplicate ids", `[{"id": "x", "content": "a", "dueDate": "2024-06-01"}, {"id": "x", "content": "b", "dueDate": "2024-06-01"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupTestApp(t, "")
			ta.seed(t, sampleTasks()...)

			cmd := NewImportCommand(ta.app)
			cmd.Yes = true
			err := cmd.Execute(context.Background(), []string{writePayload(t, tt.payload)})

			assert.True(t, validation.IsValidationError(err), "got %v", err)
			assert.Equal(t, sampleTasks(), ta.store.Tasks())
		})
	}
}

func TestImportCommand_InvalidPayloadRejectedBeforePrompt(t *testing.T) {
	ta := setupTestApp(t, "y\n")
	ta.seed(t, sampleTasks()...)

	err := NewImportCommand(ta.app).Execute(context.Background(), []string{writePayload(t, `[{"id": "x", "content": "a"}]`)})

	assert.True(t, validation.IsValidationError(err), "got %v", err)
	assert.NotContains(t, ta.out.String(), "Replace all")
	assert.Equal(t, sampleTasks(), ta.store.Tasks())
}

func TestImportCommand_MissingFile(t *testing.T) {
	ta := setupTestApp(t, "")

	err := NewImportCommand(ta.app).Execute(context.Background(), []string{filepath.Join(t.TempDir(), "absent.json")})

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}
