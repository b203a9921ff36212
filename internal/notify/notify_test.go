package notify

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailable(t *testing.T) {
	var n Notifier = Unavailable{}

	assert.Equal(t, PermissionDenied, n.Permission())
	assert.Equal(t, PermissionDenied, n.RequestPermission(context.Background()))
	assert.NoError(t, n.Notify(context.Background(), "title", "body"))
}

func TestLog_WritesNotification(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel, Formatter: log.LogfmtFormatter})

	n := NewLog(logger)
	require.NoError(t, n.Notify(context.Background(), "Overdue: report", "Due: 2024-01-01 09:00"))

	assert.Equal(t, PermissionGranted, n.Permission())
	assert.Contains(t, buf.String(), "Overdue: report")
	assert.Contains(t, buf.String(), "Due: 2024-01-01 09:00")
}

func TestGate_RequestsOnce(t *testing.T) {
	ctx := context.Background()
	inner := NewRecorder(PermissionGranted)
	gate := NewGate(inner)

	assert.Equal(t, PermissionDefault, gate.Permission())
	require.NoError(t, gate.Notify(ctx, "before", "grant"))
	assert.Empty(t, inner.Messages(), "nothing is delivered before permission is granted")

	assert.Equal(t, PermissionGranted, gate.RequestPermission(ctx))
	assert.Equal(t, PermissionGranted, gate.RequestPermission(ctx))
	assert.Equal(t, 1, inner.Requests())

	require.NoError(t, gate.Notify(ctx, "title", "body"))
	assert.Equal(t, []Message{{Title: "title", Body: "body"}}, inner.Messages())
}

func TestGate_DenialIsFinal(t *testing.T) {
	ctx := context.Background()
	inner := NewRecorder(PermissionDenied)
	gate := NewGate(inner)

	assert.Equal(t, PermissionDenied, gate.RequestPermission(ctx))
	assert.Equal(t, PermissionDenied, gate.RequestPermission(ctx))
	assert.Equal(t, 1, inner.Requests())

	require.NoError(t, gate.Notify(ctx, "title", "body"))
	assert.Empty(t, inner.Messages())
}

func TestGate_LogsSkippedNotifications(t *testing.T) {
	var logs bytes.Buffer
	gate := NewGate(Unavailable{}).WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel}))

	require.NoError(t, gate.Notify(context.Background(), "Overdue: report", "Due: today"))
	assert.Contains(t, logs.String(), "notification skipped")
	assert.Contains(t, logs.String(), "notifications is not available")
}

func TestGate_PassesThroughDeliveryErrors(t *testing.T) {
	ctx := context.Background()
	inner := NewRecorder(PermissionGranted)
	inner.FailWith(stderrors.New("host refused"))
	gate := NewGate(inner)
	gate.RequestPermission(ctx)

	assert.Error(t, gate.Notify(ctx, "title", "body"))
}

func TestPermission_String(t *testing.T) {
	assert.Equal(t, "default", PermissionDefault.String())
	assert.Equal(t, "granted", PermissionGranted.String())
	assert.Equal(t, "denied", PermissionDenied.String())
}
