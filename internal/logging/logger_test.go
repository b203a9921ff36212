package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("text"))
	assert.Equal(t, log.TextFormatter, ParseFormatter(""))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValidFormat("JSON"))
	assert.False(t, IsValidFormat("xml"))
	assert.True(t, IsValidLevel("warning"))
	assert.False(t, IsValidLevel("trace"))
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Setenv("TK_DEBUG", "")
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Format: "logfmt", Output: &buf})

	logger.Info("hidden")
	logger.Warn("storage write failed", "key", "tasks")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "storage write failed")
	assert.Contains(t, out, "key=tasks")
}

func TestNew_DebugOverride(t *testing.T) {
	t.Setenv("TK_DEBUG", "1")
	var buf bytes.Buffer
	logger := New(Options{Level: "error", Output: &buf})

	logger.Debug("tick")
	assert.Contains(t, buf.String(), "tick")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("nothing") })
}
