package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"rfc3339 utc", "2024-06-01T10:00:00Z", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 millis", "2024-06-01T10:00:00.250Z", time.Date(2024, 6, 1, 10, 0, 0, 250000000, time.UTC)},
		{"rfc3339 offset", "2024-06-01T12:00:00+02:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"datetime-local", "2024-06-01T10:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)},
		{"datetime-local seconds", "2024-06-01T10:00:30", time.Date(2024, 6, 1, 10, 0, 30, 0, time.Local)},
		{"space separated", "2024-06-01 10:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)},
		{"date only", "2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
		{"surrounding whitespace", "  2024-06-01T10:00:00Z ", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %v, want %v", got, tt.expected)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "tomorrow", "2024-13-01", "01/06/2024"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 5000000, time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, "2024-06-01T10:00:00.005Z", FormatTimestamp(at))
}

func TestNormalizeTimestamp(t *testing.T) {
	got, err := NormalizeTimestamp("2024-06-01T10:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T10:00:00Z", got)

	_, err = NormalizeTimestamp("nope")
	assert.Error(t, err)
}
