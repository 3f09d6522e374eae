package timemodel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/capacity-planner/pkg/errs"
)

func TestParseTimestamp_Valid(t *testing.T) {
	z := paris(t)
	loc := z.Location()

	tests := []struct {
		value string
		want  time.Time
	}{
		{"2025-12-20", time.Date(2025, 12, 20, 0, 0, 0, 0, loc)},
		{"2025-12-20T14:30", time.Date(2025, 12, 20, 14, 30, 0, 0, loc)},
		{"2025-12-20T14:30:00", time.Date(2025, 12, 20, 14, 30, 0, 0, loc)},
		{"2025-12-20 14:30:15", time.Date(2025, 12, 20, 14, 30, 15, 0, loc)},
		{"2025-12-20T14:30:00.250", time.Date(2025, 12, 20, 14, 30, 0, 250_000_000, loc)},
		{"2025-12-20T13:30:00Z", time.Date(2025, 12, 20, 14, 30, 0, 0, loc)},
		{"2025-12-20T16:30:00+03:00", time.Date(2025, 12, 20, 14, 30, 0, 0, loc)},
		{"2025-12-20T08:30:00-05:00", time.Date(2025, 12, 20, 14, 30, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := z.ParseTimestamp("deadline", tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	z := paris(t)

	tests := []struct {
		value  string
		reason string
	}{
		{"2025-12-20T24:00:00", "hour 24"},
		{"2025-12-20T23:60:00", "minute 60"},
		{"2025-12-20T23:59:60", "second 60"},
		{"2025-13-20T10:00:00", "month 13"},
		{"2025-02-30T10:00:00", "day 30"},
		{"2025-12-20T10:00:00+24:00", "offset"},
		{"2025-12-20T1:00", "expected"},
		{"20/12/2025 10:00", "expected"},
		{"2025-12-20T10:00:00Zjunk", "expected"},
		{"", "expected"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := z.ParseTimestamp("deadline", tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrMalformedInput))
			assert.Contains(t, err.Error(), "deadline")
			assert.Contains(t, err.Error(), tt.reason)

			var malformed *errs.MalformedInputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.value, malformed.Value)
		})
	}
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	z := paris(t)

	instants := []time.Time{
		time.Date(2025, 12, 20, 13, 30, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC),
		// Both occurrences of 02:30 on the fall-back day
		time.Date(2025, 10, 26, 0, 30, 0, 0, time.UTC),
		time.Date(2025, 10, 26, 1, 30, 0, 0, time.UTC),
		// Straddling the spring-forward gap
		time.Date(2025, 3, 30, 0, 59, 59, 0, time.UTC),
		time.Date(2025, 3, 30, 1, 0, 0, 0, time.UTC),
	}

	for _, instant := range instants {
		text := z.FormatTimestamp(instant)
		back, err := z.ParseTimestamp("at", text)
		require.NoError(t, err)
		assert.True(t, instant.Equal(back), "%s -> %s -> %s", instant, text, back)
		assert.Equal(t, text, z.FormatTimestamp(back))
	}

	assert.Equal(t, "2025-12-20T14:30:00+01:00", z.FormatTimestamp(time.Date(2025, 12, 20, 13, 30, 0, 0, time.UTC)))
}
