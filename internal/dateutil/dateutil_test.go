package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocal(t *testing.T) {
	got, err := ParseLocal("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 10, got.Day())
	assert.Equal(t, 0, got.Hour())
	// Local-zone parsing keeps the calendar day stable across zones.
	assert.Equal(t, time.Local, got.Location())

	_, err = ParseLocal("10.01.2025")
	assert.Error(t, err)
}

func TestSpanEnd(t *testing.T) {
	tests := []struct {
		name  string
		start string
		days  int
		want  string
	}{
		{"five days inclusive", "2025-01-10", 5, "2025-01-14"},
		{"one day is the start day", "2025-01-10", 1, "2025-01-10"},
		{"zero clamps to one", "2025-01-10", 0, "2025-01-10"},
		{"negative clamps to one", "2025-01-10", -3, "2025-01-10"},
		{"crosses month boundary", "2025-01-30", 5, "2025-02-03"},
		{"crosses year boundary", "2025-12-30", 4, "2026-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpanEnd(tt.start, tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDayMonth(t *testing.T) {
	assert.Equal(t, "01.03", DayMonth("2025-03-01"))
	assert.Equal(t, "14.12", DayMonth("2024-12-14"))
	// Unparsable input passes through for display rather than erroring.
	assert.Equal(t, "garbage", DayMonth("garbage"))
}

func TestBefore(t *testing.T) {
	assert.True(t, Before("2025-03-01", "2025-03-02"))
	assert.False(t, Before("2025-03-02", "2025-03-02"))
	assert.False(t, Before("2025-03-03", "2025-03-02"))
	assert.False(t, Before("bad", "2025-03-02"))
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2025-02-27", 2)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", got)
}

func TestToday(t *testing.T) {
	got := Today()
	parsed, err := ParseLocal(got)
	require.NoError(t, err)
	assert.Equal(t, got, Format(parsed))
}
