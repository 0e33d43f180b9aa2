package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestActivityFormatterRelativeLabels(t *testing.T) {
	formatter := NewActivityFormatter(fixedClock, time.UTC)

	cases := map[string]string{
		"2024-03-15T11:30:00Z":      "30 min ago",
		"2024-03-15T09:00:00Z":      "3h ago",
		"2024-03-14T10:00:00Z":      "Yesterday",
		"2024-03-10T12:00:00Z":      "5 days ago",
		"2024-03-08T12:00:00Z":      "7 days ago",
		"2024-03-01T12:00:00Z":      "2 weeks ago",
		"2024-01-01T00:00:00Z":      LabelLongAgo,
		"2024-03-15T13:00:00Z":      "0 min ago",
		"2024-03-15T11:00:00":       "1h ago",
		"2024-03-15 11:15:00":       "45 min ago",
		"2024/03/15 10:00:00":       "2h ago",
		"2024-03-15T12:00:00+02:00": "2h ago",
	}
	for raw, expected := range cases {
		require.Equal(t, expected, formatter.RelativeLabel(raw), raw)
	}
}

func TestActivityFormatterUnreadableTimestamp(t *testing.T) {
	formatter := NewActivityFormatter(fixedClock, time.UTC)

	for _, raw := range []string{"not-a-date", "", "   ", "0", "1", "23", "12:30", "15:04:05", "2024"} {
		require.Equal(t, LabelRecently, formatter.RelativeLabel(raw), raw)
		require.Equal(t, LabelUnavailable, formatter.AbsoluteLabel(raw), raw)

		activity := formatter.Describe(raw)
		require.False(t, activity.Known)
		require.True(t, activity.At.IsZero())
	}
}

func TestActivityFormatterAbsoluteLabelUsesLocation(t *testing.T) {
	formatter := NewActivityFormatter(fixedClock, time.FixedZone("CET", 3600))
	require.Equal(t, "15/03/2024 12:30", formatter.AbsoluteLabel("2024-03-15T11:30:00Z"))
	require.Equal(t, "15/03/2024 11:30", formatter.AbsoluteLabel("2024-03-15T11:30:00"))
}

func TestActivityFormatterDependsOnClock(t *testing.T) {
	current := fixedNow
	formatter := NewActivityFormatter(func() time.Time { return current }, time.UTC)

	require.Equal(t, "30 min ago", formatter.RelativeLabel("2024-03-15T11:30:00Z"))
	current = current.Add(3 * time.Hour)
	require.Equal(t, "3h ago", formatter.RelativeLabel("2024-03-15T11:30:00Z"))
}

func TestIsDegradedLabel(t *testing.T) {
	require.True(t, IsDegradedLabel(LabelRecently))
	require.True(t, IsDegradedLabel(LabelLongAgo))
	require.False(t, IsDegradedLabel("Yesterday"))
	require.False(t, IsDegradedLabel("5 min ago"))
}
