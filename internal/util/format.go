package util

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatSeconds renders a whole-second duration as 1h 2m 3s, omitting
// leading zero units.
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatDuration renders a time.Duration with second precision.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(int64(d.Seconds()))
}

// FormatTimestamp renders a timestamp for table output in the configured
// timezone.
func FormatTimestamp(t time.Time) string {
	return GetTimeProvider().Format(t, "2006-01-02 15:04:05")
}

// DisplayWidth calculates the actual display width of a string, accounting
// for wide runes (window titles routinely contain CJK text and emoji).
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateDisplay shortens text so its display width fits within max,
// appending an ellipsis when truncation happens.
func TruncateDisplay(text string, max int) string {
	if max <= 0 || runewidth.StringWidth(text) <= max {
		return text
	}
	if max <= 1 {
		return runewidth.Truncate(text, max, "")
	}
	return runewidth.Truncate(text, max, "…")
}

// PadDisplay right-pads text with spaces up to the given display width.
func PadDisplay(text string, width int) string {
	return text + spaces(width-runewidth.StringWidth(text))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
