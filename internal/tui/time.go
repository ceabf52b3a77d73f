package tui

import (
	"fmt"
	"time"

	"github.com/mrz1836/relock/internal/clock"
)

// RelativeTimeWith formats t relative to the reading of c.
// Examples: "just now", "12 seconds ago", "1 minute ago", "3 hours ago", "2 days ago".
// Lock holders are usually short-lived, so seconds are reported.
func RelativeTimeWith(t time.Time, c clock.Clock) string {
	diff := c.Now().Sub(t)

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return plural(int(diff.Seconds()), "second")
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	default:
		return plural(int(diff.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
