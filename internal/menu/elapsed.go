package menu

import (
	"fmt"
	"time"
)

// NotLogged is the elapsed sentinel for types that have never been logged.
const NotLogged = "N/A"

// FormatElapsed renders the time since ts (Unix seconds) as the largest whole
// unit, e.g. "3 hours ago". Months are 30 days, years 365.
func FormatElapsed(now time.Time, ts int64) string {
	seconds := now.Unix() - ts
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	weeks := days / 7
	months := days / 30
	years := days / 365

	switch {
	case years > 0:
		return unitAgo(years, "year")
	case months > 0:
		return unitAgo(months, "month")
	case weeks > 0:
		return unitAgo(weeks, "week")
	case days > 0:
		return unitAgo(days, "day")
	case hours > 0:
		return unitAgo(hours, "hour")
	case minutes > 0:
		return unitAgo(minutes, "minute")
	default:
		return unitAgo(seconds, "second")
	}
}

func unitAgo(n int64, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
