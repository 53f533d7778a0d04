package service

import (
	"fmt"
	"time"
)

const (
	ExpiredLabel     = "Expired"
	InvalidDateLabel = "Invalid date"
)

// Postgres renders timestamptz as RFC 3339 and plain timestamp without a zone.
var endTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// TimeRemaining renders the time left until endTime as "1h 30m", "1h" or
// "45m". It returns ExpiredLabel once now has reached endTime and
// InvalidDateLabel when endTime cannot be parsed.
func TimeRemaining(endTime string, now time.Time) string {
	end, ok := parseEndTime(endTime)
	if !ok {
		return InvalidDateLabel
	}
	return formatRemaining(end.Sub(now))
}

// TimeRemainingAt is TimeRemaining for an already parsed end time.
func TimeRemainingAt(end, now time.Time) string {
	return formatRemaining(end.Sub(now))
}

func formatRemaining(left time.Duration) string {
	if left <= 0 {
		return ExpiredLabel
	}
	hours := int(left / time.Hour)
	minutes := int((left % time.Hour) / time.Minute)
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func parseEndTime(raw string) (time.Time, bool) {
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
