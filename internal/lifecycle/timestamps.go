package lifecycle

import (
	"strings"
	"time"

	models "github.com/nivschuman/ElectionLifecycle/internal/models"
)

// Layouts accepted for schedule times. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func ParseTimestamp(field string, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, models.NewValidationError(field, "%s is required", field)
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, models.NewValidationError(field, "%s %q is not a valid date and time", field, value)
}

// ParseSchedule validates a start and end pair, end must be strictly after start.
func ParseSchedule(startTime string, endTime string) (time.Time, time.Time, error) {
	start, err := ParseTimestamp("start_time", startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := ParseTimestamp("end_time", endTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, models.NewValidationError("end_time", "end_time must be after start_time")
	}

	return start, end, nil
}
