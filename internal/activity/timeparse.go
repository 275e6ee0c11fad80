package activity

import (
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999-07",
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp reads an ISO-8601 or Postgres text timestamp. Empty and
// "null" input mean no activity and return nil without error.
func ParseTimestamp(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "null") {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			v := ts.UTC()
			return &v, nil
		}
	}
	for _, layout := range zonelessLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			v := ts.UTC()
			return &v, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp: %s", value)
}

// LastActivityLabel renders the short dashboard caption for a line.
func LastActivityLabel(lastActivityAt *time.Time, now time.Time) string {
	if lastActivityAt == nil {
		return messageUnknown
	}
	elapsed := now.Sub(*lastActivityAt)
	switch {
	case elapsed < time.Minute:
		return "Last activity: just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("Last activity: %dm ago", int(elapsed/time.Minute))
	case elapsed < 48*time.Hour:
		return fmt.Sprintf("Last activity: %dh ago", int(elapsed/time.Hour))
	default:
		return fmt.Sprintf("Last activity: %dd ago", int(elapsed/(24*time.Hour)))
	}
}
