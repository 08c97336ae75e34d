package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate reads the date formats the API accepts: a plain YYYY-MM-DD day
// or a full RFC 3339 timestamp. Empty input yields the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayout, value)
}
