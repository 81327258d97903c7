package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in order; layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp reads RFC 3339 and zone-less ISO 8601 timestamps.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// looseTime decodes like Date: anything unreadable becomes the zero time.
type looseTime time.Time

func (t *looseTime) UnmarshalJSON(data []byte) error {
	*t = looseTime{}
	var s string
	if err := json.Unmarshal(bytes.TrimSpace(data), &s); err != nil {
		return nil
	}
	if parsed, ok := ParseTimestamp(s); ok {
		*t = looseTime(parsed)
	}
	return nil
}
