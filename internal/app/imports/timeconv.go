package imports

import (
	"fmt"
	"strings"
	"time"
)

// setTimeLayouts are the local-time formats accepted in CSV time columns.
// Date-less times are rejected; a set needs a full timestamp.
var setTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LocalTimeToUTC interprets a local-time string in the named IANA timezone
// and converts it to UTC. Blank input stays absent (nil, nil).
func LocalTimeToUTC(value, timezone string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", timezone)
	}

	for _, layout := range setTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}

	return nil, fmt.Errorf("unrecognized time %q", value)
}
