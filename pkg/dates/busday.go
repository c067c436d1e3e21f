// Package dates implements business-day arithmetic and the literal date
// styles used by relative-date placeholders.
package dates

import (
	"strings"
	"time"
)

// HolidayFunc reports whether a date is a public holiday. The calendar is an
// external collaborator; a nil HolidayFunc means no holidays.
type HolidayFunc func(time.Time) bool

// AddBusinessDays returns the date n business days after start, advancing one
// calendar day at a time. A day counts only if it is not a Saturday, not a
// Sunday, and not a holiday. n == 0 returns start unchanged.
func AddBusinessDays(start time.Time, n int, isHoliday HolidayFunc) time.Time {
	d := start
	for added := 0; added < n; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if isHoliday != nil && isHoliday(d) {
			continue
		}
		added++
	}
	return d
}

// storedLayouts are accepted when parsing next-contact dates off stage
// records. Anything else is malformed and the caller declines.
var storedLayouts = []string{"2006-01-02", "2006/01/02", time.RFC3339}

// ParseStored parses a stored date string. Returns false for empty or
// malformed input.
func ParseStored(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range storedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
