// Package temporal parses the timestamp shapes produced by the
// ticketing platform and extracts event dates embedded in free-text
// event titles.
package temporal

import (
	"strings"
	"time"
)

// The platform emits exactly two machine-generated timestamp shapes.
// Anything else is a malformed row; there is no fuzzy fallback.
var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a purchase or scan timestamp. The second
// return value is false when the string matches neither supported
// shape; callers drop the row.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsSentinel reports whether a scan/registration date is the
// platform's epoch-zero placeholder for "no scan occurred". This is a
// value, not a parse failure: the record stays, with attended=false.
func IsSentinel(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "01/01/1970") || strings.HasPrefix(s, "0000") {
		return true
	}
	return s == "1970-01-01" || s == "0000-00-00 00:00:00"
}

// ParseScanDate parses a scan timestamp, mapping sentinel values to
// nil. The second return value is false only on a genuinely
// malformed, non-sentinel string.
func ParseScanDate(s string) (*time.Time, bool) {
	if IsSentinel(s) {
		return nil, true
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return nil, false
	}
	return &t, true
}

// ParseBirthDate parses a birth date in the same two shapes,
// additionally rejecting any year at or before 1970 as unset.
func ParseBirthDate(s string) (time.Time, bool) {
	t, ok := ParseTimestamp(s)
	if !ok {
		// Birth dates sometimes arrive date-only.
		s = strings.TrimSpace(s)
		for _, layout := range []string{"02/01/2006", "2006-01-02"} {
			if d, err := time.Parse(layout, s); err == nil {
				t, ok = d, true
				break
			}
		}
	}
	if !ok || t.Year() <= 1970 {
		return time.Time{}, false
	}
	return t, true
}

// DaysBefore returns max(0, floor((eventDate-purchase)/24h)), with
// the purchase timestamp truncated to its calendar date first so a
// late-evening purchase still counts the full day. The clamp is a
// policy: a purchase after the inferred event date may mean a wrong
// no-year extraction rather than a late purchase, so callers count
// clamped records instead of trusting a negative offset.
func DaysBefore(eventDate, purchase time.Time) int {
	d := rawDays(eventDate, purchase)
	if d < 0 {
		return 0
	}
	return d
}

// IsClamped reports whether DaysBefore clamped: the purchase calendar
// date falls after the event date.
func IsClamped(eventDate, purchase time.Time) bool {
	return rawDays(eventDate, purchase) < 0
}

func rawDays(eventDate, purchase time.Time) int {
	pd := time.Date(purchase.Year(), purchase.Month(), purchase.Day(), 0, 0, 0, 0, eventDate.Location())
	ed := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, eventDate.Location())
	return int(ed.Sub(pd).Hours() / 24)
}
