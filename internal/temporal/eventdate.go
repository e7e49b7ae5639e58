package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SeasonPolicy assigns a year to a day+month extracted from an event
// title that carries no year. The venue's season spans two calendar
// years, so a bare "15 marzo" seen in October belongs to the next
// calendar year while "15 novembre" belongs to the current one. The
// policy is a value so deployments with a different calendar can swap
// the cutoff.
type SeasonPolicy struct {
	Cutoff time.Month
}

// DefaultSeason is the venue's September-to-August season.
var DefaultSeason = SeasonPolicy{Cutoff: time.September}

// YearFor returns the calendar year for an event in month m, given the
// current time. Months at or after the cutoff fall in the season's
// starting year, the rest in the following year.
func (p SeasonPolicy) YearFor(m time.Month, now time.Time) int {
	start := now.Year()
	if now.Month() < p.Cutoff {
		start--
	}
	if m >= p.Cutoff {
		return start
	}
	return start + 1
}

var italianMonths = map[string]time.Month{
	"gennaio":   time.January,
	"febbraio":  time.February,
	"marzo":     time.March,
	"aprile":    time.April,
	"maggio":    time.May,
	"giugno":    time.June,
	"luglio":    time.July,
	"agosto":    time.August,
	"settembre": time.September,
	"ottobre":   time.October,
	"novembre":  time.November,
	"dicembre":  time.December,
}

const monthAlt = `gennaio|febbraio|marzo|aprile|maggio|giugno|luglio|agosto|settembre|ottobre|novembre|dicembre`

var (
	reDotFull    = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})`)
	reMonthYear  = regexp.MustCompile(`(?i)(\d{1,2})\s+(` + monthAlt + `)\s*,?\s*(\d{4})`)
	reMonthBare  = regexp.MustCompile(`(?i)(\d{1,2})\s+(` + monthAlt + `)`)
	reDotBare    = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})`)
	reWeekday    = regexp.MustCompile(`(?i)\b(luned[iì]|marted[iì]|mercoled[iì]|gioved[iì]|venerd[iì]|sabato|domenica)\b`)
	reEdgeSpaces = regexp.MustCompile(`^[\s\-–|,]+|[\s\-–|,]+$`)
)

// ExtractEventDate pulls an event calendar date out of a free-text
// title. Patterns are tried in fixed order: DD.MM.YY[YY], then
// "DD <month> YYYY", then "DD <month>" and "DD.MM" with the season
// policy supplying the year. Returns nil when nothing matches; the
// record then has no days-before axis but is otherwise kept.
func ExtractEventDate(raw string, season SeasonPolicy, now time.Time) *time.Time {
	if m := reDotFull.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if d, ok := validDate(year, time.Month(month), day); ok {
			return &d
		}
	}
	if m := reMonthYear.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if d, ok := validDate(year, italianMonths[strings.ToLower(m[2])], day); ok {
			return &d
		}
	}
	if m := reMonthBare.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := italianMonths[strings.ToLower(m[2])]
		if d, ok := validDate(season.YearFor(month, now), month, day); ok {
			return &d
		}
	}
	if m := reDotBare.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			if d, ok := validDate(season.YearFor(time.Month(month), now), time.Month(month), day); ok {
				return &d
			}
		}
	}
	return nil
}

// validDate builds a UTC date and rejects overflow (e.g. 31.02 rolling
// into March).
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

// StripDatePhrase removes leading/trailing date decoration from an
// event title: weekday names, DD.MM.YY[YY] prefixes, and
// "DD <month>[ YYYY]" phrases. Used by the resolver's fallback so
// "sabato 01.11.25 besame" can still match a known brand name.
func StripDatePhrase(name string) string {
	s := reWeekday.ReplaceAllString(name, " ")
	s = reMonthYear.ReplaceAllString(s, " ")
	s = reMonthBare.ReplaceAllString(s, " ")
	s = reDotFull.ReplaceAllString(s, " ")
	s = reDotBare.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = reEdgeSpaces.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
