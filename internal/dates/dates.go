// Package dates turns the free-text due-date strings scraped from
// Google Classroom and Jupiter Ed into concrete timestamps. The input
// is whatever a teacher typed into a web form, so parsing is heuristic
// and a failure is an expected outcome, not an error.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Direction controls how a bare weekday name ("Friday") is resolved.
// Assigned work is due on the next occurrence of the weekday; missing
// work was due on the most recent one.
type Direction int

const (
	Future Direction = iota
	Past
)

const (
	// DefaultYearFloor is the earliest year accepted from a parsed date
	// before the year-correction heuristic kicks in.
	DefaultYearFloor = 2020

	// DefaultYearWindowMonths is the window used when correcting an
	// implausible year: a candidate more than this many months in the
	// past rolls forward a year, more than this many in the future
	// rolls back.
	DefaultYearWindowMonths = 6
)

// skipPhrases mark strings that are not dates at all.
var skipPhrases = []string{"posted", "no due date", "unknown"}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

// dateNumberRe matches numeric fragments that indicate an explicit
// calendar date (10/22, "22nd,", a 4-digit year), which disqualifies a
// string from weekday-only handling.
var dateNumberRe = regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}|\b\d{1,2}\s*(st|nd|rd|th)?\s*,|\b\d{4}\b`)

// timeOnlyRe matches bare clock times like "11:59 PM".
var timeOnlyRe = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(am|pm)$`)

// explicit layouts tried before the general parser; these cover the
// no-year forms Classroom renders that dateparse rejects.
var layouts = []string{
	"Jan 2, 2006, 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2, 3:04 PM",
	"January 2, 3:04 PM",
	"Jan 2",
	"January 2",
	"Monday, January 2",
	"Monday, Jan 2",
	"1/2/2006",
	"1/2/06",
	"1/2",
	"2006-01-02",
}

// Normalizer parses raw due-date strings against a reference clock.
// The zero value is not usable; construct with New.
type Normalizer struct {
	YearFloor        int
	YearWindowMonths int
	Direction        Direction

	now func() time.Time
}

// New returns a Normalizer with the default heuristics.
func New() *Normalizer {
	return &Normalizer{
		YearFloor:        DefaultYearFloor,
		YearWindowMonths: DefaultYearWindowMonths,
		Direction:        Future,
		now:              time.Now,
	}
}

// WithClock returns a copy of the normalizer pinned to a fixed clock.
// Used by tests and by callers that need reproducible runs.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	c := *n
	c.now = now
	return &c
}

// Parse resolves a raw due-date string to an instant. The boolean is
// false when the string carries no usable date; that outcome is normal
// and Parse never returns an error or panics.
//
// Output always carries a time-of-day, defaulting to midnight local
// time when the source string had none.
func (n *Normalizer) Parse(raw string) (time.Time, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return time.Time{}, false
	}

	lower := strings.ToLower(clean)
	for _, phrase := range skipPhrases {
		if strings.Contains(lower, phrase) {
			return time.Time{}, false
		}
	}

	now := n.now()
	today := midnight(now)

	switch {
	case strings.Contains(lower, "today"):
		return today, true
	case strings.Contains(lower, "yesterday"):
		return today.AddDate(0, 0, -1), true
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	}

	if t, ok := n.parseWeekday(lower, today); ok {
		return t, true
	}

	if timeOnlyRe.MatchString(clean) {
		upper := strings.ToUpper(clean)
		for _, layout := range []string{"3:04 PM", "3:04PM"} {
			if clock, err := time.Parse(layout, upper); err == nil {
				return time.Date(now.Year(), now.Month(), now.Day(),
					clock.Hour(), clock.Minute(), 0, 0, now.Location()), true
			}
		}
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, clean, now.Location()); err == nil {
			return n.correctYear(t, now), true
		}
	}

	if t, err := dateparse.ParseIn(clean, now.Location()); err == nil {
		return n.correctYear(t, now), true
	}

	return time.Time{}, false
}

// parseWeekday handles strings that name a weekday and nothing else
// that looks like a date. "Monday" asked on a Monday still advances a
// full week; a bare weekday never resolves to today.
func (n *Normalizer) parseWeekday(lower string, today time.Time) (time.Time, bool) {
	for _, month := range monthNames {
		if strings.Contains(lower, month) {
			return time.Time{}, false
		}
	}
	if dateNumberRe.MatchString(lower) {
		return time.Time{}, false
	}

	for i, name := range weekdayNames {
		if !strings.Contains(lower, name) {
			continue
		}
		// time.Weekday counts Sunday=0; the table counts Monday=0.
		current := (int(today.Weekday()) + 6) % 7
		if n.Direction == Past {
			back := (current - i + 7) % 7
			if back == 0 {
				back = 7
			}
			return today.AddDate(0, 0, -back), true
		}
		ahead := (i - current + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDate(0, 0, ahead), true
	}
	return time.Time{}, false
}

// correctYear fixes dates whose year is clearly wrong: either the
// source omitted it (layouts without a year parse as year 0) or the
// general parser picked a bogus one. The candidate is re-anchored to
// the current year, then nudged one year either way when it lands more
// than YearWindowMonths from now.
func (n *Normalizer) correctYear(t, now time.Time) time.Time {
	if t.Year() >= n.YearFloor && t.Year() <= now.Year()+1 {
		return t
	}

	candidate := time.Date(now.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, t.Location())

	diff := monthsBetween(now, candidate)
	switch {
	case diff < -n.YearWindowMonths:
		return candidate.AddDate(1, 0, 0)
	case diff > n.YearWindowMonths:
		return candidate.AddDate(-1, 0, 0)
	default:
		return candidate
	}
}

// monthsBetween reports how many whole months t lies ahead of now
// (negative when behind).
func monthsBetween(now, t time.Time) int {
	return (t.Year()-now.Year())*12 + int(t.Month()) - int(now.Month())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
