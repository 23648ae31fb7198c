// Package daterange resolves user date intent into concrete ranges.
//
// A Range carries two end boundaries: End includes a one-day forward
// buffer so that same-day completions recorded by an upstream system
// in a timezone ahead of local time are not excluded from queries,
// while DisplayEnd is the true user-facing boundary and is the only
// one used for human-readable labels.
package daterange

import (
	"fmt"
	"time"

	recaperrors "github.com/recap-cli/recap/pkg/errors"
)

// Range is a resolved [Start, End] pair plus the display boundary.
// Invariant: Start <= DisplayEnd <= End and End - DisplayEnd is
// either zero or exactly one day.
type Range struct {
	Start      time.Time
	End        time.Time
	DisplayEnd time.Time
}

// Parse interprets a YYYY-MM-DD string as a local-time midnight
// instant. The date component is never UTC-shifted.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, recaperrors.NewDateError(s, "expected YYYY-MM-DD", err)
	}
	return t, nil
}

// Explicit builds a range from parsed start and end dates. The end
// boundary is extended to the last instant of its day; no timezone
// buffer is applied because the caller chose both dates deliberately.
func Explicit(start, end time.Time) Range {
	e := endOfDay(end)
	return Range{
		Start:      startOfDay(start),
		End:        e,
		DisplayEnd: e,
	}
}

// PastNDays resolves "the past n days" relative to now. End carries
// the one-day buffer; DisplayEnd is today at day end.
func PastNDays(now time.Time, n int) Range {
	return Range{
		Start:      startOfDay(now.AddDate(0, 0, -n)),
		End:        endOfDay(now.AddDate(0, 0, 1)),
		DisplayEnd: endOfDay(now),
	}
}

// CurrentWeek resolves the Monday-to-Sunday week containing now.
// Sunday counts as the last day of the week, not the first.
func CurrentWeek(now time.Time) Range {
	offset := (int(now.Weekday()) + 6) % 7
	monday := startOfDay(now.AddDate(0, 0, -offset))
	sunday := monday.AddDate(0, 0, 6)
	return Range{
		Start:      monday,
		End:        endOfDay(sunday.AddDate(0, 0, 1)),
		DisplayEnd: endOfDay(sunday),
	}
}

// Label renders the full user-facing period, e.g.
// "Jan 2, 2026 - Jan 8, 2026".
func (r Range) Label() string {
	return fmt.Sprintf("%s - %s", r.Start.Format("Jan 2, 2006"), r.DisplayEnd.Format("Jan 2, 2006"))
}

// Period renders the short month-year form used by the review
// renderer, e.g. "Jan 2026 - Mar 2026".
func (r Range) Period() string {
	return fmt.Sprintf("%s - %s", r.Start.Format("Jan 2006"), r.DisplayEnd.Format("Jan 2006"))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
