// Package orgtime anchors every wall-clock and calendar computation to the
// organization timezone (PKT, UTC+05:00, no daylight saving).
//
// Two conventions hold across the code base:
//   - instants (check-in, check-out, approval time) are plain time.Time values and
//     are converted with In(Location) before any HH:MM work;
//   - calendar dates are time.Time values at midnight UTC whose year/month/day is the
//     organization-local date. They map 1:1 onto Postgres DATE columns.
package orgtime

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
	clock12     = "03:04 PM"
)

// Location is the fixed organization timezone.
var Location = time.FixedZone("PKT", 5*60*60)

var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// Clock supplies "now". Services depend on it so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the host clock.
func SystemClock() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// FixedClock always returns t.
func FixedClock(t time.Time) Clock { return fixedClock{t: t} }

// TodayInOrgTZ returns the organization-local calendar date of the clock's now.
func TodayInOrgTZ(c Clock) time.Time {
	return DateOf(c.Now())
}

// NowInOrgTZ returns the clock's now as an absolute instant whose wall clock
// reads organization-local time.
func NowInOrgTZ(c Clock) time.Time {
	return c.Now().In(Location)
}

// DateOf returns the organization-local calendar date of instant t, as midnight UTC.
func DateOf(t time.Time) time.Time {
	local := t.In(Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses "YYYY-MM-DD" into a calendar date value.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders a calendar date value as "YYYY-MM-DD".
func FormatDate(date time.Time) string {
	return date.UTC().Format(DateLayout)
}

// FormatHostLocalDate renders t as "YYYY-MM-DD" in the host's local calendar.
// Only used at client input boundaries, never for persisted comparisons.
func FormatHostLocalDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// FormatHHMM renders an instant as organization-local 24-hour "HH:MM".
// A nil instant renders as "--:--".
func FormatHHMM(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.In(Location).Format(ClockLayout)
}

// FormatHHMM12 renders an instant as organization-local 12-hour "hh:mm AM".
func FormatHHMM12(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.In(Location).Format(clock12)
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(date time.Time) int {
	wd := int(date.UTC().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// SameDate reports whether two calendar date values carry the same year/month/day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// MonthBounds returns the first and last calendar dates of the month containing date.
func MonthBounds(date time.Time) (time.Time, time.Time) {
	d := date.UTC()
	first := Date(d.Year(), d.Month(), 1)
	return first, first.AddDate(0, 1, -1)
}
