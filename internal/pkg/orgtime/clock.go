package orgtime

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ClockTime is an organization-local wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses a strict 24-hour "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	parts := hhmmRegex.FindStringSubmatch(s)
	if parts == nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, _ := strconv.Atoi(parts[1])
	minute, _ := strconv.Atoi(parts[2])
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// MustParseClock is ParseClock for constants and tests.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsValidClock reports whether s is a well-formed "HH:MM".
func IsValidClock(s string) bool {
	return hhmmRegex.MatchString(s)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant at which the organization-local wall clock reads c on
// calendar date (a midnight-UTC date value).
func (c ClockTime) On(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, Location)
}

// SameDayAs returns the instant at which the organization-local wall clock reads c on
// the organization-local calendar date of instant t, seconds zeroed.
func (c ClockTime) SameDayAs(t time.Time) time.Time {
	return c.On(DateOf(t))
}
