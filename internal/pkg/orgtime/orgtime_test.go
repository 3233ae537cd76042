package orgtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayInOrgTZ_RollsOverBeforeUTC(t *testing.T) {
	// 20:30 UTC on the 10th is 01:30 PKT on the 11th
	clock := FixedClock(time.Date(2024, time.March, 10, 20, 30, 0, 0, time.UTC))

	today := TodayInOrgTZ(clock)

	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), today)
	assert.Equal(t, "2024-03-11", FormatDate(today))
}

func TestNowInOrgTZ_FormatsAsOrgWallClock(t *testing.T) {
	original := time.Local
	time.Local = time.FixedZone("HST", -10*60*60)
	defer func() { time.Local = original }()

	instant := time.Date(2024, time.March, 10, 20, 30, 0, 0, time.UTC)
	now := NowInOrgTZ(FixedClock(instant))

	assert.True(t, now.Equal(instant), "must stay the same absolute instant")
	assert.Equal(t, "01:30", FormatHHMM(&now))
	assert.Equal(t, "01:30 AM", FormatHHMM12(&now))
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), DateOf(now))
}

func TestFormatHHMM_Nil(t *testing.T) {
	assert.Equal(t, "--:--", FormatHHMM(nil))
	assert.Equal(t, "--:--", FormatHHMM12(nil))
}

func TestISOWeekday(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2024-03-10", 7}, // Sunday
		{"2024-03-11", 1}, // Monday
		{"2024-03-15", 5}, // Friday
		{"2024-03-16", 6}, // Saturday
	}
	for _, c := range cases {
		d, err := ParseDate(c.date)
		require.NoError(t, err)
		assert.Equal(t, c.want, ISOWeekday(d), c.date)
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 5}, c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"9:05", "24:00", "12:60", "0905", "", "ab:cd", "09:05:00"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, bad)
	}
}

func TestClockTime_SameDayAs(t *testing.T) {
	// 23:30 UTC on the 1st is 04:30 PKT on the 2nd
	checkIn := time.Date(2024, time.April, 1, 23, 30, 0, 0, time.UTC)

	assigned := MustParseClock("09:00").SameDayAs(checkIn)

	assert.Equal(t, time.Date(2024, time.April, 2, 4, 0, 0, 0, time.UTC), assigned.UTC())
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(Date(2024, time.February, 17))

	assert.Equal(t, Date(2024, time.February, 1), first)
	assert.Equal(t, Date(2024, time.February, 29), last)
}

func TestSameDate(t *testing.T) {
	assert.True(t, SameDate(Date(2024, 1, 2), time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)))
	assert.False(t, SameDate(Date(2024, 1, 2), Date(2024, 1, 3)))
}
