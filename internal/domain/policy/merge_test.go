package policy

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() *Settings {
	return &Settings{
		CheckInTime:        "09:00",
		CheckOutTime:       "17:00",
		RequiredWorkHours:  decimal.NewFromInt(8),
		GracePeriodMinutes: 15,
		LateFineBase:       250,
		LateFinePer30Min:   250,
		LeaveCost:          1000,
		PaidLeavesPerMonth: 1,
		WarningLeaveCount:  3,
		DangerLeaveCount:   5,
		WorkingDays:        []int{1, 2, 3, 4, 5},
	}
}

func TestResolve_MissingSettings(t *testing.T) {
	_, err := Resolve(nil, nil)

	assert.ErrorIs(t, err, ErrPolicyMissing)
}

func TestResolve_NoOverride(t *testing.T) {
	p, err := Resolve(defaultSettings(), nil)

	require.NoError(t, err)
	assert.Equal(t, orgtime.ClockTime{Hour: 9}, p.CheckIn)
	assert.Equal(t, orgtime.ClockTime{Hour: 17}, p.CheckOut)
	assert.True(t, p.RequiredWorkHours.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.WorkingDays)
}

func TestResolve_PartialOverride(t *testing.T) {
	in := "10:30"
	hours := decimal.RequireFromString("6.5")
	override := &Override{EmployeeID: "emp-1", CheckInTime: &in, RequiredWorkHours: &hours}

	p, err := Resolve(defaultSettings(), override)

	require.NoError(t, err)
	assert.Equal(t, orgtime.ClockTime{Hour: 10, Minute: 30}, p.CheckIn)
	assert.Equal(t, orgtime.ClockTime{Hour: 17}, p.CheckOut, "check-out falls back to the default")
	assert.True(t, p.RequiredWorkHours.Equal(hours))
	assert.Equal(t, int64(250), p.LateFineBase, "fine fields are always inherited")
	assert.Equal(t, 15, p.GracePeriodMinutes)
}

func TestResolve_InvalidTimeFormat(t *testing.T) {
	bad := "9am"

	_, err := Resolve(defaultSettings(), &Override{CheckOutTime: &bad})

	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestResolve_DangerBelowWarning(t *testing.T) {
	s := defaultSettings()
	s.DangerLeaveCount = 2

	_, err := Resolve(s, nil)

	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestResolve_DoesNotAliasWorkingDays(t *testing.T) {
	s := defaultSettings()

	p, err := Resolve(s, nil)
	require.NoError(t, err)
	p.WorkingDays[0] = 7

	assert.Equal(t, 1, s.WorkingDays[0])
}

func TestUpdateSettingsRequest_Validate(t *testing.T) {
	req := UpdateSettingsRequest{
		CheckInTime:       "9:00",
		CheckOutTime:      "17:00",
		RequiredWorkHours: decimal.NewFromInt(30),
		WarningLeaveCount: 5,
		DangerLeaveCount:  3,
		WorkingDays:       []int{0, 1},
	}

	err := req.Validate()

	require.Error(t, err)
	fields := err.(interface{ ToMap() map[string]string }).ToMap()
	assert.Contains(t, fields, "check_in_time")
	assert.Contains(t, fields, "required_work_hours")
	assert.Contains(t, fields, "danger_leave_count")
	assert.Contains(t, fields, "working_days")
}
