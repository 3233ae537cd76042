package policy

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/shopspring/decimal"
)

// Settings is the stored organization-wide policy row.
type Settings struct {
	ID                 string
	CheckInTime        string
	CheckOutTime       string
	RequiredWorkHours  decimal.Decimal
	GracePeriodMinutes int
	LateFineBase       int64
	LateFinePer30Min   int64
	LeaveCost          int64
	PaidLeavesPerMonth int
	WarningLeaveCount  int
	DangerLeaveCount   int
	WorkingDays        []int
	UpdatedAt          time.Time
}

// Override is an employee-level partial policy. Nil fields fall back to Settings.
type Override struct {
	EmployeeID        string
	CheckInTime       *string
	CheckOutTime      *string
	RequiredWorkHours *decimal.Decimal
	UpdatedAt         time.Time
}

// IsEmpty reports whether the override carries no field at all.
func (o *Override) IsEmpty() bool {
	return o == nil || (o.CheckInTime == nil && o.CheckOutTime == nil && o.RequiredWorkHours == nil)
}

// Policy is the fully-populated, parsed policy every calculation is parameterized by.
type Policy struct {
	CheckIn            orgtime.ClockTime
	CheckOut           orgtime.ClockTime
	RequiredWorkHours  decimal.Decimal
	GracePeriodMinutes int
	LateFineBase       int64
	LateFinePer30Min   int64
	LeaveCost          int64
	PaidLeavesPerMonth int
	WarningLeaveCount  int
	DangerLeaveCount   int
	WorkingDays        []int
}

// HasWorkingDay reports whether ISO weekday is part of the working-day set.
func (p Policy) HasWorkingDay(isoWeekday int) bool {
	for _, d := range p.WorkingDays {
		if d == isoWeekday {
			return true
		}
	}
	return false
}
