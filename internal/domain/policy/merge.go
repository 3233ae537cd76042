package policy

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/shopspring/decimal"
)

// Resolve merges an optional employee override onto the organization settings and
// parses the result. A nil settings value yields ErrPolicyMissing; it is never
// replaced by defaults.
func Resolve(settings *Settings, override *Override) (Policy, error) {
	if settings == nil {
		return Policy{}, ErrPolicyMissing
	}

	checkIn := settings.CheckInTime
	checkOut := settings.CheckOutTime
	required := settings.RequiredWorkHours
	if override != nil {
		if override.CheckInTime != nil {
			checkIn = *override.CheckInTime
		}
		if override.CheckOutTime != nil {
			checkOut = *override.CheckOutTime
		}
		if override.RequiredWorkHours != nil {
			required = *override.RequiredWorkHours
		}
	}

	in, err := orgtime.ParseClock(checkIn)
	if err != nil {
		return Policy{}, fmt.Errorf("check-in time: %w", err)
	}
	out, err := orgtime.ParseClock(checkOut)
	if err != nil {
		return Policy{}, fmt.Errorf("check-out time: %w", err)
	}

	p := Policy{
		CheckIn:            in,
		CheckOut:           out,
		RequiredWorkHours:  required,
		GracePeriodMinutes: settings.GracePeriodMinutes,
		LateFineBase:       settings.LateFineBase,
		LateFinePer30Min:   settings.LateFinePer30Min,
		LeaveCost:          settings.LeaveCost,
		PaidLeavesPerMonth: settings.PaidLeavesPerMonth,
		WarningLeaveCount:  settings.WarningLeaveCount,
		DangerLeaveCount:   settings.DangerLeaveCount,
		WorkingDays:        append([]int(nil), settings.WorkingDays...),
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks the numeric invariants of a resolved policy.
func (p Policy) Validate() error {
	switch {
	case p.RequiredWorkHours.LessThan(decimal.Zero):
		return fmt.Errorf("%w: required work hours must not be negative", ErrInvalidPolicy)
	case p.GracePeriodMinutes < 0:
		return fmt.Errorf("%w: grace period must not be negative", ErrInvalidPolicy)
	case p.LateFineBase < 0 || p.LateFinePer30Min < 0 || p.LeaveCost < 0:
		return fmt.Errorf("%w: fines and costs must not be negative", ErrInvalidPolicy)
	case p.PaidLeavesPerMonth < 0 || p.WarningLeaveCount < 0 || p.DangerLeaveCount < 0:
		return fmt.Errorf("%w: leave counts must not be negative", ErrInvalidPolicy)
	case p.DangerLeaveCount < p.WarningLeaveCount:
		return fmt.Errorf("%w: danger leave count must be at least the warning leave count", ErrInvalidPolicy)
	}
	for _, d := range p.WorkingDays {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: working day %d is not an ISO weekday", ErrInvalidPolicy, d)
		}
	}
	return nil
}
