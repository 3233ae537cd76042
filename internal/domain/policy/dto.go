package policy

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	CheckInTime        string          `json:"check_in_time" validate:"required,hhmm"`
	CheckOutTime       string          `json:"check_out_time" validate:"required,hhmm"`
	RequiredWorkHours  decimal.Decimal `json:"required_work_hours"`
	GracePeriodMinutes int             `json:"grace_period_minutes" validate:"gte=0,max=240"`
	LateFineBase       int64           `json:"late_fine_base" validate:"gte=0"`
	LateFinePer30Min   int64           `json:"late_fine_per_30_min" validate:"gte=0"`
	LeaveCost          int64           `json:"leave_cost" validate:"gte=0"`
	PaidLeavesPerMonth int             `json:"paid_leaves_per_month" validate:"gte=0,max=31"`
	WarningLeaveCount  int             `json:"warning_leave_count" validate:"gte=0,max=31"`
	DangerLeaveCount   int             `json:"danger_leave_count" validate:"gte=0,max=31,gtefield=WarningLeaveCount"`
	WorkingDays        []int           `json:"working_days" validate:"required,min=1,unique,dive,min=1,max=7"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.ValidateStruct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	// decimal.Decimal is a struct, so the range is checked by hand.
	if r.RequiredWorkHours.LessThan(decimal.NewFromInt(1)) || r.RequiredWorkHours.GreaterThan(decimal.NewFromInt(24)) {
		errs = append(errs, validator.ValidationError{
			Field:   "required_work_hours",
			Message: "required_work_hours must be between 1 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OverrideRequest sets or clears the per-employee part of the policy.
type OverrideRequest struct {
	CheckInTime       *string          `json:"check_in_time,omitempty" validate:"omitempty,hhmm"`
	CheckOutTime      *string          `json:"check_out_time,omitempty" validate:"omitempty,hhmm"`
	RequiredWorkHours *decimal.Decimal `json:"required_work_hours,omitempty"`
}

func (r *OverrideRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.ValidateStruct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	if r.RequiredWorkHours != nil &&
		(r.RequiredWorkHours.LessThan(decimal.NewFromInt(1)) || r.RequiredWorkHours.GreaterThan(decimal.NewFromInt(24))) {
		errs = append(errs, validator.ValidationError{
			Field:   "required_work_hours",
			Message: "required_work_hours must be between 1 and 24",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	CheckInTime        string          `json:"check_in_time"`
	CheckOutTime       string          `json:"check_out_time"`
	RequiredWorkHours  decimal.Decimal `json:"required_work_hours"`
	GracePeriodMinutes int             `json:"grace_period_minutes"`
	LateFineBase       int64           `json:"late_fine_base"`
	LateFinePer30Min   int64           `json:"late_fine_per_30_min"`
	LeaveCost          int64           `json:"leave_cost"`
	PaidLeavesPerMonth int             `json:"paid_leaves_per_month"`
	WarningLeaveCount  int             `json:"warning_leave_count"`
	DangerLeaveCount   int             `json:"danger_leave_count"`
	WorkingDays        []int           `json:"working_days"`
	UpdatedAt          string          `json:"updated_at"`
}

type OverrideResponse struct {
	CheckInTime       *string          `json:"check_in_time,omitempty"`
	CheckOutTime      *string          `json:"check_out_time,omitempty"`
	RequiredWorkHours *decimal.Decimal `json:"required_work_hours,omitempty"`
}
