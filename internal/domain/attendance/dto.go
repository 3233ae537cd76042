package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// normalizeReason trims r and drops it when blank.
func normalizeReason(r *string) *string {
	if r == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type CheckInRequest struct {
	EmployeeID string  `json:"-"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,min=5,max=500"`
}

func (r *CheckInRequest) Validate() error {
	r.Reason = normalizeReason(r.Reason)
	return validator.ValidateStruct(r)
}

type CheckOutRequest struct {
	EmployeeID string  `json:"-"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,min=5,max=500"`
}

func (r *CheckOutRequest) Validate() error {
	r.Reason = normalizeReason(r.Reason)
	return validator.ValidateStruct(r)
}

// UpdateReasonRequest lets an employee amend the check-in reason shortly after checking in.
type UpdateReasonRequest struct {
	ID         string `json:"-"`
	EmployeeID string `json:"-"`
	Reason     string `json:"reason" validate:"notblank,min=5,max=500"`
}

func (r *UpdateReasonRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return validator.ValidateStruct(r)
}

// ManualAttendanceRequest is an administrator creating a record after the fact.
// Times are organization-local "HH:MM" on Date.
type ManualAttendanceRequest struct {
	EmployeeID     string  `json:"employee_id" validate:"required,uuid"`
	Date           string  `json:"date" validate:"required,isodate"`
	CheckInTime    string  `json:"check_in_time" validate:"required,hhmm"`
	CheckOutTime   *string `json:"check_out_time,omitempty" validate:"omitempty,hhmm"`
	CheckInReason  *string `json:"check_in_reason,omitempty" validate:"omitempty,max=500"`
	CheckOutReason *string `json:"check_out_reason,omitempty" validate:"omitempty,max=500"`
}

func (r *ManualAttendanceRequest) Validate() error {
	r.CheckInReason = normalizeReason(r.CheckInReason)
	r.CheckOutReason = normalizeReason(r.CheckOutReason)
	return validator.ValidateStruct(r)
}

// EditAttendanceRequest is an administrator correcting an existing record.
// Absent fields are left as they are.
type EditAttendanceRequest struct {
	ID             string  `json:"-"`
	CheckInTime    *string `json:"check_in_time,omitempty" validate:"omitempty,hhmm"`
	CheckOutTime   *string `json:"check_out_time,omitempty" validate:"omitempty,hhmm"`
	CheckInReason  *string `json:"check_in_reason,omitempty" validate:"omitempty,max=500"`
	CheckOutReason *string `json:"check_out_reason,omitempty" validate:"omitempty,max=500"`
}

func (r *EditAttendanceRequest) Validate() error {
	if err := validator.ValidateStruct(r); err != nil {
		return err
	}
	if r.CheckInTime == nil && r.CheckOutTime == nil && r.CheckInReason == nil && r.CheckOutReason == nil {
		return validator.ValidationErrors{{
			Field:   "check_in_time",
			Message: "at least one field must be provided",
		}}
	}
	return nil
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	Month      *int    `json:"month,omitempty"`      // 1-12, with Year
	Year       *int    `json:"year,omitempty"`       // with Month
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be in YYYY-MM-DD format"})
			}
		}
	}

	if (f.Month == nil) != (f.Year == nil) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month and year must be provided together"})
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}

	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be one of: asc, desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      *string         `json:"employee_name,omitempty"`
	EmployeeCode      *string         `json:"employee_code,omitempty"`
	Date              string          `json:"date"`
	CheckInTime       *string         `json:"check_in_time,omitempty"`
	CheckOutTime      *string         `json:"check_out_time,omitempty"`
	CheckInLocal      string          `json:"check_in_local"`
	CheckOutLocal     string          `json:"check_out_local"`
	CheckInReason     *string         `json:"check_in_reason,omitempty"`
	CheckOutReason    *string         `json:"check_out_reason,omitempty"`
	LateMinutes       int             `json:"late_minutes"`
	EarlyMinutes      int             `json:"early_minutes"`
	TotalHours        decimal.Decimal `json:"total_hours"`
	FineAmount        int64           `json:"fine_amount"`
	IsAutoLeave       bool            `json:"is_auto_leave"`
	IsModifiedByAdmin bool            `json:"is_modified_by_admin"`
	State             DayState        `json:"state"`
}

type CheckOutResponse struct {
	AttendanceResponse
	IsWorkHoursIncomplete bool            `json:"is_work_hours_incomplete"`
	DeficiencyHours       decimal.Decimal `json:"deficiency_hours"`
}

// TodayResponse describes the caller's attendance day as of now.
type TodayResponse struct {
	Date          string              `json:"date"`
	State         DayState            `json:"state"`
	IsWorkingDay  bool                `json:"is_working_day"`
	BlockedReason *string             `json:"blocked_reason,omitempty"`
	CheckInAt     string              `json:"expected_check_in"`
	CheckOutAt    string              `json:"expected_check_out"`
	LateMinutes   int                 `json:"late_minutes"`
	ProjectedFine int64               `json:"projected_fine"`
	EarlyMinutes  int                 `json:"early_minutes"`
	Record        *AttendanceResponse `json:"record,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"-"`
	Page        int                  `json:"-"`
	Limit       int                  `json:"-"`
	TotalPages  int                  `json:"-"`
	Attendances []AttendanceResponse `json:"attendances"`
}
