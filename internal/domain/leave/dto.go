package leave

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date" validate:"required,isodate"`
	Reason     string `json:"reason" validate:"notblank,min=10,max=1000"`
	LeaveType  Type   `json:"leave_type" validate:"oneof=PAID UNPAID SICK CASUAL"`
}

func (r *CreateLeaveRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.LeaveType == "" {
		r.LeaveType = TypeUnpaid
	}
	r.LeaveType = Type(strings.ToUpper(string(r.LeaveType)))
	return validator.ValidateStruct(r)
}

type DecideLeaveRequest struct {
	ID         string `json:"-"`
	ApproverID string `json:"-"`
	Status     Status `json:"status" validate:"oneof=APPROVED REJECTED"`
}

func (r *DecideLeaveRequest) Validate() error {
	r.Status = Status(strings.ToUpper(string(r.Status)))
	return validator.ValidateStruct(r)
}

type CancelLeaveRequest struct {
	ID      string
	ActorID string
	IsAdmin bool
}

type LeaveFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
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

	if f.Status != nil {
		upper := strings.ToUpper(*f.Status)
		f.Status = &upper
		if !validator.IsInSlice(upper, []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}) {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: PENDING, APPROVED, REJECTED"})
		}
	}

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if (f.Month == nil) != (f.Year == nil) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month and year must be provided together"})
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BalanceRequest selects the month to report. Zero Month/Year means the current month.
type BalanceRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *BalanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month < 0 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if (r.Month == 0) != (r.Year == 0) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month and year must be provided together"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Date         string  `json:"date"`
	Reason       string  `json:"reason"`
	LeaveType    Type    `json:"leave_type"`
	Status       Status  `json:"status"`
	IsPaid       bool    `json:"is_paid"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"-"`
	Page       int             `json:"-"`
	Limit      int             `json:"-"`
	TotalPages int             `json:"-"`
	Leaves     []LeaveResponse `json:"leaves"`
}

type BalanceResponse struct {
	Month              int   `json:"month"`
	Year               int   `json:"year"`
	PaidLeavesPerMonth int   `json:"paid_leaves_per_month"`
	UsedThisMonth      int   `json:"used_this_month"`
	Remaining          int   `json:"remaining"`
	Zone               Zone  `json:"zone"`
	WarningLeaveCount  int   `json:"warning_leave_count"`
	DangerLeaveCount   int   `json:"danger_leave_count"`
	LeaveCost          int64 `json:"leave_cost"`
	MonthCost          int64 `json:"month_cost"`
	NextLeaveCost      int64 `json:"next_leave_cost"`
}
