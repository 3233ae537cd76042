package report

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// maxRangeDays bounds a report so a single request cannot scan years of records.
const maxRangeDays = 366

type AttendanceReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if end.Sub(start).Hours()/24 >= maxRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed 366 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceReport struct {
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	GeneratedAt string           `json:"generated_at"`
	Overview    Overview         `json:"overview"`
	Employees   []EmployeeReport `json:"employees"`
}

type Overview struct {
	TotalEmployees  int             `json:"total_employees"`
	TotalAttendance int             `json:"total_attendance"`
	TotalLeaves     int             `json:"total_leaves"`
	TotalFines      int64           `json:"total_fines"`
	AverageHours    decimal.Decimal `json:"average_hours"`
	PresentToday    int             `json:"present_today"`
	AbsentToday     int             `json:"absent_today"`
	LateToday       int             `json:"late_today"`
}

type EmployeeReport struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	EmployeeCode   *string         `json:"employee_code,omitempty"`
	WorkingDays    int             `json:"working_days"`
	PresentDays    int             `json:"present_days"`
	AbsentDays     int             `json:"absent_days"`
	LateDays       int             `json:"late_days"`
	EarlyDays      int             `json:"early_days"`
	IncompleteDays int             `json:"incomplete_days"`
	TotalFines     int64           `json:"total_fines"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	AverageHours   decimal.Decimal `json:"average_hours"`
	LeaveCount     int             `json:"leave_count"`

	// Zone and cost are evaluated for the calendar month of the period end.
	LeaveZone leave.Zone `json:"leave_zone"`
	LeaveCost int64      `json:"leave_cost"`
}
