package calendar

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name        string `json:"name" validate:"notblank,min=2,max=100"`
	Date        string `json:"date" validate:"required,isodate"`
	IsRecurring bool   `json:"is_recurring"`
}

func (r *CreateHolidayRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.ValidateStruct(r)
}

type CreateOffDayRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,isodate"`
	Reason     string `json:"reason" validate:"notblank,min=5,max=500"`
	IsPaid     bool   `json:"is_paid"`
}

func (r *CreateOffDayRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return validator.ValidateStruct(r)
}

type ListOffDaysRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *ListOffDaysRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
}

// HolidayOccurrence is a holiday as observed on a concrete date of a year.
type HolidayOccurrence struct {
	HolidayID   string `json:"holiday_id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
}

type OffDayResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Reason       string  `json:"reason"`
	IsPaid       bool    `json:"is_paid"`
}
