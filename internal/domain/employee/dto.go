package employee

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Name        string                  `json:"name" validate:"notblank,min=2,max=100"`
	Email       string                  `json:"email" validate:"required,email"`
	Designation *string                 `json:"designation,omitempty" validate:"omitempty,max=100"`
	Password    string                  `json:"password" validate:"required,min=6,max=72"`
	JoinedDate  *string                 `json:"joined_date,omitempty" validate:"omitempty,isodate"`
	Settings    *policy.OverrideRequest `json:"settings,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	var errs validator.ValidationErrors
	if err := validator.ValidateStruct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	if r.Settings != nil {
		if err := r.Settings.Validate(); err != nil {
			fieldErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return err
			}
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Designation *string `json:"designation,omitempty" validate:"omitempty,max=100"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	JoinedDate  *string `json:"joined_date,omitempty" validate:"omitempty,isodate"`
	IsActive    *bool   `json:"is_active,omitempty"`

	// Settings replaces the override; ClearSettings removes it.
	Settings      *policy.OverrideRequest `json:"settings,omitempty"`
	ClearSettings bool                    `json:"clear_settings,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}

	var errs validator.ValidationErrors
	if err := validator.ValidateStruct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	if r.Settings != nil {
		if r.ClearSettings {
			errs = append(errs, validator.ValidationError{
				Field:   "settings",
				Message: "settings and clear_settings cannot be combined",
			})
		} else if err := r.Settings.Validate(); err != nil {
			fieldErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return err
			}
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Search *string `json:"search,omitempty"`
	Status *string `json:"status,omitempty"` // active, inactive
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
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
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{"active", "inactive"}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: active, inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Email        string                   `json:"email"`
	Role         Role                     `json:"role"`
	EmployeeCode *string                  `json:"employee_code,omitempty"`
	Designation  *string                  `json:"designation,omitempty"`
	JoinedDate   *string                  `json:"joined_date,omitempty"`
	IsActive     bool                     `json:"is_active"`
	Settings     *policy.OverrideResponse `json:"settings,omitempty"`
	CreatedAt    string                   `json:"created_at"`
}

// CreateEmployeeResponse carries the plain access key. It is never shown again.
type CreateEmployeeResponse struct {
	EmployeeResponse
	AccessKey string `json:"access_key"`
}

type AccessKeyResponse struct {
	EmployeeID string `json:"employee_id"`
	AccessKey  string `json:"access_key"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"-"`
	Page       int                `json:"-"`
	Limit      int                `json:"-"`
	TotalPages int                `json:"-"`
	Employees  []EmployeeResponse `json:"employees"`
}
