package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
)

// codeAttempts bounds retries when two creations race for the same EMP code.
const codeAttempts = 3

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	overrides policy.OverrideRepository
	tx        database.Transactor
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository, overrideRepository policy.OverrideRepository, transactor database.Transactor) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepository,
		overrides:          overrideRepository,
		tx:                 transactor,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	exists, err := s.EmployeeRepository.EmailExists(ctx, req.Email, "")
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}
	if exists {
		return employee.CreateEmployeeResponse{}, employee.ErrEmailExists
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return employee.CreateEmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	accessKey, accessKeyHash, err := generateAccessKey()
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Role:          employee.RoleEmployee,
		Designation:   req.Designation,
		AccessKeyHash: &accessKeyHash,
		IsActive:      true,
	}
	if req.JoinedDate != nil {
		joined, err := orgtime.ParseDate(*req.JoinedDate)
		if err != nil {
			return employee.CreateEmployeeResponse{}, err
		}
		newEmployee.JoinedDate = &joined
	}

	var (
		created  employee.Employee
		override *policy.Override
	)
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			highest, err := s.EmployeeRepository.MaxEmployeeCodeNumber(ctx)
			if err != nil {
				return err
			}
			code := formatEmployeeCode(highest + 1)
			newEmployee.EmployeeCode = &code

			created, err = s.EmployeeRepository.Create(ctx, newEmployee)
			if err != nil {
				return err
			}

			override, err = s.saveOverride(ctx, created.ID, req.Settings)
			return err
		})
		if !errors.Is(err, employee.ErrEmployeeCodeExists) {
			break
		}
		slog.Warn("Employee code collision, retrying", "attempt", attempt)
	}
	if err != nil {
		return employee.CreateEmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "employee_code", *created.EmployeeCode)
	return employee.CreateEmployeeResponse{
		EmployeeResponse: toEmployeeResponse(created, override),
		AccessKey:        accessKey,
	}, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	override, err := s.overrides.GetByEmployeeID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee settings: %w", err)
	}
	return toEmployeeResponse(emp, override), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	role := employee.RoleEmployee
	listFilter := employee.ListFilter{
		Search: filter.Search,
		Role:   &role,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if listFilter.Page < 1 {
		listFilter.Page = 1
	}
	if listFilter.Limit < 1 {
		listFilter.Limit = 20
	}
	if filter.Status != nil {
		active := *filter.Status == "active"
		listFilter.IsActive = &active
	}

	employees, total, err := s.EmployeeRepository.List(ctx, listFilter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toEmployeeResponse(emp, nil))
	}
	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       listFilter.Page,
		Limit:      listFilter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(listFilter.Limit))),
		Employees:  responses,
	}, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	var (
		updated  employee.Employee
		override *policy.Override
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.EmployeeRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			emp.Name = *req.Name
		}
		if req.Email != nil && *req.Email != emp.Email {
			exists, err := s.EmployeeRepository.EmailExists(ctx, *req.Email, emp.ID)
			if err != nil {
				return err
			}
			if exists {
				return employee.ErrEmailExists
			}
			emp.Email = *req.Email
		}
		if req.Designation != nil {
			emp.Designation = req.Designation
		}
		if req.Password != nil {
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			emp.PasswordHash = hash
		}
		if req.JoinedDate != nil {
			joined, err := orgtime.ParseDate(*req.JoinedDate)
			if err != nil {
				return err
			}
			emp.JoinedDate = &joined
		}
		if req.IsActive != nil {
			emp.IsActive = *req.IsActive
		}

		if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
			return err
		}
		updated = emp

		switch {
		case req.ClearSettings:
			if err := s.overrides.Delete(ctx, emp.ID); err != nil {
				return fmt.Errorf("failed to clear employee settings: %w", err)
			}
		case req.Settings != nil:
			if override, err = s.saveOverride(ctx, emp.ID, req.Settings); err != nil {
				return err
			}
		default:
			if override, err = s.overrides.GetByEmployeeID(ctx, emp.ID); err != nil {
				return fmt.Errorf("failed to get employee settings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return toEmployeeResponse(updated, override), nil
}

// RegenerateAccessKey implements employee.EmployeeService.
func (s *EmployeeServiceImpl) RegenerateAccessKey(ctx context.Context, id string) (employee.AccessKeyResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.AccessKeyResponse{}, err
	}
	if emp.IsAdmin() {
		return employee.AccessKeyResponse{}, employee.ErrNotAnEmployee
	}

	accessKey, hash, err := generateAccessKey()
	if err != nil {
		return employee.AccessKeyResponse{}, err
	}
	emp.AccessKeyHash = &hash
	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		return employee.AccessKeyResponse{}, err
	}

	slog.Info("Access key regenerated", "employee_id", emp.ID)
	return employee.AccessKeyResponse{EmployeeID: emp.ID, AccessKey: accessKey}, nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string, actorID string) error {
	if id == actorID {
		return employee.ErrCannotDeactivateSelf
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !emp.IsActive {
		return employee.ErrEmployeeAlreadyInactive
	}

	emp.IsActive = false
	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		return err
	}

	slog.Info("Employee deactivated", "employee_id", id, "actor_id", actorID)
	return nil
}

// saveOverride stores req as the employee's override, or removes it when req
// carries no field.
func (s *EmployeeServiceImpl) saveOverride(ctx context.Context, employeeID string, req *policy.OverrideRequest) (*policy.Override, error) {
	if req == nil {
		return nil, nil
	}
	override := policy.Override{
		EmployeeID:        employeeID,
		CheckInTime:       req.CheckInTime,
		CheckOutTime:      req.CheckOutTime,
		RequiredWorkHours: req.RequiredWorkHours,
	}
	if override.IsEmpty() {
		if err := s.overrides.Delete(ctx, employeeID); err != nil {
			return nil, fmt.Errorf("failed to clear employee settings: %w", err)
		}
		return nil, nil
	}

	saved, err := s.overrides.Upsert(ctx, override)
	if err != nil {
		return nil, fmt.Errorf("failed to save employee settings: %w", err)
	}
	return &saved, nil
}

func toEmployeeResponse(emp employee.Employee, override *policy.Override) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:           emp.ID,
		Name:         emp.Name,
		Email:        emp.Email,
		Role:         emp.Role,
		EmployeeCode: emp.EmployeeCode,
		Designation:  emp.Designation,
		IsActive:     emp.IsActive,
		CreatedAt:    emp.CreatedAt.In(orgtime.Location).Format(time.RFC3339),
	}
	if emp.JoinedDate != nil {
		joined := orgtime.FormatDate(*emp.JoinedDate)
		resp.JoinedDate = &joined
	}
	if !override.IsEmpty() {
		resp.Settings = &policy.OverrideResponse{
			CheckInTime:       override.CheckInTime,
			CheckOutTime:      override.CheckOutTime,
			RequiredWorkHours: override.RequiredWorkHours,
		}
	}
	return resp
}
