package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employees employee.EmployeeRepository
	policies  policy.PolicyService
	gate      calendar.Gate
	tx        database.Transactor
	clock     orgtime.Clock
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	policyService policy.PolicyService,
	gate calendar.Gate,
	transactor database.Transactor,
	clock orgtime.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		employees:            employeeRepository,
		policies:             policyService,
		gate:                 gate,
		tx:                   transactor,
		clock:                clock,
	}
}

func (s *AttendanceServiceImpl) now() time.Time {
	return s.clock.Now().Truncate(time.Second)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	now := s.now()
	today := orgtime.DateOf(now)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if _, err := attendance.StateOf(existing).CheckIn(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	p, err := s.policies.ForEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.gate.CheckInAllowed(ctx, req.EmployeeID, today, p); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	fine := ComputeLateFine(now, p.CheckIn, p)
	if err := RequireCheckInReason(fine.LateMinutes, req.Reason); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:    req.EmployeeID,
		Date:          today,
		CheckInTime:   &now,
		CheckInReason: req.Reason,
		LateMinutes:   fine.LateMinutes,
		FineAmount:    fine.FineAmount,
		TotalHours:    decimal.Zero,
	})
	if err != nil {
		// lost a race against a concurrent check-in
		if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
			return attendance.AttendanceResponse{}, admission.Deny(admission.ReasonAlreadyCheckedIn)
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Employee checked in",
		"employee_id", req.EmployeeID,
		"date", orgtime.FormatDate(today),
		"late_minutes", fine.LateMinutes,
		"fine", fine.FineAmount,
	)
	return toAttendanceResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	now := s.now()
	today := orgtime.DateOf(now)

	var (
		updated attendance.Attendance
		p       policy.Policy
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if _, err := attendance.StateOf(existing).CheckOut(); err != nil {
			return err
		}

		p, err = s.policies.ForEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		early := ComputeEarlyMinutes(now, p.CheckOut)
		if err := RequireCheckOutReason(early, req.Reason); err != nil {
			return err
		}

		updated = *existing
		updated.CheckOutTime = &now
		updated.CheckOutReason = req.Reason
		updated.EarlyMinutes = early
		updated.TotalHours = ComputeTotalHours(*updated.CheckInTime, updated.CheckOutTime)

		if err := s.AttendanceRepository.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	incomplete, deficiency := IsWorkHoursIncomplete(updated.TotalHours, p.RequiredWorkHours)

	slog.Info("Employee checked out",
		"employee_id", req.EmployeeID,
		"date", orgtime.FormatDate(today),
		"early_minutes", updated.EarlyMinutes,
		"total_hours", updated.TotalHours.StringFixed(2),
	)
	return attendance.CheckOutResponse{
		AttendanceResponse:    toAttendanceResponse(updated),
		IsWorkHoursIncomplete: incomplete,
		DeficiencyHours:       deficiency,
	}, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	now := s.now()
	today := orgtime.DateOf(now)

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	p, err := s.policies.ForEmployee(ctx, employeeID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	state := attendance.StateOf(existing)
	resp := attendance.TodayResponse{
		Date:         orgtime.FormatDate(today),
		State:        state,
		IsWorkingDay: p.HasWorkingDay(orgtime.ISOWeekday(today)),
		CheckInAt:    p.CheckIn.String(),
		CheckOutAt:   p.CheckOut.String(),
	}

	switch state {
	case attendance.StateNotCheckedIn:
		if err := s.gate.CheckInAllowed(ctx, employeeID, today, p); err != nil {
			reason, ok := admission.ReasonOf(err)
			if !ok {
				return attendance.TodayResponse{}, err
			}
			blocked := string(reason)
			resp.BlockedReason = &blocked
		}
		// what checking in right now would cost
		fine := ComputeLateFine(now, p.CheckIn, p)
		resp.LateMinutes = fine.LateMinutes
		resp.ProjectedFine = fine.FineAmount
	case attendance.StateCheckedIn:
		resp.LateMinutes = existing.LateMinutes
		resp.ProjectedFine = existing.FineAmount
		resp.EarlyMinutes = ComputeEarlyMinutes(now, p.CheckOut)
	default:
		resp.LateMinutes = existing.LateMinutes
		resp.ProjectedFine = existing.FineAmount
		resp.EarlyMinutes = existing.EarlyMinutes
	}

	if existing != nil {
		record := toAttendanceResponse(*existing)
		resp.Record = &record
	}
	return resp, nil
}

// UpdateCheckInReason implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateCheckInReason(ctx context.Context, req attendance.UpdateReasonRequest) (attendance.AttendanceResponse, error) {
	rec, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if rec.EmployeeID != req.EmployeeID {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}
	if rec.CheckInTime == nil {
		return attendance.AttendanceResponse{}, admission.Deny(admission.ReasonNotCheckedIn)
	}
	if !CanEditReason(*rec.CheckInTime, s.now()) {
		return attendance.AttendanceResponse{}, attendance.ErrEditWindowClosed
	}

	reason := req.Reason
	rec.CheckInReason = &reason
	if err := s.AttendanceRepository.Update(ctx, rec); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return toAttendanceResponse(rec), nil
}

// CreateManual implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateManual(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	date, err := orgtime.ParseDate(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if emp.IsAdmin() {
		return attendance.AttendanceResponse{}, employee.ErrNotAnEmployee
	}

	p, err := s.policies.ForEmployee(ctx, emp.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	checkInClock, err := orgtime.ParseClock(req.CheckInTime)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	checkIn := checkInClock.On(date)

	var checkOut *time.Time
	if req.CheckOutTime != nil {
		checkOutClock, err := orgtime.ParseClock(*req.CheckOutTime)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		out := checkOutClock.On(date)
		if out.Before(checkIn) {
			return attendance.AttendanceResponse{}, attendance.ErrCheckOutBeforeCheckIn
		}
		checkOut = &out
	}

	rec := attendance.Attendance{
		EmployeeID:        emp.ID,
		Date:              date,
		CheckInTime:       &checkIn,
		CheckOutTime:      checkOut,
		CheckInReason:     req.CheckInReason,
		CheckOutReason:    req.CheckOutReason,
		IsModifiedByAdmin: true,
	}
	rec.Apply(Derive(checkIn, checkOut, p))

	created, err := s.AttendanceRepository.Create(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Manual attendance created", "attendance_id", created.ID, "employee_id", emp.ID, "date", req.Date)
	return toAttendanceResponse(created), nil
}

// Edit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Edit(ctx context.Context, req attendance.EditAttendanceRequest) (attendance.AttendanceResponse, error) {
	var updated attendance.Attendance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.AttendanceRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		p, err := s.policies.ForEmployee(ctx, rec.EmployeeID)
		if err != nil {
			return err
		}

		edit := Edit{
			CheckInReason:  req.CheckInReason,
			CheckOutReason: req.CheckOutReason,
		}
		if req.CheckInTime != nil {
			c, err := orgtime.ParseClock(*req.CheckInTime)
			if err != nil {
				return err
			}
			in := c.On(rec.Date)
			edit.CheckIn = &in
		}
		if req.CheckOutTime != nil {
			c, err := orgtime.ParseClock(*req.CheckOutTime)
			if err != nil {
				return err
			}
			out := c.On(rec.Date)
			edit.CheckOut = &out
		}

		updated, err = Recompute(rec, edit, p)
		if err != nil {
			return err
		}
		if err := s.AttendanceRepository.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance edited by admin",
		"attendance_id", updated.ID,
		"late_minutes", updated.LateMinutes,
		"early_minutes", updated.EarlyMinutes,
		"fine", updated.FineAmount,
	)
	return toAttendanceResponse(updated), nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toAttendanceResponse(rec), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	listFilter, err := toListFilter(filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, listFilter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toAttendanceResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        listFilter.Page,
		Limit:       listFilter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(listFilter.Limit))),
		Attendances: responses,
	}, nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Attendance deleted", "attendance_id", id)
	return nil
}

func toListFilter(f attendance.AttendanceFilter) (attendance.ListFilter, error) {
	out := attendance.ListFilter{
		EmployeeID: f.EmployeeID,
		Page:       f.Page,
		Limit:      f.Limit,
		SortOrder:  f.SortOrder,
	}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit < 1 {
		out.Limit = 20
	}

	parse := func(s *string) (*time.Time, error) {
		if s == nil || *s == "" {
			return nil, nil
		}
		d, err := orgtime.ParseDate(*s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}

	switch {
	case f.Date != nil && *f.Date != "":
		d, err := parse(f.Date)
		if err != nil {
			return out, err
		}
		out.From, out.To = d, d
	case f.Month != nil && f.Year != nil:
		first, last := orgtime.MonthBounds(orgtime.Date(*f.Year, time.Month(*f.Month), 1))
		out.From, out.To = &first, &last
	default:
		from, err := parse(f.StartDate)
		if err != nil {
			return out, err
		}
		to, err := parse(f.EndDate)
		if err != nil {
			return out, err
		}
		out.From, out.To = from, to
	}
	return out, nil
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(orgtime.Location).Format(time.RFC3339)
	return &s
}

func toAttendanceResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		EmployeeCode:      a.EmployeeCode,
		Date:              orgtime.FormatDate(a.Date),
		CheckInTime:       formatInstant(a.CheckInTime),
		CheckOutTime:      formatInstant(a.CheckOutTime),
		CheckInLocal:      orgtime.FormatHHMM12(a.CheckInTime),
		CheckOutLocal:     orgtime.FormatHHMM12(a.CheckOutTime),
		CheckInReason:     a.CheckInReason,
		CheckOutReason:    a.CheckOutReason,
		LateMinutes:       a.LateMinutes,
		EarlyMinutes:      a.EarlyMinutes,
		TotalHours:        a.TotalHours,
		FineAmount:        a.FineAmount,
		IsAutoLeave:       a.IsAutoLeave,
		IsModifiedByAdmin: a.IsModifiedByAdmin,
		State:             attendance.StateOf(&a),
	}
}
