package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
)

type CalendarServiceImpl struct {
	calendar.Gate
	holidays    calendar.HolidayRepository
	offDays     calendar.OffDayRepository
	employees   employee.EmployeeRepository
	attendances attendance.AttendanceRepository
}

func NewCalendarService(
	gate calendar.Gate,
	holidayRepository calendar.HolidayRepository,
	offDayRepository calendar.OffDayRepository,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
) calendar.CalendarService {
	return &CalendarServiceImpl{
		Gate:        gate,
		holidays:    holidayRepository,
		offDays:     offDayRepository,
		employees:   employeeRepository,
		attendances: attendanceRepository,
	}
}

// CreateHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) CreateHoliday(ctx context.Context, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	date, err := orgtime.ParseDate(req.Date)
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	created, err := s.holidays.Create(ctx, calendar.Holiday{
		Name:        req.Name,
		Date:        date,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	slog.Info("Holiday created", "holiday_id", created.ID, "date", req.Date, "recurring", created.IsRecurring)
	return toHolidayResponse(created), nil
}

// ListHolidays implements calendar.CalendarService.
func (s *CalendarServiceImpl) ListHolidays(ctx context.Context, year int) ([]calendar.HolidayOccurrence, error) {
	from := orgtime.Date(year, time.January, 1)
	to := orgtime.Date(year, time.December, 31)

	occurrences, err := s.Gate.HolidaysBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if occurrences == nil {
		occurrences = []calendar.HolidayOccurrence{}
	}
	return occurrences, nil
}

// DeleteHoliday implements calendar.CalendarService.
func (s *CalendarServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	return s.holidays.Delete(ctx, id)
}

// CreateOffDay implements calendar.CalendarService.
func (s *CalendarServiceImpl) CreateOffDay(ctx context.Context, req calendar.CreateOffDayRequest) (calendar.OffDayResponse, error) {
	date, err := orgtime.ParseDate(req.Date)
	if err != nil {
		return calendar.OffDayResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return calendar.OffDayResponse{}, err
	}
	if emp.IsAdmin() {
		return calendar.OffDayResponse{}, employee.ErrNotAnEmployee
	}

	existing, err := s.attendances.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return calendar.OffDayResponse{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if existing != nil {
		return calendar.OffDayResponse{}, calendar.ErrOffDayHasAttendance
	}

	created, err := s.offDays.Create(ctx, calendar.OffDay{
		EmployeeID: emp.ID,
		Date:       date,
		Reason:     req.Reason,
		IsPaid:     req.IsPaid,
	})
	if err != nil {
		return calendar.OffDayResponse{}, err
	}
	created.EmployeeName = &emp.Name

	return toOffDayResponse(created), nil
}

// ListOffDays implements calendar.CalendarService.
func (s *CalendarServiceImpl) ListOffDays(ctx context.Context, req calendar.ListOffDaysRequest) ([]calendar.OffDayResponse, error) {
	filter := calendar.OffDayFilter{EmployeeID: req.EmployeeID}
	if req.StartDate != nil {
		from, err := orgtime.ParseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if req.EndDate != nil {
		to, err := orgtime.ParseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}

	offDays, err := s.offDays.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]calendar.OffDayResponse, 0, len(offDays))
	for _, o := range offDays {
		responses = append(responses, toOffDayResponse(o))
	}
	return responses, nil
}

// DeleteOffDay implements calendar.CalendarService.
func (s *CalendarServiceImpl) DeleteOffDay(ctx context.Context, id string) error {
	return s.offDays.Delete(ctx, id)
}

func toHolidayResponse(h calendar.Holiday) calendar.HolidayResponse {
	return calendar.HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        orgtime.FormatDate(h.Date),
		IsRecurring: h.IsRecurring,
	}
}

func toOffDayResponse(o calendar.OffDay) calendar.OffDayResponse {
	return calendar.OffDayResponse{
		ID:           o.ID,
		EmployeeID:   o.EmployeeID,
		EmployeeName: o.EmployeeName,
		Date:         orgtime.FormatDate(o.Date),
		Reason:       o.Reason,
		IsPaid:       o.IsPaid,
	}
}
