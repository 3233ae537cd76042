package calendar

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

// Gate decides whether a calendar date is open for check-in or a leave request.
type Gate interface {
	// CheckInAllowed requires a working day that is neither a holiday nor the
	// employee's off-day.
	CheckInAllowed(ctx context.Context, employeeID string, date time.Time, p policy.Policy) error
	// LeaveAllowed requires a working day that is not a holiday.
	LeaveAllowed(ctx context.Context, date time.Time, p policy.Policy) error
	// HolidayOn returns the holiday observed on date, or nil.
	HolidayOn(ctx context.Context, date time.Time) (*Holiday, error)
	// HolidaysBetween lists every observed holiday date in [from, to].
	HolidaysBetween(ctx context.Context, from, to time.Time) ([]HolidayOccurrence, error)
}

type CalendarService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	// ListHolidays returns the holidays observed in year, recurring ones included.
	ListHolidays(ctx context.Context, year int) ([]HolidayOccurrence, error)
	DeleteHoliday(ctx context.Context, id string) error

	CreateOffDay(ctx context.Context, req CreateOffDayRequest) (OffDayResponse, error)
	ListOffDays(ctx context.Context, req ListOffDaysRequest) ([]OffDayResponse, error)
	DeleteOffDay(ctx context.Context, id string) error
}
