package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	// GetByDate returns the holiday stored for exactly date, or nil.
	GetByDate(ctx context.Context, date time.Time) (*Holiday, error)
	ListRecurring(ctx context.Context) ([]Holiday, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Delete(ctx context.Context, id string) error
}

type OffDayRepository interface {
	Create(ctx context.Context, offDay OffDay) (OffDay, error)
	GetByID(ctx context.Context, id string) (OffDay, error)
	// GetByEmployeeAndDate returns the employee's off-day on date, or nil.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*OffDay, error)
	List(ctx context.Context, filter OffDayFilter) ([]OffDay, error)
	Delete(ctx context.Context, id string) error
}
