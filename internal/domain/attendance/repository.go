package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update persists every mutable column of the record.
	Update(ctx context.Context, attendance Attendance) error

	List(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)

	// ListBetween returns every record with from <= date <= to.
	ListBetween(ctx context.Context, from, to time.Time) ([]Attendance, error)

	Delete(ctx context.Context, id string) error
}
