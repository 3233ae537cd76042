package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the employee.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut completes today's record for the employee.
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// Today reports the employee's day state and live lateness.
	Today(ctx context.Context, employeeID string) (TodayResponse, error)

	UpdateCheckInReason(ctx context.Context, req UpdateReasonRequest) (AttendanceResponse, error)

	// CreateManual creates a record on behalf of an employee (admin).
	CreateManual(ctx context.Context, req ManualAttendanceRequest) (AttendanceResponse, error)

	// Edit changes times/reasons of an existing record and recomputes derived values (admin).
	Edit(ctx context.Context, req EditAttendanceRequest) (AttendanceResponse, error)

	Get(ctx context.Context, id string) (AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Delete(ctx context.Context, id string) error
}
