package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetActiveByEmployeeAndDate returns the non-rejected request on date, or nil.
	GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*LeaveRequest, error)

	// LockForDecision row-locks the request and its employee until the surrounding
	// transaction ends, so concurrent decisions for one employee run one at a time.
	LockForDecision(ctx context.Context, id string) error

	// CountApprovedInMonth counts the employee's approved requests dated in the calendar
	// month of monthOf, leaving out excludeID.
	CountApprovedInMonth(ctx context.Context, employeeID string, monthOf time.Time, excludeID string) (int, error)

	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
	ListApprovedBetween(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)

	// UpdateDecision persists status, is_paid, approved_by and approved_at.
	UpdateDecision(ctx context.Context, request LeaveRequest) error
	Delete(ctx context.Context, id string) error
}
