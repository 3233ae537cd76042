package leave

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Type string

const (
	TypePaid   Type = "PAID"
	TypeUnpaid Type = "UNPAID"
	TypeSick   Type = "SICK"
	TypeCasual Type = "CASUAL"
)

// Zone classifies an employee's monthly leave usage.
type Zone string

const (
	ZoneNormal  Zone = "NORMAL"
	ZoneWarning Zone = "WARNING"
	ZoneDanger  Zone = "DANGER"
)

// Rank orders zones so NORMAL < WARNING < DANGER.
func (z Zone) Rank() int {
	switch z {
	case ZoneWarning:
		return 1
	case ZoneDanger:
		return 2
	default:
		return 0
	}
}

type LeaveRequest struct {
	ID         string
	EmployeeID string
	// Date is the organization-local calendar date at midnight UTC.
	Date       time.Time
	Reason     string
	LeaveType  Type
	Status     Status
	IsPaid     bool
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// Decide moves a pending request into a terminal state. A rejection is never paid.
func (l LeaveRequest) Decide(status Status, approverID string, at time.Time, isPaid bool) (LeaveRequest, error) {
	if l.Status != StatusPending {
		return l, ErrLeaveRequestAlreadyProcessed
	}
	if !status.IsTerminal() {
		return l, ErrInvalidDecision
	}

	l.Status = status
	l.ApprovedBy = &approverID
	l.ApprovedAt = &at
	l.IsPaid = status == StatusApproved && isPaid
	return l, nil
}

// ListFilter is the resolved form of LeaveFilter used by repositories.
type ListFilter struct {
	EmployeeID *string
	Status     *Status
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}
