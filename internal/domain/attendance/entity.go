package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance is one employee's record for one organization-local calendar date.
type Attendance struct {
	ID         string
	EmployeeID string
	// Date is the organization-local calendar date at midnight UTC.
	Date time.Time

	CheckInTime    *time.Time
	CheckOutTime   *time.Time
	CheckInReason  *string
	CheckOutReason *string

	// Derived
	LateMinutes  int
	EarlyMinutes int
	TotalHours   decimal.Decimal
	FineAmount   int64

	IsAutoLeave       bool
	IsModifiedByAdmin bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// Derived holds every value the fine engine computes for a record.
type Derived struct {
	LateMinutes  int
	EarlyMinutes int
	TotalHours   decimal.Decimal
	FineAmount   int64
}

// Apply copies derived values onto the record.
func (a *Attendance) Apply(d Derived) {
	a.LateMinutes = d.LateMinutes
	a.EarlyMinutes = d.EarlyMinutes
	a.TotalHours = d.TotalHours
	a.FineAmount = d.FineAmount
}

// Derived returns the record's currently stored derived values.
func (a Attendance) Derived() Derived {
	return Derived{
		LateMinutes:  a.LateMinutes,
		EarlyMinutes: a.EarlyMinutes,
		TotalHours:   a.TotalHours,
		FineAmount:   a.FineAmount,
	}
}

// ListFilter is the resolved form of AttendanceFilter used by repositories.
type ListFilter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
	SortOrder  string
}
