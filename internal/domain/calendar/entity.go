package calendar

import "time"

// Holiday is an organization-wide non-working date. A recurring holiday repeats
// every year on the same month and day.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	IsRecurring bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OffDay is an individually assigned non-working date for one employee.
type OffDay struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Reason     string
	IsPaid     bool
	CreatedAt  time.Time

	// DTO
	EmployeeName *string
}

type OffDayFilter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
}
