package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceAlreadyExists = errors.New("attendance record already exists for this date")
	ErrUnauthorized            = errors.New("unauthorized to access this attendance record")
	ErrEditWindowClosed        = errors.New("check-in reason can only be changed within 15 minutes of checking in")
	ErrCheckOutBeforeCheckIn   = errors.New("check-out time must be after check-in time")
	ErrCheckOutWithoutCheckIn  = errors.New("check-out time requires a check-in time")

	// ErrReasonRequired matches every *ReasonRequiredError.
	ErrReasonRequired = errors.New("reason is required")
)

// ReasonRequiredError is returned when a late check-in or an early check-out is
// submitted without an explanation. Minutes carries the late/early minutes so the
// client can prompt for the missing field.
type ReasonRequiredError struct {
	Field   string
	Kind    string // "late" or "early"
	Minutes int
}

func (e *ReasonRequiredError) Error() string {
	return fmt.Sprintf("%s is required: %d minute(s) %s", e.Field, e.Minutes, e.Kind)
}

func (e *ReasonRequiredError) Is(target error) bool {
	return target == ErrReasonRequired
}
