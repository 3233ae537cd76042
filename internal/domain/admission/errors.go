// Package admission holds the structured rejection returned when a check-in,
// check-out or leave request is not allowed for the requested day.
package admission

import "errors"

// Reason enumerates why a request was turned away.
type Reason string

const (
	ReasonAlreadyCheckedIn   Reason = "ALREADY_CHECKED_IN"
	ReasonNonWorkingDay      Reason = "NON_WORKING_DAY"
	ReasonHoliday            Reason = "HOLIDAY"
	ReasonOffDay             Reason = "OFF_DAY"
	ReasonNotCheckedIn       Reason = "NOT_CHECKED_IN"
	ReasonAlreadyCheckedOut  Reason = "ALREADY_CHECKED_OUT"
	ReasonDuplicateLeave     Reason = "DUPLICATE_LEAVE"
	ReasonPastDatedLeave     Reason = "PAST_DATED_LEAVE"
	ReasonNonWorkingDayLeave Reason = "NON_WORKING_DAY_LEAVE"
	ReasonHolidayLeave       Reason = "HOLIDAY_LEAVE"
)

var messages = map[Reason]string{
	ReasonAlreadyCheckedIn:   "already checked in today",
	ReasonNonWorkingDay:      "today is not a working day",
	ReasonHoliday:            "today is a holiday",
	ReasonOffDay:             "today is your off day",
	ReasonNotCheckedIn:       "not checked in today",
	ReasonAlreadyCheckedOut:  "already checked out today",
	ReasonDuplicateLeave:     "a leave request already exists for this date",
	ReasonPastDatedLeave:     "leave can only be requested for future dates",
	ReasonNonWorkingDayLeave: "cannot request leave on a non-working day",
	ReasonHolidayLeave:       "cannot request leave on a holiday",
}

// ErrAdmissionDenied matches every *DeniedError through errors.Is.
var ErrAdmissionDenied = errors.New("admission denied")

type DeniedError struct {
	Reason Reason
	// Detail optionally names the blocking record, e.g. the holiday name.
	Detail string
}

func (e *DeniedError) Error() string {
	msg, ok := messages[e.Reason]
	if !ok {
		msg = string(e.Reason)
	}
	if e.Detail != "" {
		return msg + " (" + e.Detail + ")"
	}
	return msg
}

func (e *DeniedError) Is(target error) bool {
	if target == ErrAdmissionDenied {
		return true
	}
	var other *DeniedError
	if errors.As(target, &other) {
		return other.Reason == e.Reason
	}
	return false
}

// Deny builds a DeniedError for reason.
func Deny(reason Reason) error {
	return &DeniedError{Reason: reason}
}

// DenyWithDetail builds a DeniedError for reason with a human readable detail.
func DenyWithDetail(reason Reason, detail string) error {
	return &DeniedError{Reason: reason, Detail: detail}
}

// ReasonOf extracts the denial reason from err.
func ReasonOf(err error) (Reason, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied.Reason, true
	}
	return "", false
}
