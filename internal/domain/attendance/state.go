package attendance

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"

// DayState is the position of a single day's attendance in its lifecycle.
type DayState string

const (
	StateNotCheckedIn DayState = "NOT_CHECKED_IN"
	StateCheckedIn    DayState = "CHECKED_IN"
	StateDayComplete  DayState = "DAY_COMPLETE"
)

// StateOf derives the day state from today's record, which may be nil.
func StateOf(rec *Attendance) DayState {
	switch {
	case rec == nil || rec.CheckInTime == nil:
		return StateNotCheckedIn
	case rec.CheckOutTime == nil:
		return StateCheckedIn
	default:
		return StateDayComplete
	}
}

// CheckIn returns the state after a check-in, or the admission error forbidding it.
// Calendar gating (working day, holiday, off-day) is done separately.
func (s DayState) CheckIn() (DayState, error) {
	if s != StateNotCheckedIn {
		return s, admission.Deny(admission.ReasonAlreadyCheckedIn)
	}
	return StateCheckedIn, nil
}

// CheckOut returns the state after a check-out, or the admission error forbidding it.
func (s DayState) CheckOut() (DayState, error) {
	switch s {
	case StateNotCheckedIn:
		return s, admission.Deny(admission.ReasonNotCheckedIn)
	case StateDayComplete:
		return s, admission.Deny(admission.ReasonAlreadyCheckedOut)
	}
	return StateDayComplete, nil
}
