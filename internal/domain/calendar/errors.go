package calendar

import "errors"

var (
	ErrHolidayNotFound        = errors.New("holiday not found")
	ErrHolidayExists          = errors.New("a holiday already exists on this date")
	ErrOffDayNotFound         = errors.New("off-day not found")
	ErrOffDayExists           = errors.New("an off-day already exists for this employee on this date")
	ErrOffDayHasAttendance    = errors.New("employee already has attendance on this date")
	ErrInvalidRecurrenceStart = errors.New("recurring holiday has no valid start date")
)
