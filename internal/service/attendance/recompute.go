package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

// Edit is an administrator's change to an existing record. Nil fields are untouched.
type Edit struct {
	CheckIn        *time.Time
	CheckOut       *time.Time
	CheckInReason  *string
	CheckOutReason *string
}

func timeChanged(current *time.Time, next *time.Time) bool {
	if next == nil {
		return false
	}
	return current == nil || !current.Equal(*next)
}

// Recompute applies edit to rec and re-derives the fields that depend on a changed
// time, using the times in effect after the edit. The result matches a fresh
// check-in/check-out at the same final times, whatever the edit history.
func Recompute(rec attendance.Attendance, edit Edit, p policy.Policy) (attendance.Attendance, error) {
	checkInChanged := timeChanged(rec.CheckInTime, edit.CheckIn)
	checkOutChanged := timeChanged(rec.CheckOutTime, edit.CheckOut)

	if checkInChanged {
		in := *edit.CheckIn
		rec.CheckInTime = &in
	}
	if checkOutChanged {
		out := *edit.CheckOut
		rec.CheckOutTime = &out
	}
	if edit.CheckInReason != nil {
		rec.CheckInReason = edit.CheckInReason
	}
	if edit.CheckOutReason != nil {
		rec.CheckOutReason = edit.CheckOutReason
	}

	if rec.CheckOutTime != nil {
		if rec.CheckInTime == nil {
			return rec, attendance.ErrCheckOutWithoutCheckIn
		}
		if rec.CheckOutTime.Before(*rec.CheckInTime) {
			return rec, attendance.ErrCheckOutBeforeCheckIn
		}
	}

	if checkInChanged {
		fine := ComputeLateFine(*rec.CheckInTime, p.CheckIn, p)
		rec.LateMinutes = fine.LateMinutes
		rec.FineAmount = fine.FineAmount
	}
	if checkOutChanged {
		rec.EarlyMinutes = ComputeEarlyMinutes(*rec.CheckOutTime, p.CheckOut)
	}
	if checkInChanged || checkOutChanged {
		rec.TotalHours = ComputeTotalHours(*rec.CheckInTime, rec.CheckOutTime)
	}

	rec.IsModifiedByAdmin = true
	return rec, nil
}
