package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/shopspring/decimal"
)

const (
	fineBlockMinutes = 30
	// reasonEditWindow is how long after checking in an employee may amend the reason.
	reasonEditWindow = 15 * time.Minute
)

var minutesPerHour = decimal.NewFromInt(60)

// LateFine is the lateness of a check-in and the fine it incurs.
type LateFine struct {
	LateMinutes int
	FineAmount  int64
}

// wholeMinutes truncates d to whole minutes.
func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

// ComputeLateFine measures checkIn against the assigned time on the same
// organization-local date and prices the lateness.
func ComputeLateFine(checkIn time.Time, assigned orgtime.ClockTime, p policy.Policy) LateFine {
	late := wholeMinutes(checkIn.Sub(assigned.SameDayAs(checkIn)))
	if late < 0 {
		late = 0
	}
	return LateFine{
		LateMinutes: late,
		FineAmount:  FineFor(late, p),
	}
}

// FineFor prices lateMinutes: nothing up to the grace period, then the base fine
// plus one step per complete 30 minutes beyond grace.
func FineFor(lateMinutes int, p policy.Policy) int64 {
	if lateMinutes <= p.GracePeriodMinutes {
		return 0
	}
	afterGrace := lateMinutes - p.GracePeriodMinutes
	return p.LateFineBase + int64(afterGrace/fineBlockMinutes)*p.LateFinePer30Min
}

// ComputeEarlyMinutes is how many whole minutes checkOut precedes the assigned
// check-out time on the same organization-local date.
func ComputeEarlyMinutes(checkOut time.Time, assigned orgtime.ClockTime) int {
	early := wholeMinutes(assigned.SameDayAs(checkOut).Sub(checkOut))
	if early < 0 {
		return 0
	}
	return early
}

// ComputeTotalHours is the worked time in hours, counted in whole minutes.
// It is zero until a check-out exists and is never rounded.
func ComputeTotalHours(checkIn time.Time, checkOut *time.Time) decimal.Decimal {
	if checkOut == nil {
		return decimal.Zero
	}
	minutes := wholeMinutes(checkOut.Sub(checkIn))
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
}

// IsWorkHoursIncomplete returns whether totalHours falls short of requiredHours and
// the shortfall rounded to two decimals.
func IsWorkHoursIncomplete(totalHours, requiredHours decimal.Decimal) (bool, decimal.Decimal) {
	deficiency := requiredHours.Sub(totalHours)
	if deficiency.IsNegative() {
		deficiency = decimal.Zero
	}
	deficiency = deficiency.Round(2)
	return deficiency.IsPositive(), deficiency
}

// ReasonMissing reports whether a late/early time of minutes lacks its mandatory reason.
func ReasonMissing(minutes int, reason *string) bool {
	return minutes > 0 && (reason == nil || strings.TrimSpace(*reason) == "")
}

// RequireCheckInReason rejects a late check-in without a reason.
func RequireCheckInReason(lateMinutes int, reason *string) error {
	if ReasonMissing(lateMinutes, reason) {
		return &attendance.ReasonRequiredError{Field: "reason", Kind: "late", Minutes: lateMinutes}
	}
	return nil
}

// RequireCheckOutReason rejects an early check-out without a reason.
func RequireCheckOutReason(earlyMinutes int, reason *string) error {
	if ReasonMissing(earlyMinutes, reason) {
		return &attendance.ReasonRequiredError{Field: "reason", Kind: "early", Minutes: earlyMinutes}
	}
	return nil
}

// Derive computes every derived field from a final pair of times.
func Derive(checkIn time.Time, checkOut *time.Time, p policy.Policy) attendance.Derived {
	fine := ComputeLateFine(checkIn, p.CheckIn, p)
	d := attendance.Derived{
		LateMinutes: fine.LateMinutes,
		FineAmount:  fine.FineAmount,
		TotalHours:  ComputeTotalHours(checkIn, checkOut),
	}
	if checkOut != nil {
		d.EarlyMinutes = ComputeEarlyMinutes(*checkOut, p.CheckOut)
	}
	return d
}

// CanEditReason reports whether now is within the edit window around checkIn.
func CanEditReason(checkIn, now time.Time) bool {
	diff := now.Sub(checkIn)
	if diff < 0 {
		diff = -diff
	}
	return wholeMinutes(diff) <= wholeMinutes(reasonEditWindow)
}
