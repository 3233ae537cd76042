package leave

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

// ComputeLeaveZone classifies a month's leave count, danger checked first.
func ComputeLeaveZone(leavesThisMonth int, p policy.Policy) leave.Zone {
	switch {
	case leavesThisMonth >= p.DangerLeaveCount:
		return leave.ZoneDanger
	case leavesThisMonth >= p.WarningLeaveCount:
		return leave.ZoneWarning
	default:
		return leave.ZoneNormal
	}
}

// ComputeLeavePayment decides at approval time whether one more leave is paid.
// paidLeavesUsedThisMonth counts previously approved leaves only, never the one
// being decided.
func ComputeLeavePayment(paidLeavesUsedThisMonth int, p policy.Policy) bool {
	return paidLeavesUsedThisMonth < p.PaidLeavesPerMonth
}

// ComputeLeaveCost prices a month's aggregate leave count. Only leaves beyond the
// free allocation cost anything.
func ComputeLeaveCost(leavesThisMonth int, p policy.Policy) int64 {
	unpaid := leavesThisMonth - p.PaidLeavesPerMonth
	if unpaid < 0 {
		unpaid = 0
	}
	return int64(unpaid) * p.LeaveCost
}
