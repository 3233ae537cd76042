package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	calendarsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/calendar"
	policysvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_AttendanceReport(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// Setup
	_, err := store.Settings().Upsert(ctx, policy.Settings{
		CheckInTime:        "09:00",
		CheckOutTime:       "17:00",
		RequiredWorkHours:  decimal.NewFromInt(8),
		GracePeriodMinutes: 15,
		LateFineBase:       500,
		LeaveCost:          1000,
		PaidLeavesPerMonth: 1,
		WarningLeaveCount:  3,
		DangerLeaveCount:   5,
		WorkingDays:        []int{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	ayesha, err := store.Employees().Create(ctx, employee.Employee{Name: "Ayesha", Email: "ayesha@example.com", Role: employee.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	bilal, err := store.Employees().Create(ctx, employee.Employee{Name: "Bilal", Email: "bilal@example.com", Role: employee.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	_, err = store.Employees().Create(ctx, employee.Employee{Name: "Admin", Email: "admin@example.com", Role: employee.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	_, err = store.Holidays().Create(ctx, calendar.Holiday{Name: "Pakistan Day", Date: orgtime.Date(2024, time.March, 13)})
	require.NoError(t, err)

	at := func(day, hour, minute int) *time.Time {
		ts := time.Date(2024, time.March, day, hour, minute, 0, 0, orgtime.Location).UTC()
		return &ts
	}
	records := []attendance.Attendance{
		{EmployeeID: ayesha.ID, Date: orgtime.Date(2024, time.March, 11), CheckInTime: at(11, 9, 35), CheckOutTime: at(11, 17, 35), LateMinutes: 35, TotalHours: decimal.NewFromInt(8), FineAmount: 500},
		{EmployeeID: ayesha.ID, Date: orgtime.Date(2024, time.March, 12), CheckInTime: at(12, 9, 0), CheckOutTime: at(12, 15, 0), EarlyMinutes: 120, TotalHours: decimal.NewFromInt(6)},
		{EmployeeID: bilal.ID, Date: orgtime.Date(2024, time.March, 15), CheckInTime: at(15, 9, 10), LateMinutes: 10},
	}
	for _, rec := range records {
		_, err := store.Attendances().Create(ctx, rec)
		require.NoError(t, err)
	}

	for _, l := range []leave.LeaveRequest{
		{EmployeeID: ayesha.ID, Date: orgtime.Date(2024, time.March, 14), LeaveType: leave.TypePaid, Status: leave.StatusApproved, IsPaid: true},
		{EmployeeID: ayesha.ID, Date: orgtime.Date(2024, time.March, 20), LeaveType: leave.TypePaid, Status: leave.StatusApproved},
		{EmployeeID: bilal.ID, Date: orgtime.Date(2024, time.March, 12), LeaveType: leave.TypeCasual, Status: leave.StatusPending},
	} {
		_, err := store.Leaves().Create(ctx, l)
		require.NoError(t, err)
	}

	// Friday 2024-03-15, 10:00 PKT
	clock := orgtime.FixedClock(time.Date(2024, time.March, 15, 10, 0, 0, 0, orgtime.Location))
	svc := NewReportService(
		store.Employees(),
		store.Attendances(),
		store.Leaves(),
		policysvc.NewPolicyService(store.Settings(), store.Overrides()),
		calendarsvc.NewGate(store.Holidays(), store.OffDays()),
		clock,
	)

	// Act
	result, err := svc.AttendanceReport(ctx, report.AttendanceReportRequest{StartDate: "2024-03-11", EndDate: "2024-03-15"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", result.PeriodStart)
	assert.Equal(t, "2024-03-15", result.PeriodEnd)
	require.Len(t, result.Employees, 2)

	a := result.Employees[0]
	assert.Equal(t, "Ayesha", a.EmployeeName)
	assert.Equal(t, 4, a.WorkingDays)
	assert.Equal(t, 2, a.PresentDays)
	assert.Equal(t, 1, a.LeaveCount)
	assert.Equal(t, 1, a.AbsentDays)
	assert.Equal(t, 1, a.LateDays)
	assert.Equal(t, 1, a.EarlyDays)
	assert.Equal(t, 1, a.IncompleteDays)
	assert.Equal(t, int64(500), a.TotalFines)
	assert.True(t, a.TotalHours.Equal(decimal.NewFromInt(14)))
	assert.True(t, a.AverageHours.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, leave.ZoneNormal, a.LeaveZone)
	assert.Equal(t, int64(1000), a.LeaveCost, "two approved leaves in March, one free")

	b := result.Employees[1]
	assert.Equal(t, "Bilal", b.EmployeeName)
	assert.Equal(t, 1, b.PresentDays)
	assert.Equal(t, 0, b.LeaveCount, "pending leaves are not counted")
	assert.Equal(t, 3, b.AbsentDays)
	assert.True(t, b.AverageHours.IsZero())

	assert.Equal(t, 2, result.Overview.TotalEmployees)
	assert.Equal(t, 3, result.Overview.TotalAttendance)
	assert.Equal(t, 1, result.Overview.TotalLeaves)
	assert.Equal(t, int64(500), result.Overview.TotalFines)
	assert.Equal(t, "4.67", result.Overview.AverageHours.StringFixed(2))
	assert.Equal(t, 1, result.Overview.PresentToday)
	assert.Equal(t, 1, result.Overview.LateToday)
	assert.Equal(t, 1, result.Overview.AbsentToday)
}

func TestWorkingDays(t *testing.T) {
	p := policy.Policy{WorkingDays: []int{1, 2, 3, 4, 5}}

	// 2024-03-01 (Fri) .. 2024-03-31 (Sun): 21 weekdays
	count := workingDays(orgtime.Date(2024, time.March, 1), orgtime.Date(2024, time.March, 31), p, nil)
	assert.Equal(t, 21, count)

	count = workingDays(orgtime.Date(2024, time.March, 1), orgtime.Date(2024, time.March, 31), p, map[string]bool{"2024-03-13": true, "2024-03-23": true})
	assert.Equal(t, 20, count, "a weekend holiday removes nothing")
}
