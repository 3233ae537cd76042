package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	calendarsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/calendar"
	policysvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeID = "emp-1"
	adminID    = "admin-1"
)

func newTestLeaveService(t *testing.T) (*memory.Store, leave.LeaveService) {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Settings().Upsert(context.Background(), policy.Settings{
		CheckInTime:        "09:00",
		CheckOutTime:       "17:00",
		RequiredWorkHours:  decimal.NewFromInt(8),
		GracePeriodMinutes: 15,
		LeaveCost:          1000,
		PaidLeavesPerMonth: 1,
		WarningLeaveCount:  3,
		DangerLeaveCount:   5,
		WorkingDays:        []int{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	// Monday 2024-03-11, 10:00 PKT
	clock := orgtime.FixedClock(time.Date(2024, time.March, 11, 10, 0, 0, 0, orgtime.Location))
	svc := NewLeaveService(
		store.Leaves(),
		policysvc.NewPolicyService(store.Settings(), store.Overrides()),
		calendarsvc.NewGate(store.Holidays(), store.OffDays()),
		store.Transactor(),
		clock,
	)
	return store, svc
}

func request(date string, leaveType leave.Type) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{EmployeeID: employeeID, Date: date, Reason: "personal matters", LeaveType: leaveType}
}

func TestLeaveService_Request_Admission(t *testing.T) {
	ctx := context.Background()
	store, svc := newTestLeaveService(t)
	_, err := store.Holidays().Create(ctx, calendar.Holiday{Name: "Pakistan Day", Date: orgtime.Date(2024, time.March, 22)})
	require.NoError(t, err)

	tests := []struct {
		name   string
		date   string
		reason admission.Reason
	}{
		{"today", "2024-03-11", admission.ReasonPastDatedLeave},
		{"yesterday", "2024-03-10", admission.ReasonPastDatedLeave},
		{"saturday", "2024-03-16", admission.ReasonNonWorkingDayLeave},
		{"holiday", "2024-03-22", admission.ReasonHolidayLeave},
		{"tomorrow", "2024-03-12", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Request(ctx, request(tt.date, leave.TypeUnpaid))
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, leave.StatusPending, resp.Status)
				assert.False(t, resp.IsPaid)
				return
			}
			reason, ok := admission.ReasonOf(err)
			require.True(t, ok, "expected admission error, got %v", err)
			assert.Equal(t, tt.reason, reason)
		})
	}

	_, err = svc.Request(ctx, request("2024-03-12", leave.TypeUnpaid))
	assert.ErrorIs(t, err, admission.Deny(admission.ReasonDuplicateLeave))
}

func TestLeaveService_Decide_PaidAllocation(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestLeaveService(t)

	first, err := svc.Request(ctx, request("2024-03-12", leave.TypePaid))
	require.NoError(t, err)
	second, err := svc.Request(ctx, request("2024-03-13", leave.TypePaid))
	require.NoError(t, err)
	nextMonth, err := svc.Request(ctx, request("2024-04-02", leave.TypePaid))
	require.NoError(t, err)

	// Act
	approvedFirst, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: first.ID, ApproverID: adminID, Status: leave.StatusApproved})
	require.NoError(t, err)
	approvedSecond, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: second.ID, ApproverID: adminID, Status: leave.StatusApproved})
	require.NoError(t, err)
	approvedNext, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: nextMonth.ID, ApproverID: adminID, Status: leave.StatusApproved})
	require.NoError(t, err)

	// Assert
	assert.True(t, approvedFirst.IsPaid)
	assert.False(t, approvedSecond.IsPaid)
	assert.True(t, approvedNext.IsPaid, "allocation resets each calendar month")
	require.NotNil(t, approvedFirst.ApprovedBy)
	assert.Equal(t, adminID, *approvedFirst.ApprovedBy)
	assert.NotNil(t, approvedFirst.ApprovedAt)

	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: first.ID, ApproverID: adminID, Status: leave.StatusRejected})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	balance, err := svc.Balance(ctx, leave.BalanceRequest{EmployeeID: employeeID})
	require.NoError(t, err)
	assert.Equal(t, 3, balance.Month)
	assert.Equal(t, 2, balance.UsedThisMonth)
	assert.Equal(t, 0, balance.Remaining)
	assert.Equal(t, leave.ZoneNormal, balance.Zone)
	assert.Equal(t, int64(1000), balance.MonthCost)
	assert.Equal(t, int64(1000), balance.NextLeaveCost)
}

type callLog struct{ calls []string }

type loggingTransactor struct {
	database.Transactor
	log *callLog
}

func (t loggingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.log.calls = append(t.log.calls, "begin")
	err := t.Transactor.WithinTransaction(ctx, fn)
	t.log.calls = append(t.log.calls, "end")
	return err
}

type loggingLeaves struct {
	leave.LeaveRequestRepository
	log *callLog
}

func (r loggingLeaves) LockForDecision(ctx context.Context, id string) error {
	r.log.calls = append(r.log.calls, "lock")
	return r.LeaveRequestRepository.LockForDecision(ctx, id)
}

func (r loggingLeaves) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.log.calls = append(r.log.calls, "get")
	return r.LeaveRequestRepository.GetByID(ctx, id)
}

func (r loggingLeaves) CountApprovedInMonth(ctx context.Context, employeeID string, monthOf time.Time, excludeID string) (int, error) {
	r.log.calls = append(r.log.calls, "count")
	return r.LeaveRequestRepository.CountApprovedInMonth(ctx, employeeID, monthOf, excludeID)
}

func TestLeaveService_Decide_LocksBeforeCounting(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestLeaveService(t)
	log := &callLog{}
	svc := NewLeaveService(
		loggingLeaves{LeaveRequestRepository: store.Leaves(), log: log},
		policysvc.NewPolicyService(store.Settings(), store.Overrides()),
		calendarsvc.NewGate(store.Holidays(), store.OffDays()),
		loggingTransactor{Transactor: store.Transactor(), log: log},
		orgtime.FixedClock(time.Date(2024, time.March, 11, 10, 0, 0, 0, orgtime.Location)),
	)
	pending, err := svc.Request(ctx, request("2024-03-12", leave.TypePaid))
	require.NoError(t, err)
	log.calls = nil

	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: pending.ID, ApproverID: adminID, Status: leave.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "lock", "get", "count", "end"}, log.calls)

	log.calls = nil
	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: "missing", ApproverID: adminID, Status: leave.StatusApproved})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	assert.Equal(t, []string{"begin", "lock", "end"}, log.calls)
}

func TestLeaveService_Decide_UnpaidTypeNeverPaid(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestLeaveService(t)

	lr, err := svc.Request(ctx, request("2024-03-12", leave.TypeSick))
	require.NoError(t, err)

	approved, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: lr.ID, ApproverID: adminID, Status: leave.StatusApproved})

	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.False(t, approved.IsPaid)
}

func TestLeaveService_Reject_FreesDate(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestLeaveService(t)

	lr, err := svc.Request(ctx, request("2024-03-12", leave.TypePaid))
	require.NoError(t, err)

	rejected, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: lr.ID, ApproverID: adminID, Status: leave.StatusRejected})
	require.NoError(t, err)
	assert.False(t, rejected.IsPaid)

	_, err = svc.Request(ctx, request("2024-03-12", leave.TypePaid))
	assert.NoError(t, err)
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestLeaveService(t)

	lr, err := svc.Request(ctx, request("2024-03-12", leave.TypeCasual))
	require.NoError(t, err)

	err = svc.Cancel(ctx, leave.CancelLeaveRequest{ID: lr.ID, ActorID: "emp-2"})
	assert.ErrorIs(t, err, leave.ErrCancelForbidden)

	require.NoError(t, svc.Cancel(ctx, leave.CancelLeaveRequest{ID: lr.ID, ActorID: employeeID}))
	_, err = svc.Get(ctx, lr.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	approved, err := svc.Request(ctx, request("2024-03-13", leave.TypeCasual))
	require.NoError(t, err)
	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: approved.ID, ApproverID: adminID, Status: leave.StatusApproved})
	require.NoError(t, err)

	err = svc.Cancel(ctx, leave.CancelLeaveRequest{ID: approved.ID, ActorID: adminID, IsAdmin: true})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestLeaveService_Balance_Zones(t *testing.T) {
	ctx := context.Background()
	_, svc := newTestLeaveService(t)

	dates := []string{"2024-03-12", "2024-03-13", "2024-03-14", "2024-03-15", "2024-03-18"}
	for i, date := range dates {
		lr, err := svc.Request(ctx, request(date, leave.TypeUnpaid))
		require.NoError(t, err)
		_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: lr.ID, ApproverID: adminID, Status: leave.StatusApproved})
		require.NoError(t, err)

		balance, err := svc.Balance(ctx, leave.BalanceRequest{EmployeeID: employeeID, Month: 3, Year: 2024})
		require.NoError(t, err)
		switch used := i + 1; {
		case used >= 5:
			assert.Equal(t, leave.ZoneDanger, balance.Zone)
		case used >= 3:
			assert.Equal(t, leave.ZoneWarning, balance.Zone)
		default:
			assert.Equal(t, leave.ZoneNormal, balance.Zone)
		}
	}

	list, err := svc.List(ctx, leave.LeaveFilter{EmployeeID: strPtr(employeeID), Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), list.TotalCount)
	assert.Equal(t, 3, list.TotalPages)
	assert.Len(t, list.Leaves, 2)
}

func strPtr(s string) *string { return &s }
